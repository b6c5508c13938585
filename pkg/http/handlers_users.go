package http

import (
	"net/http"
	"strconv"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
	"github.com/gin-gonic/gin"

	"aquamon.io/water-quality-service/pkg/models"
)

func (rs *RestfulServer) ListUsers(c *gin.Context) {
	users, err := rs.Mon.User.List()
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// AdminCreateUser is ApiRegister behind the admin gate; admins may provision
// accounts with any role.
func (rs *RestfulServer) AdminCreateUser(c *gin.Context) {
	rs.ApiRegister(c)
}

func (rs *RestfulServer) AdminDeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := rs.Mon.User.Delete(uint(id)); err != nil {
		serviceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

var changeRoleRequestSchema = z.Struct(z.Shape{
	"Role": z.String().OneOf([]string{"admin", "user"}).Required(),
})

func (rs *RestfulServer) ChangeUserRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req ChangeRoleRequest
	if err := changeRoleRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	usr, err := rs.Mon.User.ChangeRole(uint(id), models.Role(req.Role))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

func (rs *RestfulServer) GetProfile(c *gin.Context) {
	usr, err := rs.Mon.User.GetByID(currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

type PatchProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

var patchProfileRequestSchema = z.Struct(z.Shape{
	"Username": z.Ptr(z.String().Min(1)),
	"Email":    z.Ptr(z.String().Email()),
})

func (rs *RestfulServer) PatchProfile(c *gin.Context) {
	var req PatchProfileRequest
	if err := patchProfileRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	usr, err := rs.Mon.User.UpdateProfile(currentUserID(c), req.Username, req.Email)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, usr)
}
