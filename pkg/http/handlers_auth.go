package http

import (
	"net/http"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aquamon.io/water-quality-service/pkg/auth"
	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

var registerRequestSchema = z.Struct(z.Shape{
	"Username": z.String().Min(1).Required(),
	"Email":    z.String().Email().Required(),
	"Password": z.String().Min(6).Required(),
	"Role":     z.String().OneOf([]string{"admin", "user"}).Optional(),
})

func (rs *RestfulServer) ApiRegister(c *gin.Context) {
	var req RegisterRequest
	if err := registerRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	usr, err := rs.Mon.User.Register(req.Username, req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, usr)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var loginRequestSchema = z.Struct(z.Shape{
	"Username": z.String().Min(1).Required(),
	"Password": z.String().Min(1).Required(),
})

func (rs *RestfulServer) ApiLogin(c *gin.Context) {
	var req LoginRequest
	if err := loginRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	usr, err := rs.Mon.User.Authenticate(req.Username, req.Password)
	if err != nil {
		serviceError(c, err)
		return
	}

	access, refresh, err := auth.GenerateTokenPair(usr)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh})
}

type TokenRefreshRequest struct {
	Refresh string `json:"refresh"`
}

var tokenRefreshRequestSchema = z.Struct(z.Shape{
	"Refresh": z.String().Min(1).Required(),
})

func (rs *RestfulServer) ApiTokenRefresh(c *gin.Context) {
	var req TokenRefreshRequest
	if err := tokenRefreshRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	claims, err := auth.ParseRefreshToken(req.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	usr, err := rs.Mon.User.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	access, err := auth.RefreshAccessToken(usr)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

var changePasswordRequestSchema = z.Struct(z.Shape{
	"OldPassword": z.String().Min(1).Required(),
	"NewPassword": z.String().Min(6).Required(),
})

func (rs *RestfulServer) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := changePasswordRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	usr, err := rs.Mon.User.GetByID(currentUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	if err := usr.CheckPassword(req.OldPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": gin.H{"old_password": "old password is incorrect"},
		})
		return
	}

	if err := rs.Mon.User.SetPassword(usr.ID, req.NewPassword); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

type PasswordResetRequestRequest struct {
	Email string `json:"email"`
}

var passwordResetRequestSchema = z.Struct(z.Shape{
	"Email": z.String().Email().Required(),
})

// sendResetEmail looks the account up and mails a reset link. The outcome is
// deliberately not surfaced to the caller.
func (rs *RestfulServer) sendResetEmail(emailAddr string) {
	logger := common.GetLoggerWith(common.LoggerNameRestfulServer)

	usr, err := rs.Mon.User.GetByEmail(emailAddr)
	if err != nil {
		logger.Info("Password reset requested for unknown email")
		return
	}

	token, err := auth.MakeResetToken(usr)
	if err != nil {
		logger.Error("Failed to make reset token", zap.Error(err))
		return
	}

	resetURL := rs.BaseURL + "/reset-password/" + auth.EncodeUID(usr) + "/" + token
	if err := rs.Email.SendPasswordReset(usr.Email, usr.Username, resetURL); err != nil {
		logger.Error("Failed to send reset email", zap.Error(err))
	}
}

func (rs *RestfulServer) ApiPasswordResetRequest(c *gin.Context) {
	var req PasswordResetRequestRequest
	if err := passwordResetRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.sendResetEmail(req.Email)

	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent"})
}

type PasswordResetConfirmRequest struct {
	NewPassword string `json:"new_password"`
}

var passwordResetConfirmSchema = z.Struct(z.Shape{
	"NewPassword": z.String().Min(6).Required(),
})

// resetPassword validates the uid/token pair from a reset link and applies
// the new password. Shared by the API handler and the HTML view.
func (rs *RestfulServer) resetPassword(uid, token, newPassword string) error {
	userID, err := auth.DecodeUID(uid)
	if err != nil {
		return err
	}
	usr, err := rs.Mon.User.GetByID(userID)
	if err != nil {
		return auth.ErrResetTokenInvalid
	}
	if err := auth.VerifyResetToken(usr, token); err != nil {
		return err
	}
	return rs.Mon.User.SetPassword(usr.ID, newPassword)
}

func (rs *RestfulServer) ApiPasswordResetConfirm(c *gin.Context) {
	var req PasswordResetConfirmRequest
	if err := passwordResetConfirmSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if err := rs.resetPassword(c.Param("uid"), c.Param("token"), req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired reset link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password has been reset"})
}
