package http

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/models"
)

// HTML views. These mirror the JSON API on a session cookie, for operators
// browsing the monitor directly.

func (rs *RestfulServer) HomeView(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{})
}

func (rs *RestfulServer) RegisterView(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func (rs *RestfulServer) RegisterSubmit(c *gin.Context) {
	username := c.PostForm("username")
	emailAddr := c.PostForm("email")
	password := c.PostForm("password")

	if username == "" || emailAddr == "" || len(password) < 6 {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Error": "All fields are required; password must be at least 6 characters",
		})
		return
	}

	// self-registration always creates the base tier
	usr, err := rs.Mon.User.Register(username, emailAddr, password, models.RoleUser)
	if err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": err.Error()})
		return
	}

	rs.logInSession(c, usr)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (rs *RestfulServer) LoginView(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (rs *RestfulServer) logInSession(c *gin.Context, usr *models.User) {
	session := sessions.Default(c)
	session.Set(sessionKeyUserID, usr.ID)
	session.Set(sessionKeyUsername, usr.Username)
	session.Set(sessionKeyRole, string(usr.Role))
	_ = session.Save()
}

func (rs *RestfulServer) LoginSubmit(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	usr, err := rs.Mon.User.Authenticate(username, password)
	if err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"Error": "Invalid username or password"})
		return
	}

	rs.logInSession(c, usr)

	if usr.IsAdmin() {
		c.Redirect(http.StatusFound, "/admin-dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (rs *RestfulServer) LogoutSubmit(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()
	c.Redirect(http.StatusFound, "/login")
}

func (rs *RestfulServer) DashboardView(c *gin.Context) {
	devices, err := rs.Mon.Device.ListForUser(currentUserID(c))
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	latest, err := rs.Mon.Reading.Latest()
	if err != nil {
		latest = nil // no readings yet is not an error for the page
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Username": c.GetString(ctxKeyUsername),
		"Devices":  devices,
		"Latest":   latest,
	})
}

func (rs *RestfulServer) AdminDashboardView(c *gin.Context) {
	users, err := rs.Mon.User.List()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	devices, err := rs.Mon.Device.List()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	alerts, err := rs.Mon.Alert.List()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	byStatus := common.Reducer(alerts,
		func(acc map[models.AlertStatus]int, a models.Alert) map[models.AlertStatus]int {
			acc[a.Status]++
			return acc
		},
		map[models.AlertStatus]int{})

	c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{
		"Username":       c.GetString(ctxKeyUsername),
		"UserCount":      len(users),
		"DeviceCount":    len(devices),
		"Alerts":         alerts,
		"OpenAlertCount": byStatus[models.AlertStatusNew],
	})
}

func (rs *RestfulServer) ReadingsTableView(c *gin.Context) {
	readings, err := rs.Mon.Reading.List(defaultReadingLimit)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to load readings")
		return
	}

	c.HTML(http.StatusOK, "readings.html", gin.H{
		"Username": c.GetString(ctxKeyUsername),
		"Readings": readings,
	})
}

func (rs *RestfulServer) PasswordResetRequestView(c *gin.Context) {
	c.HTML(http.StatusOK, "password_reset_request.html", gin.H{})
}

func (rs *RestfulServer) PasswordResetRequestSubmit(c *gin.Context) {
	emailAddr := c.PostForm("email")
	if emailAddr == "" {
		c.HTML(http.StatusBadRequest, "password_reset_request.html", gin.H{"Error": "Email is required"})
		return
	}

	rs.sendResetEmail(emailAddr)

	c.HTML(http.StatusOK, "password_reset_request.html", gin.H{
		"Message": "If the account exists, a reset link has been sent",
	})
}

func (rs *RestfulServer) PasswordResetConfirmView(c *gin.Context) {
	c.HTML(http.StatusOK, "password_reset_confirm.html", gin.H{})
}

func (rs *RestfulServer) PasswordResetConfirmSubmit(c *gin.Context) {
	newPassword := c.PostForm("new_password")
	if len(newPassword) < 6 {
		c.HTML(http.StatusBadRequest, "password_reset_confirm.html", gin.H{
			"Error": "Password must be at least 6 characters",
		})
		return
	}

	if err := rs.resetPassword(c.Param("uid"), c.Param("token"), newPassword); err != nil {
		c.HTML(http.StatusBadRequest, "password_reset_confirm.html", gin.H{
			"Error": "Invalid or expired reset link",
		})
		return
	}

	c.Redirect(http.StatusFound, "/login")
}
