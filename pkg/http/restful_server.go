package http

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"aquamon.io/water-quality-service/pkg/email"
	"aquamon.io/water-quality-service/pkg/models"
	"aquamon.io/water-quality-service/pkg/monitor"
)

type RestfulServer struct {
	Server           *gin.Engine
	Mon              *monitor.Monitor
	RateLimiterStore *monitor.RateLimiterStore
	Email            email.Service

	// BaseURL is the externally visible origin used to build links in
	// outgoing mail, e.g. "http://localhost:8080".
	BaseURL string

	SessionSecret []byte
}

func (rs *RestfulServer) GetLimiter(deviceKey string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	}
	return rs.RateLimiterStore.GetLimiter(deviceKey)
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceKey string) bool {
	limiter := rs.GetLimiter(deviceKey)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(deviceKey string, deviceRate float64, deviceBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(deviceKey, rate.Limit(deviceRate), deviceBurst)
}

func (rs *RestfulServer) Setup() {
	if rs.Email == nil {
		rs.Email = email.NewConsoleService()
	}
	if len(rs.SessionSecret) == 0 {
		rs.SessionSecret = []byte("aquamon-insecure-session-secret")
	}

	rs.Server.LoadHTMLGlob("templates/*.html")

	rs.Server.GET("/health", rs.HealthCheck)

	// session-cookie HTML views
	store := cookie.NewStore(rs.SessionSecret)
	views := rs.Server.Group("/")
	views.Use(sessions.Sessions("aquamon_session", store))
	{
		views.GET("/", rs.HomeView)
		views.GET("/register", rs.RegisterView)
		views.POST("/register", rs.RegisterSubmit)
		views.GET("/login", rs.LoginView)
		views.POST("/login", rs.LoginSubmit)
		views.POST("/logout", rs.LogoutSubmit)
		views.GET("/password-reset-request", rs.PasswordResetRequestView)
		views.POST("/password-reset-request", rs.PasswordResetRequestSubmit)
		views.GET("/reset-password/:uid/:token", rs.PasswordResetConfirmView)
		views.POST("/reset-password/:uid/:token", rs.PasswordResetConfirmSubmit)

		gated := views.Group("/")
		gated.Use(rs.SessionAuthRequired())
		{
			gated.GET("/dashboard", rs.RequireRoles(models.RoleUser), rs.DashboardView)
			gated.GET("/readings", rs.RequireRoles(models.RoleUser), rs.ReadingsTableView)
			gated.GET("/admin-dashboard", rs.RequireRoles(models.RoleAdmin), rs.AdminDashboardView)
		}
	}

	// JSON API, JWT bearer auth
	api := rs.Server.Group("/api")
	{
		api.POST("/register", rs.ApiRegister)
		api.POST("/login", rs.ApiLogin)
		api.POST("/token/refresh", rs.ApiTokenRefresh)
		api.POST("/password-reset-request", rs.ApiPasswordResetRequest)
		api.POST("/reset-password/:uid/:token", rs.ApiPasswordResetConfirm)

		authed := api.Group("/")
		authed.Use(rs.ApiAuthRequired())
		{
			authed.GET("/user/profile", rs.GetProfile)
			authed.PATCH("/user/profile", rs.PatchProfile)
			authed.POST("/user/change-password", rs.ChangePassword)

			admin := authed.Group("/")
			admin.Use(rs.RequireRoles(models.RoleAdmin))
			{
				admin.GET("/admin/users", rs.ListUsers)
				admin.POST("/admin/users", rs.AdminCreateUser)
				admin.DELETE("/admin/users/:id", rs.AdminDeleteUser)
				admin.POST("/user/:id/change-role", rs.ChangeUserRole)
			}

			user := authed.Group("/")
			user.Use(rs.RequireRoles(models.RoleUser))
			{
				user.POST("/upload-reading", rs.UploadReading)
				user.GET("/latest-reading", rs.LatestReading)

				user.GET("/devices", rs.ListDevices)
				user.POST("/devices", rs.CreateDevice)
				user.GET("/devices/:device_id", rs.GetDevice)
				user.DELETE("/devices/:device_id", rs.DeleteDevice)
				user.POST("/devices/:device_id/thresholds", rs.UpsertThresholds)
				user.GET("/devices/:device_id/thresholds", rs.GetThresholds)
				user.GET("/devices/:device_id/readings", rs.ListDeviceReadings)
				user.GET("/devices/:device_id/forecasts", rs.ListDeviceForecasts)
				user.POST("/devices/:device_id/forecasts", rs.CreateForecast)
				user.POST("/devices/:device_id/sensor-data", rs.AddSensorData)
				user.GET("/devices/:device_id/alerts", rs.GetDeviceAlerts)
				user.POST("/devices/:device_id/limiter", rs.PostLimiter)
				user.POST("/alerts/:id/status", rs.SetAlertStatus)
			}

			reports := authed.Group("/reports")
			{
				reports.GET("", rs.ListReports)
				reports.GET("/:id", rs.GetReport)
				reports.POST("", rs.RequireRoles(models.RoleAdmin), rs.CreateReport)
				reports.POST("/:id/send", rs.RequireRoles(models.RoleAdmin), rs.SendReport)
			}
		}
	}
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
