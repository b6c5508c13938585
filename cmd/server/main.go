package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"aquamon.io/water-quality-service/pkg/auth"
	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/db"
	"aquamon.io/water-quality-service/pkg/email"
	wqmHttp "aquamon.io/water-quality-service/pkg/http"
	"aquamon.io/water-quality-service/pkg/monitor"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	dbType := os.Getenv(common.EnvKeyWQMDBType)
	switch dbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	case "postgres":
		dbInstance = db.GetInstance(db.UsePostgresDialector(os.Getenv(common.EnvKeyWQMDBDSN)))
	case "mysql":
		dbInstance = db.GetInstance(db.UseMysqlDialector(os.Getenv(common.EnvKeyWQMDBDSN)))
	default:
		log.Fatal("Unknown WQM_DB_TYPE: " + dbType)
	}

	auth.SetSecretKey([]byte(os.Getenv(common.EnvKeyWQMSecretKey)))

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyWQMHttpHostPort))
	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":8080"
	}

	baseURL := strings.TrimSpace(os.Getenv(common.EnvKeyWQMBaseURL))
	if baseURL == "" {
		baseURL = "http://localhost" + httpHostPort
	}

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyWQMDefaultRate), 64); err != nil {
		log.Fatal("Invalid WQM_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyWQMDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid WQM_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	var mailer email.Service
	switch os.Getenv(common.EnvKeyWQMEmailBackend) {
	case "sendgrid":
		mailer = email.NewSendgridService(
			os.Getenv(common.EnvKeyWQMSendgridAPIKey),
			"AquaMon",
			os.Getenv(common.EnvKeyWQMEmailFrom),
		)
	default:
		mailer = email.NewConsoleService()
	}

	if !common.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	mon := (&monitor.Monitor{Db: *dbInstance}).WithAllServices()

	rs := &wqmHttp.RestfulServer{
		Server:           gin.Default(),
		Mon:              mon,
		RateLimiterStore: monitor.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
		Email:            mailer,
		BaseURL:          baseURL,
		SessionSecret:    []byte(os.Getenv(common.EnvKeyWQMSessionSecret)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.Float64("default_rate", defaultRate),
		zap.Int64("default_burst", defaultBurst),
		zap.String("db_type", dbType))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
