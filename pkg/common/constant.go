package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyWQMDBType string = "WQM_DB_TYPE"
	EnvKeyWQMDBPath string = "WQM_DB_PATH"
	EnvKeyWQMDBDSN  string = "WQM_DB_DSN"

	EnvKeyWQMHttpHostPort string = "WQM_HTTP_HOST_PORT"
	EnvKeyWQMBaseURL      string = "WQM_BASE_URL"

	EnvKeyWQMSecretKey     string = "WQM_SECRET_KEY"
	EnvKeyWQMSessionSecret string = "WQM_SESSION_SECRET"

	EnvKeyWQMDefaultRate  string = "WQM_DEFAULT_RATE"
	EnvKeyWQMDefaultBurst string = "WQM_DEFAULT_BURST"

	EnvKeyWQMEmailBackend   string = "WQM_EMAIL_BACKEND"
	EnvKeyWQMEmailFrom      string = "WQM_EMAIL_FROM"
	EnvKeyWQMSendgridAPIKey string = "WQM_SENDGRID_API_KEY"

	EnvKeyWQMMigrateSourceDSN string = "WQM_MIGRATE_SOURCE_DSN"
	EnvKeyWQMMigrateTargetDSN string = "WQM_MIGRATE_TARGET_DSN"

	LoggerNameMonitorCore   string = "monitor_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameMailer        string = "mailer"
	LoggerNameMigrate       string = "migrate"

	LoggerFieldCategory     string = "category"
	LoggerCategoryUser      string = "user"
	LoggerCategoryDevice    string = "device"
	LoggerCategoryReading   string = "reading"
	LoggerCategoryAlert     string = "alert"
	LoggerCategoryForecast  string = "forecast"
	LoggerCategoryReport    string = "report"
	LoggerCategoryThreshold string = "threshold"
)
