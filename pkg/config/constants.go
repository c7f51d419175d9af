package config

const (
	EnvPrefix = "TARIFFDESK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	EnvAppEnv   = "TARIFFDESK_APP_ENV"
	EnvPort     = "TARIFFDESK_APP_PORT"
	EnvLogLevel = "TARIFFDESK_LOG_LEVEL"

	EnvDBDSN    = "TARIFFDESK_DB_DSN"
	EnvDBDriver = "TARIFFDESK_DB_DRIVER"
	EnvDBHost   = "TARIFFDESK_DB_HOST"
	EnvDBUser   = "TARIFFDESK_DB_USER"
	EnvDBName   = "TARIFFDESK_DB_NAME"

	EnvRedisURL = "TARIFFDESK_REDIS_URL"

	EnvExpiringLookahead = "TARIFFDESK_EXPIRING_LOOKAHEAD"
	EnvCronInterval      = "TARIFFDESK_CRON_INTERVAL"

	EnvDeskAPIURL   = "TARIFFDESK_API_URL"
	EnvDeskCacheTTL = "TARIFFDESK_CACHE_TTL"
	EnvDeskUser     = "TARIFFDESK_USER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
