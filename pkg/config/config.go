package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Tariffs      TariffsConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TARIFFDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"TARIFFDESK_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"TARIFFDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TARIFFDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TARIFFDESK_DB_DSN"`
	Driver string `envconfig:"TARIFFDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TARIFFDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"TARIFFDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TARIFFDESK_DB_USER"`
	LegacyPassword string `envconfig:"TARIFFDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"TARIFFDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"TARIFFDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TARIFFDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TARIFFDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TARIFFDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TARIFFDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite one.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

// RedisConfig is optional for the api (idempotency is skipped without it) and
// required by the cron worker.
type RedisConfig struct {
	URL          string        `envconfig:"TARIFFDESK_REDIS_URL"`
	Address      string        `envconfig:"TARIFFDESK_REDIS_ADDR"`
	Password     string        `envconfig:"TARIFFDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"TARIFFDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TARIFFDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TARIFFDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TARIFFDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TARIFFDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TARIFFDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TARIFFDESK_AUTO_MIGRATE" default:"false"`
}

type TariffsConfig struct {
	ExpiringLookahead  time.Duration `envconfig:"TARIFFDESK_EXPIRING_LOOKAHEAD" default:"480h"`
	BulkIdempotencyTTL time.Duration `envconfig:"TARIFFDESK_BULK_IDEMPOTENCY_TTL" default:"24h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"TARIFFDESK_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"TARIFFDESK_CRON_LOCK_TTL" default:"0"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
