package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DeskConfig configures the terminal client; it never touches the database.
type DeskConfig struct {
	APIURL         string        `envconfig:"TARIFFDESK_API_URL" default:"http://127.0.0.1:5000/api"`
	CacheTTL       time.Duration `envconfig:"TARIFFDESK_CACHE_TTL" default:"5m"`
	RequestTimeout time.Duration `envconfig:"TARIFFDESK_REQUEST_TIMEOUT" default:"15s"`
	User           string        `envconfig:"TARIFFDESK_USER"`
	LogLevel       string        `envconfig:"TARIFFDESK_LOG_LEVEL" default:"warn"`
}

func LoadDesk() (*DeskConfig, error) {
	var cfg DeskConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing desk config: %w", err)
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("%s must not be negative", EnvDeskCacheTTL)
	}
	return &cfg, nil
}
