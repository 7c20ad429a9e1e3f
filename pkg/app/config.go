package app

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "burger"

type Config struct {
	APIURL         string        `envconfig:"API_URL" default:"https://norma.nomoreparties.space/api"`
	ListenAddr     string        `envconfig:"LISTEN_ADDR" default:":8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	RateLimit      float64       `envconfig:"RATE_LIMIT" default:"5"`
	RateBurst      int           `envconfig:"RATE_BURST" default:"5"`
	TokenFile      string        `envconfig:"TOKEN_FILE" default:"tokens.json"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	ResolverStrict bool          `envconfig:"RESOLVER_STRICT" default:"false"`
}

// LoadConfig reads BURGER_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, errors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}
	return cfg, nil
}
