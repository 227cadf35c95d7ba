package devserver

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envconfigPrefix = "DEVSERVER"

// Config represents the development API server's configuration.
type Config struct {
	Port int `envconfig:"PORT" default:"8080"`
	// JWTSecret signs access tokens. The default is fine for local use only.
	JWTSecret       string        `envconfig:"JWT_SECRET" default:"jobboard-devserver-secret"`
	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"168h"`
	OTPTTL          time.Duration `envconfig:"OTP_TTL" default:"5m"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	// Clock, if set, replaces time.Now when issuing and checking tokens and
	// OTPs.
	Clock func() time.Time `ignored:"true"`
}

// GetConfig reads the configuration from DEVSERVER_* environment variables.
func GetConfig() (Config, error) {
	config := Config{}
	if err := envconfig.Process(envconfigPrefix, &config); err != nil {
		return config, errors.Wrap(
			err,
			"error getting devserver configuration from environment",
		)
	}
	if config.AccessTokenTTL <= 0 || config.RefreshTokenTTL <= 0 ||
		config.OTPTTL <= 0 {
		return config, errors.New("token and OTP lifetimes must be positive")
	}
	return config, nil
}
