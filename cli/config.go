package main

import (
	"path"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	envconfigPrefix = "JOBBOARD"

	tokenBackendFile  = "file"
	tokenBackendRedis = "redis"
)

// config is assembled from JOBBOARD_* environment variables, overridden by
// global flags.
type config struct {
	APIAddress   string `envconfig:"API_ADDRESS" default:"http://localhost:8080/TopCV/api/v1"`
	Home         string `envconfig:"HOME"`
	TokenBackend string `envconfig:"TOKEN_BACKEND" default:"file"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"warn"`
	Insecure     bool   `envconfig:"INSECURE"`
}

func getConfig(c *cli.Context) (config, error) {
	cfg := config{}
	if err := envconfig.Process(envconfigPrefix, &cfg); err != nil {
		return cfg, errors.Wrap(
			err,
			"error getting configuration from environment",
		)
	}
	if c.IsSet(flagServer) {
		cfg.APIAddress = c.String(flagServer)
	}
	if c.IsSet(flagLogLevel) {
		cfg.LogLevel = c.String(flagLogLevel)
	}
	if c.Bool(flagInsecure) {
		cfg.Insecure = true
	}
	cfg.TokenBackend = strings.ToLower(cfg.TokenBackend)
	switch cfg.TokenBackend {
	case tokenBackendFile, tokenBackendRedis:
	default:
		return cfg, errors.Errorf(
			"unknown token backend %q; supported backends: file, redis",
			cfg.TokenBackend,
		)
	}
	if cfg.Home == "" {
		homeDir, err := homedir.Dir()
		if err != nil {
			return cfg, errors.Wrap(err, "error locating user's home directory")
		}
		cfg.Home = path.Join(homeDir, ".jobboard")
	}
	return cfg, nil
}

func (c config) sessionFile() string {
	return path.Join(c.Home, "session")
}

func (c config) cookiesFile() string {
	return path.Join(c.Home, "cookies")
}
