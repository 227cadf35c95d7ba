// Package redis connects to the Redis server that can optionally hold stored
// sessions in place of the session file.
package redis

import (
	"crypto/tls"
	"fmt"

	"github.com/go-redis/redis"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envconfigPrefix = "REDIS"

// Config represents common configuration options for a Redis connection
type Config struct {
	Host      string `envconfig:"HOST" default:"localhost"`
	Port      int    `envconfig:"PORT" default:"6379"`
	Password  string `envconfig:"PASSWORD"`
	DB        int    `envconfig:"DB"`
	EnableTLS bool   `envconfig:"ENABLE_TLS"`
	// Key is the hash a stored session is kept in.
	Key string `envconfig:"KEY" default:"jobboard:session"`
}

// GetConfig reads Redis connection options from REDIS_* environment
// variables.
func GetConfig() (Config, error) {
	c := Config{}
	if err := envconfig.Process(envconfigPrefix, &c); err != nil {
		return c, errors.Wrap(
			err,
			"error getting redis configuration from environment",
		)
	}
	return c, nil
}

// Client returns a connection to the Redis database c describes.
func (c Config) Client() *redis.Client {
	redisOpts := &redis.Options{
		Addr:       fmt.Sprintf("%s:%d", c.Host, c.Port),
		Password:   c.Password,
		DB:         c.DB,
		MaxRetries: 5,
	}
	if c.EnableTLS {
		redisOpts.TLSConfig = &tls.Config{
			ServerName: c.Host,
		}
	}
	return redis.NewClient(redisOpts)
}
