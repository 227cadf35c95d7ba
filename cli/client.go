package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/topcv/jobboard"
	"github.com/topcv/jobboard/internal/logger"
	"github.com/topcv/jobboard/pkg/broadcast"
	"github.com/topcv/jobboard/pkg/cookies"
	"github.com/topcv/jobboard/pkg/tokenstore"
	"github.com/topcv/jobboard/redis"
	"github.com/topcv/jobboard/session"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/ssh/terminal"
)

// sessionEnv bundles everything a command needs to act on the user's
// session.
type sessionEnv struct {
	log     zerolog.Logger
	manager *session.Manager
	jar     *cookies.Jar
	closers []func()
}

// close releases resources and reports cookies that could not be saved.
func (s *sessionEnv) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	if err := s.jar.Err(); err != nil {
		s.log.Warn().Err(err).Msg("error saving cookies")
	}
}

func getSessionEnv(c *cli.Context) (*sessionEnv, error) {
	cfg, err := getConfig(c)
	if err != nil {
		return nil, err
	}
	env := &sessionEnv{
		log: logger.New(
			logger.Options{
				Level:  cfg.LogLevel,
				Pretty: terminal.IsTerminal(int(os.Stderr.Fd())),
			},
		),
	}

	var backend tokenstore.Backend
	switch cfg.TokenBackend {
	case tokenBackendRedis:
		redisConfig, err := redis.GetConfig()
		if err != nil {
			return nil, err
		}
		redisClient := redisConfig.Client()
		env.closers = append(env.closers, func() {
			redisClient.Close() // nolint: errcheck
		})
		backend = tokenstore.NewRedisBackend(redisClient, redisConfig.Key)
	default:
		backend = tokenstore.NewFileBackend(cfg.sessionFile())
	}
	store := tokenstore.New(backend)

	if env.jar, err = cookies.NewJar(cfg.cookiesFile(), cfg.APIAddress); err != nil {
		return nil, errors.Wrap(err, "error loading cookies")
	}

	client := jobboard.NewClient(
		cfg.APIAddress,
		&jobboard.ClientOptions{
			AllowInsecure: cfg.Insecure,
			TokenSource:   store,
			Jar:           env.jar,
		},
	)
	broadcaster := broadcast.New()
	env.manager = session.NewManager(
		client,
		store,
		broadcaster,
		session.WithLogger(env.log),
	)
	env.closers = append(
		env.closers,
		env.manager.Close,
		env.manager.Watch(func(state session.State) {
			e := env.log.Debug().Bool("loading", state.Loading)
			if state.User != nil {
				e = e.Str("user", state.User.Email)
			}
			e.Msg("session state changed")
		}),
		broadcaster.Subscribe(broadcast.EventLogout, func() {
			env.log.Warn().Msg("the API server ended the session")
		}),
	)
	return env, nil
}
