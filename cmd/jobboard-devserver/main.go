package main

import (
	"os"

	"github.com/topcv/jobboard/internal/devserver"
	"github.com/topcv/jobboard/internal/logger"
	"github.com/topcv/jobboard/internal/signals"
	"github.com/topcv/jobboard/internal/version"
	"golang.org/x/crypto/ssh/terminal"
)

func main() {
	config, err := devserver.GetConfig()
	log := logger.New(
		logger.Options{
			Level:  config.LogLevel,
			Pretty: terminal.IsTerminal(int(os.Stderr.Fd())),
		},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading configuration")
	}

	log.Info().
		Str("version", version.Version()).
		Str("commit", version.Commit()).
		Msg("Starting jobboard development API server")

	if err := devserver.NewServer(config, log).
		ListenAndServe(signals.Context()); err != nil {
		log.Fatal().Err(err).Msg("API server stopped unexpectedly")
	}
}
