package main

import (
	"fmt"
	"os"

	"github.com/topcv/jobboard/internal/signals"
	"github.com/topcv/jobboard/internal/version"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "jobboard"
	app.Usage = "Manage your job board account from the command line"
	app.Version = fmt.Sprintf(
		"%s -- commit %s",
		version.Version(),
		version.Commit(),
	)
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    flagInsecure,
			Aliases: []string{"k"},
			Usage:   "Allow insecure API server connections when using TLS",
		},
		&cli.StringFlag{
			Name:    flagServer,
			Aliases: []string{"s"},
			Usage: "Use the API server at the specified address; overrides " +
				"JOBBOARD_API_ADDRESS",
		},
		&cli.StringFlag{
			Name:  flagLogLevel,
			Usage: "Log at the specified level; overrides JOBBOARD_LOG_LEVEL",
		},
	}
	app.Commands = []*cli.Command{
		changePasswordCommand,
		forgotPasswordCommand,
		loginCommand,
		logoutCommand,
		registerCommand,
		resetPasswordCommand,
		updateProfileCommand,
		verifyEmailCommand,
		whoAmICommand,
	}
	return app
}

func main() {
	app := newApp()
	fmt.Println()
	if err := app.RunContext(signals.Context(), os.Args); err != nil {
		fmt.Printf("\n%s\n\n", err)
		os.Exit(1)
	}
	fmt.Println()
}
