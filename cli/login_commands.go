package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var errNotLoggedIn = errors.New(
	"you are not logged in; please use `jobboard login` to continue",
)

var loginCommand = &cli.Command{
	Name:  "login",
	Usage: "Log in to the job board",
	Flags: []cli.Flag{
		cliFlagEmail,
		cliFlagPassword,
	},
	Action: login,
}

var logoutCommand = &cli.Command{
	Name:   "logout",
	Usage:  "Log out of the job board",
	Action: logout,
}

var whoAmICommand = &cli.Command{
	Name:  "whoami",
	Usage: "Show the logged in user",
	Flags: []cli.Flag{
		cliFlagOutput,
	},
	Action: whoAmI,
}

func login(c *cli.Context) error {
	email := c.String(flagEmail)
	password := c.String(flagPassword)

	if err := promptIfMissing(
		&email,
		flagEmail,
		&survey.Input{Message: "Email"},
	); err != nil {
		return err
	}
	if err := promptIfMissing(
		&password,
		flagPassword,
		&survey.Password{Message: "Password"},
	); err != nil {
		return err
	}

	env, err := getSessionEnv(c)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.manager.Login(c.Context, email, password); err != nil {
		return err
	}
	user := env.manager.State().User
	fmt.Fprintf(
		c.App.Writer,
		"Logged in as %s (%s).\n",
		user.Email,
		user.Role,
	)
	return nil
}

func logout(c *cli.Context) error {
	env, err := getSessionEnv(c)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.manager.Logout(c.Context); err != nil {
		return errors.Wrap(err, "error clearing stored session")
	}
	fmt.Fprintln(c.App.Writer, "Logged out.")
	return nil
}

func whoAmI(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	env, err := getSessionEnv(c)
	if err != nil {
		return err
	}
	defer env.close()

	state := env.manager.Bootstrap(c.Context)
	if err := env.manager.Authorize(); err != nil {
		return sessionError(err)
	}
	return printUser(c.App.Writer, *state.User, output)
}
