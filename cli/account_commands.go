package main

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/topcv/jobboard"
	"github.com/topcv/jobboard/session"
	"github.com/urfave/cli/v2"
)

var changePasswordCommand = &cli.Command{
	Name:  "change-password",
	Usage: "Change the logged in user's password",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name: flagCurrentPassword,
			Usage: "The password the account has now; if omitted, it will be " +
				"prompted for interactively",
		},
		&cli.StringFlag{
			Name: flagNewPassword,
			Usage: "The new password; if omitted, it will be prompted for " +
				"interactively, twice",
		},
	},
	Action: changePassword,
}

var updateProfileCommand = &cli.Command{
	Name:  "update-profile",
	Usage: "Change the logged in user's profile",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  flagUsername,
			Usage: "A new user name",
		},
		&cli.StringFlag{
			Name:  flagFullname,
			Usage: "A new full name",
		},
		&cli.StringFlag{
			Name:  flagPhone,
			Usage: "A new phone number",
		},
		&cli.StringFlag{
			Name:  flagAddress,
			Usage: "A new address",
		},
		&cli.StringFlag{
			Name:  flagAvatar,
			Usage: "The URL of a new avatar",
		},
		&cli.StringFlag{
			Name:  flagDob,
			Usage: "A new date of birth, e.g. 1970-05-29",
		},
		cliFlagOutput,
	},
	Action: updateProfile,
}

func changePassword(c *cli.Context) error {
	current := c.String(flagCurrentPassword)
	password := c.String(flagNewPassword)

	if err := promptIfMissing(
		&current,
		flagCurrentPassword,
		&survey.Password{Message: "Current password"},
	); err != nil {
		return err
	}
	if err := promptNewPassword(&password, flagNewPassword); err != nil {
		return err
	}

	env, err := getSessionEnv(c)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.manager.ChangePassword(
		c.Context,
		current,
		password,
	); err != nil {
		return sessionError(err)
	}
	fmt.Fprintln(c.App.Writer, "Your password has been changed.")
	return nil
}

func updateProfile(c *cli.Context) error {
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	update := jobboard.ProfileUpdate{
		UserName: c.String(flagUsername),
		Fullname: c.String(flagFullname),
		Phone:    c.String(flagPhone),
		Address:  c.String(flagAddress),
		Avatar:   c.String(flagAvatar),
		Dob:      dateTime(c.String(flagDob)),
	}

	env, err := getSessionEnv(c)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.manager.UpdateProfile(c.Context, update); err != nil {
		return sessionError(err)
	}
	return printUser(c.App.Writer, *env.manager.State().User, output)
}

// dateTime expands a bare date to the local date-time the API server
// expects.
func dateTime(value string) string {
	if value != "" && !strings.Contains(value, "T") {
		return value + "T00:00:00"
	}
	return value
}

// sessionError tells the user to log in again once the API server has
// rejected their session.
func sessionError(err error) error {
	if err == session.ErrNotAuthenticated {
		return errNotLoggedIn
	}
	return err
}
