package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/topcv/jobboard/session"
	"github.com/urfave/cli/v2"
)

var forgotPasswordCommand = &cli.Command{
	Name:  "forgot-password",
	Usage: "Have a password reset OTP emailed to you",
	Flags: []cli.Flag{
		cliFlagEmail,
	},
	Action: forgotPassword,
}

var resetPasswordCommand = &cli.Command{
	Name:  "reset-password",
	Usage: "Choose a new password using an emailed OTP",
	Flags: []cli.Flag{
		cliFlagEmail,
		&cli.StringFlag{
			Name:  flagOTP,
			Usage: "The OTP that was emailed to you",
		},
		&cli.StringFlag{
			Name:    flagPassword,
			Aliases: []string{"p"},
			Usage: "The new password; if omitted, it will be prompted for " +
				"interactively, twice",
		},
	},
	Action: resetPassword,
}

func forgotPassword(c *cli.Context) error {
	email := c.String(flagEmail)

	if err := promptIfMissing(
		&email,
		flagEmail,
		&survey.Input{Message: "Email"},
	); err != nil {
		return err
	}

	env, err := getSessionEnv(c)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.manager.SendOTP(
		c.Context,
		email,
		session.PurposeForgotPassword,
	); err != nil {
		return err
	}
	fmt.Fprintf(
		c.App.Writer,
		"An OTP has been emailed to %s. Choose a new password with:\n\n"+
			"  jobboard reset-password --email %s --otp <otp>\n",
		email,
		email,
	)
	return nil
}

func resetPassword(c *cli.Context) error {
	email := c.String(flagEmail)
	otp := c.String(flagOTP)
	password := c.String(flagPassword)

	if err := promptIfMissing(
		&email,
		flagEmail,
		&survey.Input{Message: "Email"},
	); err != nil {
		return err
	}
	if err := promptIfMissing(
		&otp,
		flagOTP,
		&survey.Input{Message: "OTP"},
	); err != nil {
		return err
	}
	if err := promptNewPassword(&password, flagPassword); err != nil {
		return err
	}

	env, err := getSessionEnv(c)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.manager.ResetPassword(c.Context, email, password, otp); err != nil {
		return err
	}
	fmt.Fprintln(
		c.App.Writer,
		"Your password has been reset. You may now log in.",
	)
	return nil
}
