package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"
	"github.com/topcv/jobboard"
	"github.com/topcv/jobboard/session"
	"github.com/urfave/cli/v2"
)

var registerCommand = &cli.Command{
	Name:  "register",
	Usage: "Create a job board account",
	Flags: []cli.Flag{
		cliFlagEmail,
		cliFlagPassword,
		&cli.StringFlag{
			Name:    flagFullname,
			Aliases: []string{"n"},
			Usage:   "Your full name",
		},
		&cli.StringFlag{
			Name:  flagPhone,
			Usage: "Your phone number",
		},
		&cli.StringFlag{
			Name:  flagAddress,
			Usage: "Your address",
		},
		&cli.BoolFlag{
			Name:  flagEmployer,
			Usage: "Register as an employer instead of a job seeker",
		},
	},
	Action: register,
}

var verifyEmailCommand = &cli.Command{
	Name:  "verify-email",
	Usage: "Verify a newly registered account's email address",
	Flags: []cli.Flag{
		cliFlagEmail,
		&cli.StringFlag{
			Name:     flagToken,
			Aliases:  []string{"t"},
			Usage:    "The verification token printed by register (required)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  flagOTP,
			Usage: "The OTP that was emailed to you",
		},
	},
	Action: verifyEmail,
}

func register(c *cli.Context) error {
	input := session.RegisterInput{
		Email:    c.String(flagEmail),
		Password: c.String(flagPassword),
		Fullname: c.String(flagFullname),
		Phone:    c.String(flagPhone),
		Address:  c.String(flagAddress),
		Role:     jobboard.RoleUser,
	}
	if c.Bool(flagEmployer) {
		input.Role = jobboard.RoleEmployer
	}

	if err := promptIfMissing(
		&input.Email,
		flagEmail,
		&survey.Input{Message: "Email"},
	); err != nil {
		return err
	}
	if err := promptIfMissing(
		&input.Fullname,
		flagFullname,
		&survey.Input{Message: "Full name"},
	); err != nil {
		return err
	}
	if err := promptNewPassword(&input.Password, flagPassword); err != nil {
		return err
	}

	env, err := getSessionEnv(c)
	if err != nil {
		return err
	}
	defer env.close()

	token, err := env.manager.Register(c.Context, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(
		c.App.Writer,
		"Registered %s. An OTP has been emailed to you.\n",
		input.Email,
	)

	if !interactive() {
		fmt.Fprintf(
			c.App.Writer,
			"Verify your email address with:\n\n"+
				"  jobboard verify-email --email %s --token %s --otp <otp>\n",
			input.Email,
			token,
		)
		return nil
	}
	var otp string
	if err := promptIfMissing(
		&otp,
		flagOTP,
		&survey.Input{Message: "OTP"},
	); err != nil {
		return err
	}
	return verifyOTP(c, env, input.Email, otp, token)
}

func verifyEmail(c *cli.Context) error {
	email := c.String(flagEmail)
	otp := c.String(flagOTP)

	if err := promptIfMissing(
		&otp,
		flagOTP,
		&survey.Input{Message: "OTP"},
	); err != nil {
		return err
	}

	env, err := getSessionEnv(c)
	if err != nil {
		return err
	}
	defer env.close()

	return verifyOTP(c, env, email, otp, c.String(flagToken))
}

func verifyOTP(
	c *cli.Context,
	env *sessionEnv,
	email string,
	otp string,
	token string,
) error {
	if !env.manager.VerifyOTP(
		c.Context,
		email,
		otp,
		session.PurposeRegister,
		token,
	) {
		return errors.New("the OTP was not accepted")
	}
	fmt.Fprintln(
		c.App.Writer,
		"Your email address has been verified. You may now log in.",
	)
	return nil
}
