package main

import "github.com/urfave/cli/v2"

const (
	flagAddress         = "address"
	flagAvatar          = "avatar"
	flagCurrentPassword = "current-password"
	flagDob             = "dob"
	flagEmail           = "email"
	flagEmployer        = "employer"
	flagFullname        = "fullname"
	flagInsecure        = "insecure"
	flagLogLevel        = "log-level"
	flagNewPassword     = "new-password"
	flagOTP             = "otp"
	flagOutput          = "output"
	flagPassword        = "password"
	flagPhone           = "phone"
	flagServer          = "server"
	flagToken           = "token"
	flagUsername        = "username"
)

var (
	cliFlagEmail = &cli.StringFlag{
		Name:    flagEmail,
		Aliases: []string{"e"},
		Usage:   "The email address of the account",
	}
	cliFlagOutput = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage: "Return output in the specified format; supported formats: table, " +
			"yaml, json",
		Value: "table",
	}
	cliFlagPassword = &cli.StringFlag{
		Name:    flagPassword,
		Aliases: []string{"p"},
		Usage: "The account's password; if omitted, it will be prompted for " +
			"interactively",
	}
)
