package main

import (
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh/terminal"
)

// interactive is swapped out by tests.
var interactive = func() bool {
	return terminal.IsTerminal(int(os.Stdin.Fd()))
}

// promptIfMissing fills in a value the user did not supply as a flag by
// asking for it, provided somebody is there to answer.
func promptIfMissing(value *string, flag string, prompt survey.Prompt) error {
	if *value != "" {
		return nil
	}
	if !interactive() {
		return errors.Errorf("--%s is required when not running interactively", flag)
	}
	if err := survey.AskOne(
		prompt,
		value,
		survey.WithValidator(survey.Required),
	); err != nil {
		return errors.Wrapf(err, "error reading %s", flag)
	}
	return nil
}

// promptNewPassword asks for a new password twice. Passwords supplied as a
// flag are used as is.
func promptNewPassword(password *string, flag string) error {
	if *password != "" {
		return nil
	}
	if err := promptIfMissing(
		password,
		flag,
		&survey.Password{Message: "New password"},
	); err != nil {
		return err
	}
	var confirmation string
	if err := survey.AskOne(
		&survey.Password{Message: "Confirm new password"},
		&confirmation,
	); err != nil {
		return errors.Wrap(err, "error reading password confirmation")
	}
	if confirmation != *password {
		return errors.New("passwords do not match")
	}
	return nil
}
