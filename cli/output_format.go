package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/topcv/jobboard"
)

func validateOutputFormat(outputFormat string) error {
	switch strings.ToLower(outputFormat) {
	case "table":
	case "yaml":
	case "json":
	default:
		return errors.Errorf("unknown output format %q", outputFormat)
	}
	return nil
}

func printUser(w io.Writer, user jobboard.User, outputFormat string) error {
	switch strings.ToLower(outputFormat) {
	case "table":
		table := uitable.New()
		table.AddRow("ID", "EMAIL", "NAME", "ROLE", "ACTIVE?", "SINCE")
		table.AddRow(
			user.ID,
			user.Email,
			user.Fullname,
			user.Role,
			user.IsActive,
			user.CreatedAt,
		)
		fmt.Fprintln(w, table)

	case "yaml":
		yamlBytes, err := yaml.Marshal(user)
		if err != nil {
			return errors.Wrap(err, "error formatting user")
		}
		fmt.Fprintln(w, string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(user, "", "  ")
		if err != nil {
			return errors.Wrap(err, "error formatting user")
		}
		fmt.Fprintln(w, string(prettyJSON))
	}
	return nil
}
