package jobboard

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// nolint: lll
var userSchemaBytes = []byte(`
{
	"$schema": "http://json-schema.org/draft-07/schema#",

	"definitions": {

		"optionalString": {
			"type": ["string", "null"]
		}

	},

	"title": "User",
	"type": "object",
	"required": ["id", "email", "role"],
	"properties": {
		"id": {
			"type": ["integer", "string"],
			"minLength": 1,
			"description": "The user's unique identifier"
		},
		"userName": { "$ref": "#/definitions/optionalString" },
		"email": {
			"type": "string",
			"minLength": 3,
			"description": "The user's email address"
		},
		"fullname": { "$ref": "#/definitions/optionalString" },
		"phone": { "$ref": "#/definitions/optionalString" },
		"address": { "$ref": "#/definitions/optionalString" },
		"avt": { "$ref": "#/definitions/optionalString" },
		"role": {
			"type": "string",
			"enum": ["USER", "EMPLOYER", "ADMIN"]
		},
		"active": { "type": "boolean" },
		"isEmailVerified": { "type": "boolean" },
		"dob": { "$ref": "#/definitions/optionalString" },
		"createdAt": { "$ref": "#/definitions/optionalString" },
		"updatedAt": { "$ref": "#/definitions/optionalString" }
	}
}
`)

var userSchemaLoader = gojsonschema.NewBytesLoader(userSchemaBytes)

// validateUserJSON verifies that a user document returned by the identity
// endpoint is complete before it is allowed to become a User.
func validateUserJSON(userBytes []byte) error {
	result, err := gojsonschema.Validate(
		userSchemaLoader,
		gojsonschema.NewBytesLoader(userBytes),
	)
	if err != nil {
		return errors.Wrap(err, "error validating user")
	}
	if !result.Valid() {
		verrStrs := make([]string, len(result.Errors()))
		for i, verr := range result.Errors() {
			verrStrs[i] = verr.String()
		}
		return errors.Errorf(
			"user returned by API server is incomplete: %s",
			strings.Join(verrStrs, "; "),
		)
	}
	return nil
}
