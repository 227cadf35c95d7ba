package devserver

import "github.com/xeipuuv/gojsonschema"

// nolint: lll
var (
	loginSchemaLoader = gojsonschema.NewStringLoader(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "LoginRequest",
	"type": "object",
	"required": ["email", "password"],
	"properties": {
		"email": { "type": "string", "format": "email" },
		"password": { "type": "string", "minLength": 1 }
	}
}`)

	registrationSchemaLoader = gojsonschema.NewStringLoader(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "UserRegistration",
	"type": "object",
	"required": ["email", "password", "fullname"],
	"properties": {
		"email": { "type": "string", "format": "email" },
		"password": { "type": "string", "minLength": 8 },
		"fullname": { "type": "string", "minLength": 1 },
		"phone": { "type": "string" },
		"address": { "type": "string" }
	}
}`)

	emailVerificationSchemaLoader = gojsonschema.NewStringLoader(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "EmailVerification",
	"type": "object",
	"required": ["keyRedisToken", "otp"],
	"properties": {
		"keyRedisToken": { "type": "string", "minLength": 1 },
		"otp": { "type": "string", "pattern": "^[0-9]{6}$" }
	}
}`)

	forgotPasswordSchemaLoader = gojsonschema.NewStringLoader(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "ForgotPasswordRequest",
	"type": "object",
	"required": ["email"],
	"properties": {
		"email": { "type": "string", "format": "email" }
	}
}`)

	resetPasswordSchemaLoader = gojsonschema.NewStringLoader(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "ResetPasswordRequest",
	"type": "object",
	"required": ["email", "otp", "newPassword"],
	"properties": {
		"email": { "type": "string", "format": "email" },
		"otp": { "type": "string", "pattern": "^[0-9]{6}$" },
		"newPassword": { "type": "string", "minLength": 8 }
	}
}`)

	changePasswordSchemaLoader = gojsonschema.NewStringLoader(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "PasswordChange",
	"type": "object",
	"required": ["currentPassword", "newPassword"],
	"properties": {
		"currentPassword": { "type": "string", "minLength": 1 },
		"newPassword": { "type": "string", "minLength": 8 }
	}
}`)

	profileUpdateSchemaLoader = gojsonschema.NewStringLoader(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "ProfileUpdate",
	"type": "object",
	"properties": {
		"userName": { "type": ["string", "null"] },
		"fullname": { "type": ["string", "null"] },
		"phone": { "type": ["string", "null"] },
		"address": { "type": ["string", "null"] },
		"avt": { "type": ["string", "null"] },
		"dob": {
			"type": ["string", "null"],
			"pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}T[0-9]{2}:[0-9]{2}:[0-9]{2}$"
		}
	}
}`)
)
