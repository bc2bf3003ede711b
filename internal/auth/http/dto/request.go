// Package dto provides data transfer objects for the auth HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/kiwistore/kiwi/internal/validation"
)

// LoginRequest represents the JSON body variant of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate validates the LoginRequest.
func (r *LoginRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// TokenRequest represents the JSON or form body variant of POST /auth/token.
type TokenRequest struct {
	GrantType    string `json:"grant_type" form:"grant_type"`
	ClientID     string `json:"client_id" form:"client_id"`
	ClientSecret string `json:"client_secret" form:"client_secret"`
}

// CreateUserRequest represents the API request for user provisioning.
type CreateUserRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// Validate validates the CreateUserRequest.
func (r *CreateUserRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			appValidation.NoWhitespace,
			validation.Length(1, 120).Error("username must be between 1 and 120 characters"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// CreateAppClientRequest represents the API request for app client provisioning.
type CreateAppClientRequest struct {
	ClientID string   `json:"client_id"`
	Name     string   `json:"name"`
	Secret   string   `json:"secret"`
	Roles    []string `json:"roles"`
}

// Validate validates the CreateAppClientRequest.
func (r *CreateAppClientRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.ClientID,
			validation.Required.Error("client_id is required"),
			appValidation.NotBlank,
			appValidation.NoWhitespace,
			validation.Length(1, 120).Error("client_id must be between 1 and 120 characters"),
		),
		validation.Field(&r.Secret,
			validation.Required.Error("secret is required"),
			validation.Length(16, 128).Error("secret must be between 16 and 128 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}
