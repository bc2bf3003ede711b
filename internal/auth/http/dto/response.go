package dto

import (
	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
)

// TokenResponse is the success body of the login and token endpoints.
type TokenResponse struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// NewTokenResponse builds a bearer token response.
func NewTokenResponse(accessToken string, expiresIn int64) TokenResponse {
	return TokenResponse{
		TokenType:   "Bearer",
		AccessToken: accessToken,
		ExpiresIn:   expiresIn,
	}
}

// CreateUserResponse is the success body of POST /admin/users.
type CreateUserResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// CreateAppClientResponse is the success body of POST /admin/app-clients.
type CreateAppClientResponse struct {
	AppClientID string   `json:"app_client_id"`
	ClientID    string   `json:"client_id"`
	Name        string   `json:"name"`
	Roles       []string `json:"roles"`
}

// MapCreateClientResult maps a successful provisioning result to its response.
func MapCreateClientResult(result authDomain.CreateClientResult) CreateAppClientResponse {
	return CreateAppClientResponse{
		AppClientID: result.AppClientID.String(),
		ClientID:    result.ClientID,
		Name:        result.Name,
		Roles:       result.Roles,
	}
}
