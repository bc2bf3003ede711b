package domain

import "github.com/google/uuid"

// AuthResult is the outcome of a user or client authentication attempt.
// Code is set only when OK is false.
type AuthResult struct {
	OK        bool
	Subject   uuid.UUID
	Principal string
	Roles     []string
	Code      string
}

// AuthOK builds a successful authentication result.
func AuthOK(subject uuid.UUID, principal string, roles []string) AuthResult {
	if roles == nil {
		roles = []string{}
	}
	return AuthResult{OK: true, Subject: subject, Principal: principal, Roles: roles}
}

// AuthBad builds a rejected authentication result with the given code.
func AuthBad(code string) AuthResult {
	return AuthResult{Code: code}
}

// VerifyResult is the outcome of a token verification. Verify never raises
// past its boundary; failures surface here as a code.
type VerifyResult struct {
	OK      bool
	Context *AuthContext
	Code    string
}

// VerifyOK builds a successful verification result.
func VerifyOK(ctx *AuthContext) VerifyResult {
	return VerifyResult{OK: true, Context: ctx}
}

// VerifyBad builds a failed verification result with the given code.
func VerifyBad(code string) VerifyResult {
	return VerifyResult{Code: code}
}

// CreateUserResult is the outcome of a user provisioning attempt.
type CreateUserResult struct {
	OK     bool
	UserID uuid.UUID
	Code   string
}

// CreateUserOK builds a successful provisioning result.
func CreateUserOK(userID uuid.UUID) CreateUserResult {
	return CreateUserResult{OK: true, UserID: userID}
}

// CreateUserBad builds a failed provisioning result with the given code.
func CreateUserBad(code string) CreateUserResult {
	return CreateUserResult{Code: code}
}

// CreateClientResult is the outcome of an app-client provisioning attempt.
type CreateClientResult struct {
	OK          bool
	AppClientID uuid.UUID
	ClientID    string
	Name        string
	Roles       []string
	Code        string
}

// CreateClientOK builds a successful client provisioning result.
func CreateClientOK(appClientID uuid.UUID, clientID, name string, roles []string) CreateClientResult {
	if roles == nil {
		roles = []string{}
	}
	return CreateClientResult{
		OK:          true,
		AppClientID: appClientID,
		ClientID:    clientID,
		Name:        name,
		Roles:       roles,
	}
}

// CreateClientBad builds a failed client provisioning result with the given code.
func CreateClientBad(code string) CreateClientResult {
	return CreateClientResult{Code: code}
}
