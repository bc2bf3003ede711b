// Package domain defines authentication and authorization domain models.
//
// It covers two principal kinds: human users (username + password) and machine
// app clients (client id + secret). Both carry PBKDF2-derived credential
// material and a role set that ends up inside minted tokens.
package domain

// Credential status values.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Token type claim values distinguishing principal kinds.
const (
	TokenTypeUser = "user"
	TokenTypeApp  = "app"
)

// Rejection codes returned by authentication and provisioning operations.
// These are stable API values, not display strings.
const (
	// CodeBadCredentials covers unknown usernames and wrong passwords alike,
	// so a caller cannot enumerate principals from the response code.
	CodeBadCredentials = "bad_credentials"

	// CodeInvalidClient is the machine-client counterpart of CodeBadCredentials.
	CodeInvalidClient = "invalid_client"

	// CodeUserDisabled and CodeClientDisabled are deliberately distinguishable
	// from the generic rejections for operational support.
	CodeUserDisabled   = "user_disabled"
	CodeClientDisabled = "client_disabled"

	CodeInvalidInput  = "invalid_input"
	CodeUsernameTaken = "username_taken"
	CodeClientIDTaken = "client_id_taken"

	// CodeError and CodeDBError signal infrastructure failures. Detail is
	// logged server-side only.
	CodeError   = "error"
	CodeDBError = "db_error"
)

// Rejection codes returned by token verification, in validation order.
const (
	CodeBadFormat       = "bad_format"
	CodeUnsupportedAlg  = "unsupported_alg"
	CodeBadSignature    = "bad_signature"
	CodeMissingSub      = "missing_sub"
	CodeMissingExp      = "missing_exp"
	CodeTokenExpired    = "token_expired"
	CodeBadIss          = "bad_iss"
	CodeBadAud          = "bad_aud"
	CodeVerifyException = "verify_exception"
)

// Rejection codes produced by the authorization gate.
const (
	CodeMissingBearerToken = "missing_bearer_token"
	CodeMissingRole        = "missing_role"
)

// Rejection codes produced by the authentication endpoints.
const (
	CodeInvalidJSON           = "invalid_json"
	CodeMissingCredentials    = "missing_credentials"
	CodeUnsupportedGrantType  = "unsupported_grant_type"
	CodeInvalidBootstrapToken = "invalid_bootstrap_token"
)
