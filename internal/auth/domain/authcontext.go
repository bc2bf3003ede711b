package domain

import "strings"

// AuthContext is the verified result of a successful token verification.
// It is owned exclusively by the request being processed and discarded at
// request end; nothing here is persisted.
type AuthContext struct {
	Subject   string
	ExpiresAt int64
	Issuer    string
	Audience  string
	Roles     []string
	TokenType string
}

// HasRole reports whether the context carries the given role. Comparison
// case-sensitivity is a deployment choice because the upstream callers never
// agreed on a canonical casing.
func (a *AuthContext) HasRole(name string, caseSensitive bool) bool {
	for _, role := range a.Roles {
		if caseSensitive {
			if role == name {
				return true
			}
			continue
		}
		if strings.EqualFold(role, name) {
			return true
		}
	}
	return false
}

// IsUserToken reports whether the context was minted for a human principal.
func (a *AuthContext) IsUserToken() bool {
	return strings.EqualFold(a.TokenType, TokenTypeUser)
}
