package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a human principal with a stored password credential.
// PasswordHash length is fixed per deployment and matches the configured
// derived-key length; Salt is at least 16 bytes; Iterations at least 10000.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash []byte
	Salt         []byte
	Iterations   int
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the user may authenticate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// AppClient represents a machine principal with a stored secret credential.
// Unlike users, its role set lives on the row itself and LastUsedAt is touched
// on every successful authentication.
type AppClient struct {
	ID         uuid.UUID
	ClientID   string
	Name       string
	SecretHash []byte
	Salt       []byte
	Iterations int
	Roles      []string
	Status     string
	LastUsedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsActive reports whether the client may authenticate.
func (a *AppClient) IsActive() bool {
	return a.Status == StatusActive
}

// Role is a named grant attached to users at provisioning time.
// Roles are created lazily the first time a provisioning call references them.
type Role struct {
	ID          uuid.UUID
	Name        string
	Description string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NormalizeRoles trims role names, drops blanks, and removes duplicates while
// preserving first-seen order. Returns an empty slice, never nil.
func NormalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	seen := make(map[string]struct{}, len(roles))

	for _, role := range roles {
		trimmed := strings.TrimSpace(role)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	return out
}
