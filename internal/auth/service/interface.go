// Package service provides the cryptographic services behind authentication:
// PBKDF2 credential hashing and HS256 token minting/verification.
package service

import (
	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
)

// HashResult bundles a derived hash with the parameters used to produce it,
// matching the credential columns persisted alongside it.
type HashResult struct {
	Hash       []byte
	Salt       []byte
	Iterations int
}

// CredentialHasher defines password/secret derivation and verification.
// Implementations must not retain the plaintext secret beyond the call;
// wiping the caller's buffer remains the caller's responsibility.
type CredentialHasher interface {
	// Derive runs the keyed derivation and returns keyLen bytes.
	// Fails if keyLen < 16, iterations < 10000, or the salt is shorter
	// than 16 bytes.
	Derive(secret, salt []byte, iterations, keyLen int) ([]byte, error)

	// Verify derives with len(expectedHash) as the output length and compares
	// in constant time. Returns false (never an error) on nil/empty input so
	// call sites stay branch-free.
	Verify(secret, salt []byte, iterations int, expectedHash []byte) bool

	// Hash derives using the hasher's configured default output length.
	Hash(secret, salt []byte, iterations int) (HashResult, error)
}

// TokenService mints and verifies compact signed claim sets.
type TokenService interface {
	// Mint builds and signs a token for the subject with the given roles,
	// token type, and time to live.
	Mint(subject string, roles []string, tokenType string, ttlSeconds int64) (string, error)

	// Verify checks the token's structure, signature, and claims against the
	// provided clock. It always returns a result value; failures surface as
	// a code, never a panic or error.
	Verify(token string, nowEpochSeconds int64) authDomain.VerifyResult
}
