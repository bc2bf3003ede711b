package service

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"

	apperrors "github.com/kiwistore/kiwi/internal/errors"
)

// Policy minimums enforced at derivation time. Anything below these values is
// a deployment mistake, not a runtime condition.
const (
	minDerivedKeyBytes = 16
	minSaltBytes       = 16
	minIterations      = 10000
)

// pbkdf2Hasher implements CredentialHasher using PBKDF2 with HMAC-SHA256.
type pbkdf2Hasher struct {
	derivedKeyBytes int
}

// NewPBKDF2Hasher creates a CredentialHasher producing derivedKeyBytes-long
// hashes by default. Fails if the configured length is below 16 bytes.
func NewPBKDF2Hasher(derivedKeyBytes int) (CredentialHasher, error) {
	if derivedKeyBytes < minDerivedKeyBytes {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "derived key length below 16 bytes")
	}
	return &pbkdf2Hasher{derivedKeyBytes: derivedKeyBytes}, nil
}

// Derive runs PBKDF2-HMAC-SHA256 and returns keyLen bytes.
func (h *pbkdf2Hasher) Derive(secret, salt []byte, iterations, keyLen int) ([]byte, error) {
	if keyLen < minDerivedKeyBytes {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "derived key length below 16 bytes")
	}
	if iterations < minIterations {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "iteration count below 10000")
	}
	if len(salt) < minSaltBytes {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "salt shorter than 16 bytes")
	}

	return pbkdf2.Key(secret, salt, iterations, keyLen, sha256.New), nil
}

// Verify derives with len(expectedHash) as the output length and compares in
// constant time. Any nil/empty input or derivation failure yields false.
func (h *pbkdf2Hasher) Verify(secret, salt []byte, iterations int, expectedHash []byte) bool {
	if len(secret) == 0 || len(salt) == 0 || len(expectedHash) == 0 || iterations <= 0 {
		return false
	}

	derived, err := h.Derive(secret, salt, iterations, len(expectedHash))
	if err != nil {
		return false
	}
	defer zero(derived)

	return subtle.ConstantTimeCompare(derived, expectedHash) == 1
}

// Hash derives using the configured default output length.
func (h *pbkdf2Hasher) Hash(secret, salt []byte, iterations int) (HashResult, error) {
	hash, err := h.Derive(secret, salt, iterations, h.derivedKeyBytes)
	if err != nil {
		return HashResult{}, err
	}

	return HashResult{Hash: hash, Salt: salt, Iterations: iterations}, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
