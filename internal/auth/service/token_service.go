package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
	apperrors "github.com/kiwistore/kiwi/internal/errors"
)

// minSecretBytes rejects weak signing secrets before any token is minted.
const minSecretBytes = 32

// errUnsupportedAlg marks a token whose header names anything but HS256,
// including the "none" algorithm.
var errUnsupportedAlg = errors.New("unsupported signing algorithm")

// hs256TokenService implements TokenService with HMAC-SHA256 signatures.
// Issuer, audience, and secret are immutable after construction.
type hs256TokenService struct {
	issuer   string
	audience string
	secret   []byte
	parser   *jwt.Parser
}

// NewTokenService creates a TokenService signing with the given secret.
// Fails if the secret is shorter than 32 bytes.
func NewTokenService(issuer, audience, secret string) (TokenService, error) {
	if len(secret) < minSecretBytes {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "signing secret shorter than 32 bytes")
	}

	// Claims are validated manually so rejection codes follow a fixed order;
	// padded base64 segments are tolerated on decode.
	parser := jwt.NewParser(
		jwt.WithoutClaimsValidation(),
		jwt.WithPaddingAllowed(),
	)

	return &hs256TokenService{
		issuer:   issuer,
		audience: audience,
		secret:   []byte(secret),
		parser:   parser,
	}, nil
}

// Mint builds and signs a token. Blank role entries are skipped; an empty role
// set serializes as an empty array.
func (t *hs256TokenService) Mint(subject string, roles []string, tokenType string, ttlSeconds int64) (string, error) {
	now := time.Now().Unix()

	cleaned := make([]string, 0, len(roles))
	for _, role := range roles {
		if trimmed := strings.TrimSpace(role); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}

	claims := jwt.MapClaims{
		"sub":        subject,
		"iss":        t.issuer,
		"aud":        t.audience,
		"iat":        now,
		"exp":        now + ttlSeconds,
		"roles":      cleaned,
		"token_type": tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify checks structure, signature, and claims in a fixed order. It never
// raises past its boundary; anything unexpected becomes verify_exception.
func (t *hs256TokenService) Verify(token string, nowEpochSeconds int64) authDomain.VerifyResult {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return authDomain.VerifyBad(authDomain.CodeBadFormat)
	}

	claims := jwt.MapClaims{}
	_, err := t.parser.ParseWithClaims(token, claims, func(parsed *jwt.Token) (interface{}, error) {
		if parsed.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errUnsupportedAlg
		}
		return t.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, errUnsupportedAlg):
			return authDomain.VerifyBad(authDomain.CodeUnsupportedAlg)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return authDomain.VerifyBad(authDomain.CodeBadSignature)
		default:
			// The parser rejects an unregistered or missing alg before the
			// keyfunc runs, so the header itself decides unsupported_alg here.
			if alg, ok := headerAlg(segments[0]); ok && alg != jwt.SigningMethodHS256.Alg() {
				return authDomain.VerifyBad(authDomain.CodeUnsupportedAlg)
			}
			// Header and payload decoded fine: the broken segment is the
			// signature, which counts as a signature failure.
			if errors.Is(err, jwt.ErrTokenMalformed) && headerAndPayloadDecode(segments[0], segments[1]) {
				return authDomain.VerifyBad(authDomain.CodeBadSignature)
			}
			return authDomain.VerifyBad(authDomain.CodeVerifyException)
		}
	}

	sub := asString(claims["sub"])
	if strings.TrimSpace(sub) == "" {
		return authDomain.VerifyBad(authDomain.CodeMissingSub)
	}

	exp, ok := asInt64(claims["exp"])
	if !ok {
		return authDomain.VerifyBad(authDomain.CodeMissingExp)
	}
	if nowEpochSeconds >= exp {
		return authDomain.VerifyBad(authDomain.CodeTokenExpired)
	}

	iss := asString(claims["iss"])
	if iss != t.issuer {
		return authDomain.VerifyBad(authDomain.CodeBadIss)
	}

	aud := asString(claims["aud"])
	if aud != t.audience {
		return authDomain.VerifyBad(authDomain.CodeBadAud)
	}

	return authDomain.VerifyOK(&authDomain.AuthContext{
		Subject:   sub,
		ExpiresAt: exp,
		Issuer:    iss,
		Audience:  aud,
		Roles:     asStringList(claims["roles"]),
		TokenType: asString(claims["token_type"]),
	})
}

// headerAlg decodes the header segment and returns its alg value, which is
// empty when the field is absent. ok is false when the segment is not a
// base64url-wrapped JSON object.
func headerAlg(segment string) (string, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(segment, "="))
	if err != nil {
		return "", false
	}
	var header struct {
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return "", false
	}
	return header.Alg, true
}

// headerAndPayloadDecode reports whether the first two token segments decode
// as base64url-wrapped JSON objects, tolerating padding.
func headerAndPayloadDecode(header, payload string) bool {
	for _, segment := range []string{header, payload} {
		raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(segment, "="))
		if err != nil {
			return false
		}
		var decoded map[string]interface{}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return false
		}
	}
	return true
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asInt64 accepts the numeric shapes a JSON decoder may produce for an
// integer claim, plus integer-valued strings.
func asInt64(v interface{}) (int64, bool) {
	switch value := v.(type) {
	case float64:
		return int64(value), true
	case int64:
		return value, true
	case json.Number:
		parsed, err := value.Int64()
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseInt(value, 10, 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

// asStringList decodes the roles claim, skipping blanks. A missing or empty
// claim yields an empty slice, never nil. A bare string is treated as a
// single-role list.
func asStringList(v interface{}) []string {
	switch value := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(value))
		for _, s := range value {
			if strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(value) == "" {
			return []string{}
		}
		return []string{value}
	default:
		return []string{}
	}
}
