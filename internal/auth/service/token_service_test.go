package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/kiwistore/kiwi/internal/auth/domain"
	apperrors "github.com/kiwistore/kiwi/internal/errors"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef" // 32 bytes
	testIssuer   = "kiwi"
	testAudience = "kiwi-backend"
)

func newTestTokenService(t *testing.T) TokenService {
	t.Helper()
	svc, err := NewTokenService(testIssuer, testAudience, testSecret)
	require.NoError(t, err)
	return svc
}

// signSegments builds a token by hand so tests can shape arbitrary headers
// and payloads.
func signSegments(secret, headerJSON, payloadJSON string) string {
	h := base64.RawURLEncoding.EncodeToString([]byte(headerJSON))
	p := base64.RawURLEncoding.EncodeToString([]byte(payloadJSON))
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(h + "." + p))
	s := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return h + "." + p + "." + s
}

func TestNewTokenService(t *testing.T) {
	t.Run("accepts 32 byte secret", func(t *testing.T) {
		svc, err := NewTokenService(testIssuer, testAudience, testSecret)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("rejects short secret", func(t *testing.T) {
		svc, err := NewTokenService(testIssuer, testAudience, "too-short")
		assert.Nil(t, svc)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestMintVerifyRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Mint("user-1", []string{"admin"}, authDomain.TokenTypeUser, 3600)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	res := svc.Verify(token, time.Now().Unix()+10)
	require.True(t, res.OK, "code: %s", res.Code)
	assert.Equal(t, "user-1", res.Context.Subject)
	assert.Equal(t, []string{"admin"}, res.Context.Roles)
	assert.Equal(t, testIssuer, res.Context.Issuer)
	assert.Equal(t, testAudience, res.Context.Audience)
	assert.Equal(t, authDomain.TokenTypeUser, res.Context.TokenType)
}

func TestMintSkipsBlankRoles(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Mint("user-1", []string{" admin ", "", "  ", "writer"}, authDomain.TokenTypeUser, 3600)
	require.NoError(t, err)

	res := svc.Verify(token, time.Now().Unix())
	require.True(t, res.OK)
	assert.Equal(t, []string{"admin", "writer"}, res.Context.Roles)
}

func TestVerifyEmptyRolesNeverNil(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Mint("user-1", nil, authDomain.TokenTypeApp, 3600)
	require.NoError(t, err)

	res := svc.Verify(token, time.Now().Unix())
	require.True(t, res.OK)
	assert.NotNil(t, res.Context.Roles)
	assert.Empty(t, res.Context.Roles)
}

func TestVerifyExpiry(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Mint("user-1", []string{"admin"}, authDomain.TokenTypeUser, 3600)
	require.NoError(t, err)

	// Anchor on the token's own exp claim; a clock tick between the test and
	// Mint must not shift the boundary.
	exp := tokenExp(t, token)

	res := svc.Verify(token, exp-1)
	assert.True(t, res.OK, "code: %s", res.Code)

	// Exactly at expiry counts as expired.
	res = svc.Verify(token, exp)
	assert.False(t, res.OK)
	assert.Equal(t, authDomain.CodeTokenExpired, res.Code)

	res = svc.Verify(token, exp+1)
	assert.False(t, res.OK)
	assert.Equal(t, authDomain.CodeTokenExpired, res.Code)
}

// tokenExp reads the exp claim straight out of the payload segment.
func tokenExp(t *testing.T, token string) int64 {
	t.Helper()

	raw, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	require.NoError(t, err)

	var payload struct {
		Exp int64 `json:"exp"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload.Exp
}

func TestVerifyBadFormat(t *testing.T) {
	svc := newTestTokenService(t)

	tests := []string{"", "abc", "a.b", "a.b.c.d"}

	for _, token := range tests {
		res := svc.Verify(token, time.Now().Unix())
		assert.False(t, res.OK)
		assert.Equal(t, authDomain.CodeBadFormat, res.Code, "token: %q", token)
	}
}

func TestVerifyUnsupportedAlg(t *testing.T) {
	svc := newTestTokenService(t)

	t.Run("none algorithm", func(t *testing.T) {
		h := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
		p := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"user-1"}`))
		token := h + "." + p + "."

		res := svc.Verify(token, time.Now().Unix())
		assert.False(t, res.OK)
		assert.Equal(t, authDomain.CodeUnsupportedAlg, res.Code)
	})

	t.Run("HS512", func(t *testing.T) {
		token := signSegments(testSecret, `{"alg":"HS512","typ":"JWT"}`, `{"sub":"user-1"}`)

		res := svc.Verify(token, time.Now().Unix())
		assert.False(t, res.OK)
		assert.Equal(t, authDomain.CodeUnsupportedAlg, res.Code)
	})

	t.Run("unregistered algorithm", func(t *testing.T) {
		token := signSegments(testSecret, `{"alg":"FOO","typ":"JWT"}`, `{"sub":"user-1"}`)

		res := svc.Verify(token, time.Now().Unix())
		assert.False(t, res.OK)
		assert.Equal(t, authDomain.CodeUnsupportedAlg, res.Code)
	})

	t.Run("missing alg", func(t *testing.T) {
		token := signSegments(testSecret, `{"typ":"JWT"}`, `{"sub":"user-1"}`)

		res := svc.Verify(token, time.Now().Unix())
		assert.False(t, res.OK)
		assert.Equal(t, authDomain.CodeUnsupportedAlg, res.Code)
	})
}

func TestVerifyTamperedSignature(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Mint("user-1", []string{"admin"}, authDomain.TokenTypeUser, 3600)
	require.NoError(t, err)

	segments := strings.Split(token, ".")
	sig := []byte(segments[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := segments[0] + "." + segments[1] + "." + string(sig)

	res := svc.Verify(tampered, time.Now().Unix())
	assert.False(t, res.OK)
	assert.Equal(t, authDomain.CodeBadSignature, res.Code)
}

func TestVerifyTamperedPayload(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Mint("user-1", []string{"admin"}, authDomain.TokenTypeUser, 3600)
	require.NoError(t, err)

	segments := strings.Split(token, ".")
	forged := base64.RawURLEncoding.EncodeToString(
		[]byte(`{"sub":"user-2","iss":"kiwi","aud":"kiwi-backend","exp":9999999999}`),
	)
	tampered := segments[0] + "." + forged + "." + segments[2]

	res := svc.Verify(tampered, time.Now().Unix())
	assert.False(t, res.OK)
	assert.Equal(t, authDomain.CodeBadSignature, res.Code)
}

func TestVerifyWrongSecret(t *testing.T) {
	svc := newTestTokenService(t)

	other, err := NewTokenService(testIssuer, testAudience, "ffffffffffffffffffffffffffffffff")
	require.NoError(t, err)

	token, err := other.Mint("user-1", nil, authDomain.TokenTypeUser, 3600)
	require.NoError(t, err)

	res := svc.Verify(token, time.Now().Unix())
	assert.False(t, res.OK)
	assert.Equal(t, authDomain.CodeBadSignature, res.Code)
}

func TestVerifyPaddedSignatureTolerated(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Mint("user-1", []string{"admin"}, authDomain.TokenTypeUser, 3600)
	require.NoError(t, err)

	segments := strings.Split(token, ".")
	pad := (4 - len(segments[2])%4) % 4
	padded := segments[0] + "." + segments[1] + "." + segments[2] + strings.Repeat("=", pad)

	res := svc.Verify(padded, time.Now().Unix())
	assert.True(t, res.OK, "code: %s", res.Code)
}

func TestVerifyClaimOrdering(t *testing.T) {
	svc := newTestTokenService(t)

	now := time.Now().Unix()
	future := now + 3600

	tests := []struct {
		name     string
		payload  string
		wantCode string
	}{
		{
			name:     "missing sub",
			payload:  `{"iss":"wrong","aud":"wrong","exp":1}`,
			wantCode: authDomain.CodeMissingSub,
		},
		{
			name:     "blank sub",
			payload:  `{"sub":"  ","exp":1}`,
			wantCode: authDomain.CodeMissingSub,
		},
		{
			name:     "missing exp",
			payload:  `{"sub":"user-1","iss":"wrong"}`,
			wantCode: authDomain.CodeMissingExp,
		},
		{
			name:     "unparseable exp",
			payload:  `{"sub":"user-1","exp":"soon"}`,
			wantCode: authDomain.CodeMissingExp,
		},
		{
			name:     "expired before issuer check",
			payload:  `{"sub":"user-1","iss":"wrong","aud":"wrong","exp":1}`,
			wantCode: authDomain.CodeTokenExpired,
		},
		{
			name:     "bad issuer before audience check",
			payload:  `{"sub":"user-1","iss":"wrong","aud":"wrong","exp":` + formatInt(future) + `}`,
			wantCode: authDomain.CodeBadIss,
		},
		{
			name:     "bad audience",
			payload:  `{"sub":"user-1","iss":"kiwi","aud":"wrong","exp":` + formatInt(future) + `}`,
			wantCode: authDomain.CodeBadAud,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signSegments(testSecret, `{"alg":"HS256","typ":"JWT"}`, tt.payload)

			res := svc.Verify(token, now)
			assert.False(t, res.OK)
			assert.Equal(t, tt.wantCode, res.Code)
		})
	}
}

func TestVerifyStringExpTolerated(t *testing.T) {
	svc := newTestTokenService(t)

	future := formatInt(time.Now().Unix() + 3600)
	payload := `{"sub":"user-1","iss":"kiwi","aud":"kiwi-backend","exp":"` + future + `"}`
	token := signSegments(testSecret, `{"alg":"HS256","typ":"JWT"}`, payload)

	res := svc.Verify(token, time.Now().Unix())
	assert.True(t, res.OK, "code: %s", res.Code)
}

func TestVerifyGarbageHeader(t *testing.T) {
	svc := newTestTokenService(t)

	res := svc.Verify("!!!.???.###", time.Now().Unix())
	assert.False(t, res.OK)
	assert.Equal(t, authDomain.CodeVerifyException, res.Code)
}

func TestScenarioUserTokenLifecycle(t *testing.T) {
	svc := newTestTokenService(t)

	mintTime := time.Now().Unix()
	token, err := svc.Mint("user-1", []string{"admin"}, authDomain.TokenTypeUser, 3600)
	require.NoError(t, err)

	res := svc.Verify(token, mintTime+10)
	require.True(t, res.OK)
	assert.Equal(t, "user-1", res.Context.Subject)
	assert.Equal(t, []string{"admin"}, res.Context.Roles)

	res = svc.Verify(token, mintTime+3601)
	assert.False(t, res.OK)
	assert.Equal(t, authDomain.CodeTokenExpired, res.Code)
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
