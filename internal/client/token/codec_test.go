package token

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytrack-dev/skytrack/internal/common"
)

func b64url(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(data)
}

func makeToken(t *testing.T, payload any) string {
	t.Helper()
	header := b64url(t, map[string]string{"alg": "HS256", "typ": "JWT"})
	return header + "." + b64url(t, payload) + ".sig"
}

func TestDecodeClaims_WellFormedToken(t *testing.T) {
	tok := makeToken(t, map[string]string{
		"userId":   "u1",
		"email":    "a@b.com",
		"username": "a",
		"role":     "ADMIN",
	})

	claims, err := DecodeClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "a", claims.Username)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestDecodeClaims_MissingFieldsAreEmpty(t *testing.T) {
	tok := makeToken(t, map[string]string{"email": "x@y.com"})

	claims, err := DecodeClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, "x@y.com", claims.Email)
	assert.Empty(t, claims.UserID)
	assert.Empty(t, claims.Username)
	assert.Empty(t, claims.Role)
}

func TestDecodeClaims_MalformedTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"one segment", "abc"},
		{"two segments", "abc.def"},
		{"non-base64 middle", "h." + "!!!not-base64!!!" + ".s"},
		{"non-json middle", "h." + base64.RawURLEncoding.EncodeToString([]byte("plain text")) + ".s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := DecodeClaims(tc.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestDecodeClaims_DoesNotVerifySignatureOrExpiry(t *testing.T) {
	// Garbage signature and an exp far in the past must not matter.
	tok := makeToken(t, map[string]any{
		"userId": "u2",
		"role":   "USER",
		"exp":    1,
	})

	claims, err := DecodeClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, "u2", claims.UserID)
}
