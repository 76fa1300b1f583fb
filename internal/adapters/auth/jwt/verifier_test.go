package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, c jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, c).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestVerify_ValidToken(t *testing.T) {
	v, err := NewVerifier("s3cret")
	require.NoError(t, err)

	tok := sign(t, jwt.SigningMethodHS256, []byte("s3cret"), Claims{
		Email: "ana@example.org",
		Name:  "Ana",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	c, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.UserID)
	assert.Equal(t, "ana@example.org", c.Email)
	assert.Equal(t, "Ana", c.DisplayName)
}

func TestVerify_LegacyUserIDClaim(t *testing.T) {
	v, _ := NewVerifier("s3cret")
	tok := sign(t, jwt.SigningMethodHS256, []byte("s3cret"), Claims{
		UserID:           "legacy-7",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})

	c, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "legacy-7", c.UserID)
}

func TestVerify_Rejects(t *testing.T) {
	v, _ := NewVerifier("s3cret")
	valid := jwt.RegisteredClaims{Subject: "u", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong secret": sign(t, jwt.SigningMethodHS256, []byte("other"), valid),
		"expired": sign(t, jwt.SigningMethodHS256, []byte("s3cret"), jwt.RegisteredClaims{
			Subject:   "u",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}),
		"no exp":     sign(t, jwt.SigningMethodHS256, []byte("s3cret"), jwt.RegisteredClaims{Subject: "u"}),
		"no subject": sign(t, jwt.SigningMethodHS256, []byte("s3cret"), jwt.RegisteredClaims{ExpiresAt: valid.ExpiresAt}),
		"hs512":      sign(t, jwt.SigningMethodHS512, []byte("s3cret"), valid),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tok)
			assert.Error(t, err)
		})
	}
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	_, err := NewVerifier("  ")
	assert.ErrorIs(t, err, ErrMissingSecret)
}
