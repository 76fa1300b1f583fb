package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, verifyPath, r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerify_OK(t *testing.T) {
	srv := newServer(t, http.StatusOK, map[string]string{"user_id": " u-1 ", "email": "a@b.c", "display_name": "Ana"})
	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "key-1"})
	require.NoError(t, err)

	claims, err := NewVerifier(c).Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "Ana", claims.DisplayName)
}

func TestVerify_Unauthorized(t *testing.T) {
	srv := newServer(t, http.StatusUnauthorized, map[string]string{"error": "bad token"})
	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "key-1"})
	require.NoError(t, err)

	_, err = NewVerifier(c).Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerify_UpstreamAndMissingUser(t *testing.T) {
	srv := newServer(t, http.StatusBadGateway, nil)
	c, _ := NewClient(Config{BaseURL: srv.URL, APIKey: "key-1"})
	_, err := NewVerifier(c).Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrUpstream)

	srv = newServer(t, http.StatusOK, map[string]string{"email": "x@y.z"})
	c, _ = NewClient(Config{BaseURL: srv.URL, APIKey: "key-1"})
	_, err = NewVerifier(c).Verify(context.Background(), "tok")
	assert.Error(t, err)
}

func TestVerify_NotConfigured(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	var v *Verifier
	_, err = v.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
