package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_SendsHeadersAndDecodes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/echo", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"]})
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL+"/", time.Second)
	require.NoError(t, err)
	c.WithHeader("X-Api-Key", "secret")

	var out struct {
		Echo string `json:"echo"`
	}
	err = c.DoJSON(context.Background(), http.MethodPost, "v1/echo", map[string]string{"X-Extra": "yes"}, map[string]string{"msg": "hola"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hola", out.Echo)
}

func TestDoJSON_Non2xxReturnsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := New(time.Second)
	err := c.DoJSON(context.Background(), http.MethodGet, ts.URL, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized, http.StatusForbidden))
	assert.False(t, IsStatus(err, http.StatusInternalServerError))
}

func TestDoJSON_RelativePathWithoutBaseURL(t *testing.T) {
	c := New(time.Second)
	err := c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil)
	require.Error(t, err)
}

func TestDoJSON_NilClient(t *testing.T) {
	var c *Client
	err := c.DoJSON(context.Background(), http.MethodGet, "http://x", nil, nil, nil)
	assert.ErrorIs(t, err, ErrNilClient)
}
