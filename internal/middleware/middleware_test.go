package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regresa/internal/platform/logger"
	"regresa/internal/platform/metrics"
	"regresa/internal/ports/auth"
)

type fakeVerifier struct{}

func (fakeVerifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if token != "good" {
		return auth.Claims{}, errors.New("bad token")
	}
	return auth.Claims{UserID: "u-1"}, nil
}

func whoami(w http.ResponseWriter, r *http.Request) {
	c, ok := GetClaims(r.Context())
	if !ok {
		_, _ = w.Write([]byte("anon"))
		return
	}
	_, _ = w.Write([]byte(c.UserID))
}

func call(h http.Handler, headers map[string]string) string {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Body.String()
}

func TestAuthContext_DevMode(t *testing.T) {
	h := AuthContext(nil, nil)(http.HandlerFunc(whoami))
	assert.Equal(t, "dev-7", call(h, map[string]string{"X-Debug-User-ID": "dev-7"}))
	assert.Equal(t, "anon", call(h, nil))
}

func TestAuthContext_Verifier(t *testing.T) {
	h := AuthContext(fakeVerifier{}, logger.Nop())(http.HandlerFunc(whoami))
	assert.Equal(t, "u-1", call(h, map[string]string{"Authorization": "Bearer good"}))
	assert.Equal(t, "anon", call(h, map[string]string{"Authorization": "Bearer bad"}))
	assert.Equal(t, "anon", call(h, map[string]string{"X-Debug-User-ID": "dev-7"}))
	assert.Equal(t, "anon", call(h, map[string]string{"Authorization": "Basic Zm9v"}))
}

func TestRecover_WritesJSON500(t *testing.T) {
	h := Recover(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"internal error"}`, rr.Body.String())
}

func TestRequestLog_CountsByRoutePattern(t *testing.T) {
	m := metrics.New()
	r := chi.NewRouter()
	r.Use(RequestLog(logger.Nop(), m))
	r.Get("/pets/lost/{petID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pets/lost/"+id, nil))
	}

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/pets/lost/{petID}", http.MethodGet, "404"))
	assert.Equal(t, float64(3), got)

	n, err := testutil.GatherAndCount(m.Registry, "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, strings.Contains(mustGather(t, m), `route="/pets/lost/a"`))
}

func mustGather(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	mfs, err := m.Registry.Gather()
	require.NoError(t, err)
	var b strings.Builder
	for _, mf := range mfs {
		b.WriteString(mf.String())
	}
	return b.String()
}

func TestAuthContext_DevModeEmail(t *testing.T) {
	var got auth.Claims
	h := AuthContext(nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetClaims(r.Context())
	}))
	call(h, map[string]string{"X-Debug-User-ID": "u-9", "X-Debug-User-Email": "u9@example.org"})
	assert.Equal(t, auth.Claims{UserID: "u-9", Email: "u9@example.org"}, got)
}
