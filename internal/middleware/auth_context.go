package middleware

import (
	"context"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"regresa/internal/platform/logger"
	"regresa/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

const (
	debugUserHeader  = "X-Debug-User-ID"
	debugEmailHeader = "X-Debug-User-Email"
)

// AuthContext resuelve la identidad del request, si la hay.
// Con verifier nil (modo dev) toma X-Debug-User-ID; si no, un Bearer token.
// Nunca corta el request: los reportes anónimos son válidos y cada handler
// decide si exige identidad (401) o propiedad (403).
func AuthContext(verifier auth.AuthVerifier, log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				uid := strings.TrimSpace(r.Header.Get(debugUserHeader))
				if uid == "" {
					next.ServeHTTP(w, r)
					return
				}
				claims := auth.Claims{
					UserID: uid,
					Email:  strings.TrimSpace(r.Header.Get(debugEmailHeader)),
				}
				next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Debug("token rejected", map[string]any{
					"request_id": chimw.GetReqID(r.Context()),
					"error":      err,
				})
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims deja la identidad en el contexto (también usado en tests).
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(auth.Claims)
	return c, ok
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
