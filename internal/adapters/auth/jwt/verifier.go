// Package jwt verifica tokens Bearer HS256 emitidos con un secreto compartido.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"regresa/internal/ports/auth"
)

var (
	ErrTokenEmpty    = errors.New("token is empty")
	ErrMissingSecret = errors.New("jwt secret is empty")
	ErrMissingUserID = errors.New("token has no subject")
)

// Claims que aceptamos. El user id sale de "sub"; "user_id" queda por
// compatibilidad con tokens viejos.
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var c Claims
	_, err := v.parser.ParseWithClaims(token, &c, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return auth.Claims{}, fmt.Errorf("jwt: parse token: %w", err)
	}

	uid := strings.TrimSpace(c.Subject)
	if uid == "" {
		uid = strings.TrimSpace(c.UserID)
	}
	if uid == "" {
		return auth.Claims{}, ErrMissingUserID
	}

	return auth.Claims{
		UserID:      uid,
		Email:       strings.TrimSpace(c.Email),
		DisplayName: strings.TrimSpace(c.Name),
	}, nil
}
