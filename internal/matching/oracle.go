package matching

import (
	"context"
	"errors"
)

var ErrOracleDisabled = errors.New("similarity oracle not configured")

// Request es lo que recibe el oráculo por candidato.
type Request struct {
	// System lleva la rúbrica; Prompt el texto del candidato y la imagen truncada.
	System string
	Prompt string

	// Imagen nueva decodificada, si vino como data URL. Los adapters que
	// soportan visión la mandan; el resto usa solo el texto.
	Image     []byte
	ImageMIME string
	// ImageURL es la imagen nueva cuando vino como URL http(s).
	ImageURL string

	CandidateImageURL string

	Temperature     float32
	MaxOutputTokens int32
}

// Oracle devuelve la respuesta cruda del modelo; el parseo queda en el pipeline.
type Oracle interface {
	Compare(ctx context.Context, req Request) (string, error)
}

// Disabled se usa cuando no hay proveedor configurado: todas las llamadas
// fallan y el pipeline devuelve lista vacía.
type Disabled struct{}

func (Disabled) Compare(context.Context, Request) (string, error) {
	return "", ErrOracleDisabled
}

// OracleFunc adapta una función a Oracle (tests, wiring ad hoc).
type OracleFunc func(ctx context.Context, req Request) (string, error)

func (f OracleFunc) Compare(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
