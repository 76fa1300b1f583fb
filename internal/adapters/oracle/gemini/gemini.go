// Package gemini implementa el oráculo de similitud con la API de Gemini.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"

	"google.golang.org/genai"

	"regresa/internal/matching"
)

const DefaultModel = "gemini-2.0-flash"

type Config struct {
	APIKey string
	Model  string
	// BaseURL solo para tests o proxies; vacío = endpoint público.
	BaseURL string
}

type Oracle struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, cfg Config) (*Oracle, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Oracle{client: client, model: model}, nil
}

func (o *Oracle) Compare(ctx context.Context, req matching.Request) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	switch {
	case len(req.Image) > 0 && req.ImageMIME != "":
		parts = append(parts, genai.NewPartFromBytes(req.Image, req.ImageMIME))
	case req.ImageURL != "":
		parts = append(parts, genai.NewPartFromURI(req.ImageURL, imageMIME(req.ImageURL)))
	}
	if req.CandidateImageURL != "" {
		parts = append(parts,
			genai.NewPartFromText("Imagen de la mascota perdida:"),
			genai.NewPartFromURI(req.CandidateImageURL, imageMIME(req.CandidateImageURL)),
		)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := o.client.Models.GenerateContent(ctx, o.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		cfg,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}

// imageMIME deduce el tipo por la extensión de la URL; sin pista, image/jpeg.
func imageMIME(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "image/jpeg"
	}
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(u.Path))); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/jpeg"
}
