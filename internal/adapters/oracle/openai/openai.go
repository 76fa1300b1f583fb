// Package openai implementa el oráculo contra cualquier endpoint compatible
// con /chat/completions.
package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"regresa/internal/matching"
	"regresa/internal/platform/httpclient"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
)

var ErrNoChoices = errors.New("openai: empty choices")

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Oracle struct {
	http  *httpclient.Client
	model string
}

func New(cfg Config) (*Oracle, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai: api key is required")
	}
	base := cfg.BaseURL
	if strings.TrimSpace(base) == "" {
		base = DefaultBaseURL
	}
	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	hc.WithHeader("Authorization", "Bearer "+cfg.APIKey)

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Oracle{http: hc, model: model}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int32         `json:"max_tokens"`
}

// Content es string o []contentPart según haya imagen.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *Oracle) Compare(ctx context.Context, req matching.Request) (string, error) {
	msgs := make([]chatMessage, 0, 2)
	if req.System != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: req.System})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: userContent(req)})

	var out chatResponse
	err := o.http.DoJSON(ctx, http.MethodPost, "/chat/completions", nil, chatRequest{
		Model:       o.model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxOutputTokens,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrNoChoices
	}
	return out.Choices[0].Message.Content, nil
}

func userContent(req matching.Request) any {
	var images []string
	switch {
	case len(req.Image) > 0 && req.ImageMIME != "":
		images = append(images, "data:"+req.ImageMIME+";base64,"+base64.StdEncoding.EncodeToString(req.Image))
	case req.ImageURL != "":
		images = append(images, req.ImageURL)
	}
	if req.CandidateImageURL != "" {
		images = append(images, req.CandidateImageURL)
	}
	if len(images) == 0 {
		return req.Prompt
	}

	parts := []contentPart{{Type: "text", Text: req.Prompt}}
	for _, u := range images {
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: u}})
	}
	return parts
}
