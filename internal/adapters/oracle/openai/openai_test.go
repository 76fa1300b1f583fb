package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regresa/internal/matching"
	"regresa/internal/platform/httpclient"
)

func TestCompare_TextOnly(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": " 0.7 "}}},
		})
	}))
	defer srv.Close()

	o, err := New(Config{APIKey: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	reply, err := o.Compare(context.Background(), matching.Request{
		System:          "rubric",
		Prompt:          "prompt",
		Temperature:     0.1,
		MaxOutputTokens: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, " 0.7 ", reply)

	assert.Equal(t, DefaultModel, got.Model)
	assert.EqualValues(t, 10, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "prompt", got.Messages[1].Content)
}

func TestUserContent_WithImages(t *testing.T) {
	c := userContent(matching.Request{
		Prompt:            "p",
		Image:             []byte("abc"),
		ImageMIME:         "image/png",
		CandidateImageURL: "https://img/max.jpg",
	})
	parts, ok := c.([]contentPart)
	require.True(t, ok)
	require.Len(t, parts, 3)
	assert.Equal(t, "data:image/png;base64,YWJj", parts[1].ImageURL.URL)
	assert.Equal(t, "https://img/max.jpg", parts[2].ImageURL.URL)
}

func TestCompare_UpstreamErrorAndEmptyChoices(t *testing.T) {
	status := http.StatusTooManyRequests
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "slow down", status)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	o, err := New(Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = o.Compare(context.Background(), matching.Request{Prompt: "p"})
	assert.True(t, httpclient.IsStatus(err, http.StatusTooManyRequests))

	status = http.StatusOK
	_, err = o.Compare(context.Background(), matching.Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrNoChoices)
}
