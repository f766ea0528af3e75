package image

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"

	svc, err := NewService(openai.NewClientWithConfig(cfg), openai.CreateImageModelDallE3, openai.CreateImageSize1024x1024, "anime style")
	require.NoError(t, err)
	return svc
}

func TestOptimizePrompt(t *testing.T) {
	svc := &Service{styleSuffix: "anime style"}

	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"appends style", "a cute cat", "a cute cat, anime style"},
		{"collapses whitespace", "  a   cute\ncat  ", "a cute cat, anime style"},
		{"trims trailing punctuation", "a cute cat.", "a cute cat, anime style"},
		{"does not repeat style", "a cute cat, Anime Style", "a cute cat, Anime Style"},
		{"empty prompt", "   ", "anime style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.OptimizePrompt(tt.prompt))
		})
	}

	plain := &Service{}
	assert.Equal(t, "a cute cat", plain.OptimizePrompt("a cute cat"))
}

func TestGenerateImage(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)

		var got openai.ImageRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "a cute cat, anime style", got.Prompt)
		assert.Equal(t, openai.CreateImageModelDallE3, got.Model)
		assert.Equal(t, openai.CreateImageResponseFormatURL, got.ResponseFormat)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1700000000,"data":[{"url":"https://images.example.com/cat.png","revised_prompt":"a cat"}]}`))
	})

	url, err := svc.GenerateImage(context.Background(), "a cute cat, anime style")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example.com/cat.png", url)
}

func TestGenerateImageErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"upstream error", http.StatusBadRequest, `{"error":{"message":"content policy violation","type":"invalid_request_error"}}`},
		{"no data", http.StatusOK, `{"created":1700000000,"data":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			})

			url, err := svc.GenerateImage(context.Background(), "a cat")
			assert.Error(t, err)
			assert.Empty(t, url)
		})
	}
}
