package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/deepgram/danmaku/internal/infrastructure/deepgram"
	"github.com/deepgram/danmaku/pkg/logger"
)

const maxErrorBody = 1024

// Service synthesises speech with the Deepgram /v1/speak endpoint.
type Service struct {
	deepgram *deepgram.Service
	model    string
}

func NewService(deepgramService *deepgram.Service, model string) (*Service, error) {
	if deepgramService == nil {
		return nil, fmt.Errorf("Deepgram service is required")
	}

	return &Service{
		deepgram: deepgramService,
		model:    model,
	}, nil
}

type speakRequest struct {
	Text string `json:"text"`
}

// GenerateSpeech returns the encoded audio for text.
func (s *Service) GenerateSpeech(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("no text to synthesise")
	}

	body, err := json.Marshal(speakRequest{Text: text})
	if err != nil {
		return nil, err
	}

	path := "/v1/speak?" + url.Values{"model": {s.model}}.Encode()
	resp, err := s.deepgram.MakeRequest(ctx, http.MethodPost, path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("speak request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("speak request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speak request returned no audio")
	}

	logger.For(logger.TTS).Debug().
		Str("model", s.model).
		Str("content_type", resp.Header.Get("Content-Type")).
		Int("bytes", len(audio)).
		Msg("Speech synthesised")

	return audio, nil
}
