package deepgram

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/deepgram/danmaku/internal/config"
	"github.com/rs/zerolog/log"
)

type Service struct {
	client  *http.Client
	restURL string
	headers http.Header
}

func NewService() *Service {
	token := config.GetDeepgramAPIKey()

	if token == "" {
		log.Warn().Msg("Deepgram API key not configured - speech synthesis will be unavailable")
		return nil
	}

	s := NewServiceWithConfig(token, config.GetDeepgramURL())

	log.Info().
		Str("rest_url", s.restURL).
		Msg("Deepgram service initialized successfully")

	return s
}

func NewServiceWithConfig(token, restURL string) *Service {
	headers := http.Header{}
	headers.Set("Authorization", "Token "+token)

	return &Service{
		client:  &http.Client{Timeout: 60 * time.Second},
		restURL: restURL,
		headers: headers,
	}
}

// MakeRequest makes a request to the Deepgram REST API
func (s *Service) MakeRequest(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	url := s.restURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	req.Header = s.headers.Clone()
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return s.client.Do(req)
}
