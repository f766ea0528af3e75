package openai

import (
	"sync"

	"github.com/deepgram/danmaku/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

type Service struct {
	mu     sync.RWMutex
	client *openai.Client
}

func NewService() *Service {
	log.Info().Msg("Initialising OpenAI service")
	key := config.GetOpenAIKey()

	if key == "" {
		log.Warn().Msg("OpenAI service not configured - OPENAI_KEY missing")
		return nil
	}

	return NewServiceWithConfig(key, config.GetOpenAIBaseURL())
}

// NewServiceWithConfig builds a client for an explicit key and an optional
// OpenAI-compatible base URL.
func NewServiceWithConfig(key, baseURL string) *Service {
	clientConfig := openai.DefaultConfig(key)
	if baseURL != "" {
		log.Info().Str("base_url", baseURL).Msg("Using custom OpenAI base URL")
		clientConfig.BaseURL = baseURL
	}

	return &Service{
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (s *Service) GetClient() *openai.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}
