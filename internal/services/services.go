package services

import (
	"context"
	"fmt"

	"github.com/deepgram/danmaku/internal/config"
	"github.com/deepgram/danmaku/internal/infrastructure/deepgram"
	"github.com/deepgram/danmaku/internal/infrastructure/openai"
	"github.com/deepgram/danmaku/internal/infrastructure/redis"
	"github.com/deepgram/danmaku/internal/services/agents"
	"github.com/deepgram/danmaku/internal/services/image"
	"github.com/deepgram/danmaku/internal/services/tts"
	"github.com/deepgram/danmaku/internal/services/workflow"
	"github.com/deepgram/danmaku/pkg/ratelimit"
	"github.com/rs/zerolog/log"
)

type Services struct {
	redisService *redis.Service
	workflow     *workflow.Workflow
}

// InitializeServices builds the danmaku workflow and its collaborators from
// the environment.
func InitializeServices() (*Services, error) {
	log.Info().Msg("Initializing core services")

	// Redis is optional; rate limiting falls back to memory without it
	redisService := redis.NewService()

	openAIService := openai.NewService()
	if openAIService == nil {
		return nil, fmt.Errorf("OpenAI service is required for intent analysis and replies")
	}

	deepgramService := deepgram.NewService()
	if deepgramService == nil {
		return nil, fmt.Errorf("Deepgram service is required for speech synthesis")
	}

	agentService, err := agents.NewService(openAIService.GetClient(), config.GetOpenAIChatModel())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize agents: %w", err)
	}
	log.Info().Msg("Initialized agent service")

	imageService, err := image.NewService(
		openAIService.GetClient(),
		config.GetOpenAIImageModel(),
		config.GetOpenAIImageSize(),
		config.GetImageStyleSuffix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image tool: %w", err)
	}
	log.Info().Msg("Initialized image service")

	ttsService, err := tts.NewService(deepgramService, config.GetDeepgramTTSModel())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize TTS tool: %w", err)
	}
	log.Info().Msg("Initialized TTS service")

	wf := workflow.NewWorkflow(agentService, agentService, imageService, ttsService, workflow.Config{
		MaxDanmakuLength: config.GetMaxDanmakuLength(),
	})

	log.Info().Msg("All services initialized successfully")

	return &Services{
		redisService: redisService,
		workflow:     wf,
	}, nil
}

// GetWorkflow returns the danmaku workflow
func (s *Services) GetWorkflow() workflow.Processor {
	return s.workflow
}

// NewRateLimiter returns a limiter for the named limit, shared through Redis
// when it is available.
func (s *Services) NewRateLimiter(limitKey string) (ratelimit.Limiter, config.RateLimitConfig) {
	cfg := config.GetRateLimitConfig(limitKey)
	if s.redisService != nil {
		return ratelimit.NewCounterLimiter(s.redisService, "ratelimit:"+limitKey, cfg.Window, cfg.MaxHits), cfg
	}
	return ratelimit.NewLimiter(cfg.Window, cfg.MaxHits), cfg
}

// HealthChecks returns a ping for each optional backend that is configured.
func (s *Services) HealthChecks() map[string]func(ctx context.Context) error {
	checks := make(map[string]func(ctx context.Context) error)
	if s.redisService != nil {
		checks["redis"] = s.redisService.Ping
	}
	return checks
}

// Close releases connections held by the services
func (s *Services) Close() error {
	if s.redisService != nil {
		return s.redisService.Close()
	}
	return nil
}
