package image

import (
	"context"
	"fmt"
	"strings"

	"github.com/deepgram/danmaku/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

// Service draws pictures for drawing requests with the OpenAI images API.
type Service struct {
	client      *openai.Client
	model       string
	size        string
	styleSuffix string
}

func NewService(client *openai.Client, model, size, styleSuffix string) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("OpenAI client is required")
	}

	return &Service{
		client:      client,
		model:       model,
		size:        size,
		styleSuffix: strings.TrimSpace(styleSuffix),
	}, nil
}

// OptimizePrompt normalises whitespace and appends the house style, once.
func (s *Service) OptimizePrompt(prompt string) string {
	optimized := strings.Join(strings.Fields(prompt), " ")
	optimized = strings.TrimRight(optimized, ",.;，。；")

	if s.styleSuffix == "" || strings.Contains(strings.ToLower(optimized), strings.ToLower(s.styleSuffix)) {
		return optimized
	}
	if optimized == "" {
		return s.styleSuffix
	}
	return optimized + ", " + s.styleSuffix
}

// GenerateImage returns the URL of a freshly generated image.
func (s *Service) GenerateImage(ctx context.Context, prompt string) (string, error) {
	l := logger.For(logger.IMAGE)
	l.Info().Str("model", s.model).Str("size", s.size).Msg("Requesting image generation")

	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          s.model,
		N:              1,
		Size:           s.size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		l.Error().Err(err).Msg("Image generation request failed")
		return "", fmt.Errorf("failed to generate image: %w", err)
	}

	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("image generation returned no image")
	}

	if revised := resp.Data[0].RevisedPrompt; revised != "" {
		l.Debug().Str("revised_prompt", revised).Msg("Image model revised the prompt")
	}

	return resp.Data[0].URL, nil
}
