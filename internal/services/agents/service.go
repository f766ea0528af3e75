package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deepgram/danmaku/internal/domain/danmaku/models"
	"github.com/deepgram/danmaku/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

// Service classifies danmaku and writes replies with OpenAI chat completions.
// It is safe for concurrent use.
type Service struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewService(client *openai.Client, model string) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("OpenAI client is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	return &Service{
		client:      client,
		model:       model,
		temperature: 0.8,
		maxTokens:   400,
	}, nil
}

type drawingReply struct {
	Reply       string `json:"reply"`
	ImagePrompt string `json:"image_prompt"`
}

// AnalyzeIntent asks the model for an intent label. Labels the model makes up
// are treated as other_command rather than failing the run.
func (s *Service) AnalyzeIntent(ctx context.Context, content string) (models.Intent, error) {
	l := logger.For(logger.AGENTS)

	label, err := s.complete(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: intentPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
		Temperature: 0,
		MaxTokens:   10,
	})
	if err != nil {
		return "", err
	}

	intent, err := models.ParseIntent(label)
	if err != nil {
		l.Warn().Err(err).Str("label", label).Msg("Classifier returned an unknown label, treating as other command")
		return models.IntentOtherCommand, nil
	}

	l.Debug().Str("intent", intent.String()).Msg("Classified danmaku")
	return intent, nil
}

func (s *Service) GenerateConversationResponse(ctx context.Context, content string) (string, error) {
	return s.reply(ctx, conversationPrompt, content)
}

func (s *Service) GenerateSingingResponse(ctx context.Context, content string) (string, error) {
	return s.reply(ctx, singingPrompt, content)
}

func (s *Service) GenerateOtherResponse(ctx context.Context, content string) (string, error) {
	return s.reply(ctx, otherPrompt, content)
}

// GenerateDrawingResponse returns the spoken reply and the prompt for the image
// model. When the model leaves the prompt empty the danmaku itself is used.
func (s *Service) GenerateDrawingResponse(ctx context.Context, content string) (string, string, error) {
	raw, err := s.complete(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: drawingPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", "", err
	}

	var reply drawingReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return "", "", fmt.Errorf("failed to parse drawing response: %w", err)
	}

	reply.Reply = strings.TrimSpace(reply.Reply)
	if reply.Reply == "" {
		return "", "", fmt.Errorf("drawing response has no reply text")
	}

	prompt := strings.TrimSpace(reply.ImagePrompt)
	if prompt == "" {
		logger.For(logger.AGENTS).Warn().Msg("Drawing response has no image prompt, using the danmaku")
		prompt = content
	}

	return reply.Reply, prompt, nil
}

func (s *Service) reply(ctx context.Context, systemPrompt, content string) (string, error) {
	return s.complete(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
}

func (s *Service) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		logger.For(logger.AGENTS).Error().Err(err).Str("model", req.Model).Msg("Failed to get chat completion")
		return "", fmt.Errorf("failed to get chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty response content")
	}

	return content, nil
}
