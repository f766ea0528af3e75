package agents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/deepgram/danmaku/internal/domain/danmaku/models"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOpenAI answers chat completions with canned content and records requests.
type fakeOpenAI struct {
	mu       sync.Mutex
	content  string
	status   int
	requests []openai.ChatCompletionRequest
}

func (f *fakeOpenAI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req openai.ChatCompletionRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
		return
	}

	_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
		ID:     "chatcmpl-test",
		Object: "chat.completion",
		Model:  req.Model,
		Choices: []openai.ChatCompletionChoice{{
			Index: 0,
			Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: f.content,
			},
			FinishReason: openai.FinishReasonStop,
		}},
	})
}

func (f *fakeOpenAI) recorded() []openai.ChatCompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]openai.ChatCompletionRequest(nil), f.requests...)
}

func newTestService(t *testing.T, fake *fakeOpenAI) *Service {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"

	svc, err := NewService(openai.NewClientWithConfig(cfg), "gpt-4o-mini")
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresClient(t *testing.T) {
	_, err := NewService(nil, "")
	assert.Error(t, err)
}

func TestAnalyzeIntent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    models.Intent
	}{
		{"conversation label", "conversation", models.IntentConversation},
		{"singing label with noise", " Singing_Request.\n", models.IntentSingingRequest},
		{"drawing label", "drawing_request", models.IntentDrawingRequest},
		{"unknown label falls back", "dance_request", models.IntentOtherCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeOpenAI{content: tt.content}
			svc := newTestService(t, fake)

			intent, err := svc.AnalyzeIntent(context.Background(), "主播好")
			require.NoError(t, err)
			assert.Equal(t, tt.want, intent)

			requests := fake.recorded()
			require.Len(t, requests, 1)
			assert.Equal(t, intentPrompt, requests[0].Messages[0].Content)
			assert.Equal(t, "主播好", requests[0].Messages[1].Content)
		})
	}
}

func TestAnalyzeIntentUpstreamError(t *testing.T) {
	svc := newTestService(t, &fakeOpenAI{status: http.StatusInternalServerError})

	_, err := svc.AnalyzeIntent(context.Background(), "主播好")
	assert.Error(t, err)
}

func TestGenerateReplies(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		call   func(*Service) (string, error)
	}{
		{"conversation", conversationPrompt, func(s *Service) (string, error) {
			return s.GenerateConversationResponse(context.Background(), "你好")
		}},
		{"singing", singingPrompt, func(s *Service) (string, error) {
			return s.GenerateSingingResponse(context.Background(), "唱首歌")
		}},
		{"other", otherPrompt, func(s *Service) (string, error) {
			return s.GenerateOtherResponse(context.Background(), "关注我")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeOpenAI{content: "  好的呀~  "}
			svc := newTestService(t, fake)

			reply, err := tt.call(svc)
			require.NoError(t, err)
			assert.Equal(t, "好的呀~", reply)
			assert.Equal(t, tt.prompt, fake.recorded()[0].Messages[0].Content)
		})
	}
}

func TestGenerateReplyEmptyContent(t *testing.T) {
	svc := newTestService(t, &fakeOpenAI{content: "   "})

	_, err := svc.GenerateConversationResponse(context.Background(), "你好")
	assert.Error(t, err)
}

func TestGenerateDrawingResponse(t *testing.T) {
	fake := &fakeOpenAI{content: `{"reply":"马上为你画一只猫！","image_prompt":"a fluffy orange cat on a windowsill"}`}
	svc := newTestService(t, fake)

	reply, prompt, err := svc.GenerateDrawingResponse(context.Background(), "画一只猫")
	require.NoError(t, err)
	assert.Equal(t, "马上为你画一只猫！", reply)
	assert.Equal(t, "a fluffy orange cat on a windowsill", prompt)

	requests := fake.recorded()
	require.NotNil(t, requests[0].ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, requests[0].ResponseFormat.Type)
}

func TestGenerateDrawingResponseFallsBackToDanmaku(t *testing.T) {
	svc := newTestService(t, &fakeOpenAI{content: `{"reply":"好的","image_prompt":""}`})

	_, prompt, err := svc.GenerateDrawingResponse(context.Background(), "画一只猫")
	require.NoError(t, err)
	assert.Equal(t, "画一只猫", prompt)
}

func TestGenerateDrawingResponseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "I will draw a cat"},
		{"missing reply", `{"image_prompt":"a cat"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &fakeOpenAI{content: tt.content})

			_, _, err := svc.GenerateDrawingResponse(context.Background(), "画一只猫")
			assert.Error(t, err)
		})
	}
}
