package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deepgram/danmaku/internal/api/v1/routes"
	"github.com/deepgram/danmaku/internal/config"
	"github.com/deepgram/danmaku/internal/connections"
	"github.com/deepgram/danmaku/internal/domain/danmaku/models"
	"github.com/deepgram/danmaku/internal/services/workflow"
	"github.com/deepgram/danmaku/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoProcessor struct{}

func (echoProcessor) ProcessDanmaku(_ context.Context, content string, _ workflow.ProgressSender) (*models.ProcessingResult, error) {
	return &models.ProcessingResult{IntentType: models.IntentConversation, TextResponse: content}, nil
}

func memoryLimiters(limitKey string) (ratelimit.Limiter, config.RateLimitConfig) {
	cfg := config.GetRateLimitConfig(limitKey)
	return ratelimit.NewLimiter(cfg.Window, cfg.MaxHits), cfg
}

func TestMainServer(t *testing.T) {
	restore := config.SetJWTSecret([]byte("test-secret"))
	defer restore()

	manager := connections.NewManager(connections.DefaultTimeouts)
	server := httptest.NewServer(routes.NewRouter(echoProcessor{}, manager, memoryLimiters, nil, true))
	defer server.Close()

	t.Run("health endpoint", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var health map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		assert.Equal(t, "ok", health["status"])
		assert.NotContains(t, health, "dependencies")
	})

	t.Run("danmaku requires a token", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/v1/danmaku", "application/json", strings.NewReader(`{"content":"你好"}`))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token then danmaku", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/v1/oauth/token", "application/json", strings.NewReader(`{"grant_type":"anonymous"}`))
		require.NoError(t, err)

		var tokenResp struct {
			AccessToken string `json:"access_token"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokenResp))
		resp.Body.Close()

		req, err := http.NewRequest(http.MethodPost, server.URL+"/v1/danmaku", strings.NewReader(`{"content":"你好"}`))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tokenResp.AccessToken)

		resp, err = http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result models.ProcessingResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, "你好", result.TextResponse)
	})
}

func TestHealthReportsDependencies(t *testing.T) {
	manager := connections.NewManager(connections.DefaultTimeouts)

	tests := []struct {
		name           string
		ping           func(ctx context.Context) error
		expectedStatus int
		expectedHealth string
		expectedRedis  string
	}{
		{
			name:           "redis reachable",
			ping:           func(context.Context) error { return nil },
			expectedStatus: http.StatusOK,
			expectedHealth: "ok",
			expectedRedis:  "ok",
		},
		{
			name:           "redis down",
			ping:           func(context.Context) error { return errors.New("connection refused") },
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "degraded",
			expectedRedis:  "unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checks := map[string]func(ctx context.Context) error{"redis": tt.ping}
			server := httptest.NewServer(routes.NewRouter(echoProcessor{}, manager, memoryLimiters, checks, false))
			defer server.Close()

			resp, err := http.Get(server.URL + "/healthz")
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var health struct {
				Status       string            `json:"status"`
				Dependencies map[string]string `json:"dependencies"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
			assert.Equal(t, tt.expectedHealth, health.Status)
			assert.Equal(t, tt.expectedRedis, health.Dependencies["redis"])
		})
	}
}
