package handlers

import (
	"net/http"

	v1danmaku "github.com/deepgram/danmaku/internal/api/v1/handlers/danmaku"
	v1oauth "github.com/deepgram/danmaku/internal/api/v1/handlers/oauth"
	v1mware "github.com/deepgram/danmaku/internal/api/v1/middleware"
	"github.com/deepgram/danmaku/internal/config"
	"github.com/deepgram/danmaku/internal/connections"
	"github.com/deepgram/danmaku/internal/services/workflow"
	"github.com/deepgram/danmaku/pkg/ratelimit"
	"github.com/gorilla/mux"
)

// LimiterFactory returns the limiter and settings for a named rate limit.
type LimiterFactory func(limitKey string) (ratelimit.Limiter, config.RateLimitConfig)

func rateLimit(limiters LimiterFactory, limitKey string) func(http.Handler) http.Handler {
	limiter, cfg := limiters(limitKey)
	return v1mware.RateLimit(limitKey, limiter, cfg)
}

func RegisterV1Routes(router *mux.Router, processor workflow.Processor, manager *connections.Manager, limiters LimiterFactory, authEnabled bool) {
	// v1 routes
	v1 := router.PathPrefix("/v1").Subrouter()

	// OAuth v1 routes (no auth required)
	v1oauthRouter := v1.PathPrefix("/oauth").Subrouter()
	v1oauthRouter.Handle("/token", rateLimit(limiters, "oauth_token")(http.HandlerFunc(v1oauth.HandleToken))).Methods("POST")

	// Danmaku v1 routes
	v1danmakuRouter := v1.PathPrefix("/danmaku").Subrouter()
	v1danmakuRouter.Use(v1mware.RequireAuth(authEnabled, config.DanmakuScope))

	// The websocket route limits per frame rather than per upgrade.
	danmakuLimiter, danmakuLimit := limiters("danmaku")

	v1danmakuRouter.Handle("", v1mware.RateLimit("danmaku", danmakuLimiter, danmakuLimit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v1danmaku.HandleDanmaku(processor, w, r)
	}))).Methods("POST")
	v1danmakuRouter.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		v1danmaku.HandleDanmakuWebSocket(processor, manager, danmakuLimiter, danmakuLimit, w, r)
	}).Methods("GET")
}
