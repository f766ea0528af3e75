package danmaku

import (
	"encoding/json"
	"net/http"
	"time"

	v1mware "github.com/deepgram/danmaku/internal/api/v1/middleware"
	"github.com/deepgram/danmaku/internal/config"
	"github.com/deepgram/danmaku/internal/connections"
	"github.com/deepgram/danmaku/internal/domain/danmaku/models"
	"github.com/deepgram/danmaku/internal/services/progress"
	"github.com/deepgram/danmaku/internal/services/workflow"
	"github.com/deepgram/danmaku/pkg/logger"
	"github.com/deepgram/danmaku/pkg/ratelimit"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const maxMessageSize = 8 * 1024

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the overlay origins once they are configurable
		return true
	},
}

// HandleDanmakuWebSocket accepts danmaku frames and streams progress events
// followed by a result or error envelope for each one. Danmaku on the same
// socket are processed one at a time, and every frame counts against the
// client's danmaku rate limit.
func HandleDanmakuWebSocket(processor workflow.Processor, manager *connections.Manager, limiter ratelimit.Limiter, limitCfg config.RateLimitConfig, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.For(logger.HANDLER).Warn().Err(err).Msg("Failed to upgrade danmaku websocket")
		return
	}

	id := manager.AddConnection(conn)
	lctx := logger.For(logger.HANDLER).With().Str("connection_id", id)
	if validation, ok := v1mware.TokenValidation(r.Context()); ok {
		lctx = lctx.Str("grant_type", validation.GrantType)
	}
	l := lctx.Logger()
	l.Info().Int("connections", manager.GetConnectionCount()).Msg("Danmaku websocket connected")

	defer func() {
		manager.RemoveConnection(conn)
		conn.Close()
		l.Info().Msg("Danmaku websocket disconnected")
	}()

	timeouts := manager.GetTimeouts()
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go keepAlive(conn, timeouts, done)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				l.Warn().Err(err).Msg("Unexpected websocket closure")
			}
			return
		}

		var req Request
		if err := json.Unmarshal(payload, &req); err != nil || validate.Struct(req) != nil {
			if err := writeJSON(conn, timeouts, models.NewErrorMessage("invalid_request", "expected {\"content\": \"...\"}")); err != nil {
				return
			}
			continue
		}

		if !allowFrame(r, limiter, limitCfg, &l) {
			if err := writeJSON(conn, timeouts, models.NewErrorMessage("rate_limited", "Rate limit exceeded")); err != nil {
				return
			}
			continue
		}

		if err := processOne(r, processor, conn, timeouts, &l, req.Content); err != nil {
			l.Warn().Err(err).Msg("Failed to write to danmaku websocket")
			return
		}

		// Processing can outlast PongWait; pongs are only handled while reading.
		_ = conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	}
}

// allowFrame applies the danmaku limit to one frame. Limiter errors let the
// frame through, the same as the HTTP middleware.
func allowFrame(r *http.Request, limiter ratelimit.Limiter, limitCfg config.RateLimitConfig, l *zerolog.Logger) bool {
	if !limitCfg.Enabled || limiter == nil {
		return true
	}

	ip := v1mware.ClientIP(r)
	allowed, err := limiter.Allow(r.Context(), ip)
	if err != nil {
		l.Error().Err(err).Msg("Rate limiter unavailable, allowing danmaku")
		return true
	}
	if !allowed {
		l.Warn().Str("client_ip", ip).Msg("Danmaku rate limit exceeded")
	}
	return allowed
}

func processOne(r *http.Request, processor workflow.Processor, conn *websocket.Conn, timeouts connections.TimeoutConfig, l *zerolog.Logger, content string) error {
	ch := progress.NewChannel()
	forwarded := make(chan struct{})

	go func() {
		defer close(forwarded)
		for event := range ch.Events() {
			if err := writeJSON(conn, timeouts, models.NewProgressMessage(event)); err != nil {
				l.Warn().Err(err).Str("stage", event.Stage).Msg("Progress observer went away")
				ch.Drop()
				return
			}
		}
	}()

	result, err := processor.ProcessDanmaku(r.Context(), content, ch)
	ch.Close()
	<-forwarded

	if err != nil {
		code, _ := classifyError(err)
		return writeJSON(conn, timeouts, models.NewErrorMessage(code, err.Error()))
	}
	return writeJSON(conn, timeouts, models.NewResultMessage(result))
}

func writeJSON(conn *websocket.Conn, timeouts connections.TimeoutConfig, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(timeouts.WriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

func keepAlive(conn *websocket.Conn, timeouts connections.TimeoutConfig, done <-chan struct{}) {
	ticker := time.NewTicker(timeouts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(timeouts.WriteWait)); err != nil {
				return
			}
		}
	}
}
