package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepgram/danmaku/internal/api/v1/routes"
	"github.com/deepgram/danmaku/internal/config"
	"github.com/deepgram/danmaku/internal/connections"
	"github.com/deepgram/danmaku/internal/services"
	"github.com/deepgram/danmaku/pkg/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	svcs, err := services.InitializeServices()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer svcs.Close()

	manager := connections.NewManager(connections.DefaultTimeouts)
	router := routes.NewRouter(svcs.GetWorkflow(), manager, svcs.NewRateLimiter, svcs.HealthChecks(), config.IsAuthEnabled())

	server := &http.Server{
		Addr:              ":" + config.GetPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
