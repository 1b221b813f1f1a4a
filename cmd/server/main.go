package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pairpad/backend/internal/api"
	"github.com/pairpad/backend/internal/config"
	"github.com/pairpad/backend/internal/janitor"
	"github.com/pairpad/backend/internal/store"
	"github.com/pairpad/backend/internal/ws"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg := config.Load()

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to initialize store")
	}
	defer st.Close()
	log.Info().Str("path", cfg.DBPath).Msg("store initialized")

	registry := ws.NewRegistry()
	hub := ws.NewHub(registry, log)

	jan := janitor.New(st, registry, janitor.Config{
		Interval: cfg.JanitorInterval,
		RoomTTL:  cfg.RoomTTL,
	}, log)
	jan.Start()

	handler := api.NewRouter(st, registry, hub, cfg.CORSOrigins, log)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("pairpad server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutting down")
	jan.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
