package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bpowers1215/money-map/internal/auth"
	"github.com/bpowers1215/money-map/internal/config"
	"github.com/bpowers1215/money-map/internal/handler"
	"github.com/bpowers1215/money-map/internal/logging"
	"github.com/bpowers1215/money-map/internal/repository"
	"github.com/bpowers1215/money-map/internal/session"
	"github.com/bpowers1215/money-map/internal/store"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		slog.Error("failed to connect to mongodb", "uri", cfg.MongoURI, "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := db.Disconnect(shutdownCtx); err != nil {
			slog.Error("mongodb disconnect failed", "error", err)
		}
	}()

	sessions, err := session.NewRedisStore(cfg.RedisURL)
	if err != nil {
		slog.Error("failed to connect to redis", "url", cfg.RedisURL, "error", err)
		os.Exit(1)
	}
	defer sessions.Close()

	repos := repository.NewManager(db)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	router := handler.NewRouter(repos, tokens, sessions)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		slog.Info("money map api listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
