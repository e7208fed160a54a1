package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"studycompanion/internal/api"
	"studycompanion/internal/config"
	"studycompanion/internal/logger"
	"studycompanion/internal/storage"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	var opts []api.Option
	if cfg.DocumentStore == "postgres" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		db, err := storage.NewDB(ctx, cfg.PostgresURL)
		if err == nil {
			err = db.Migrate(ctx)
		}
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("open document store")
		}
		defer db.Close()
		opts = append(opts, api.WithDocumentStore(storage.NewDocumentRepo(db)))
	}

	srv := &http.Server{
		Addr:              cfg.APIAddr,
		Handler:           api.NewServer(cfg, log, opts...).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.APIAddr).
			Int("chunk_size", cfg.ChunkSize).
			Int("max_upload_mb", cfg.MaxUploadMB).
			Str("documents", cfg.DocumentStore).
			Str("llm", cfg.LLMProvider).
			Msg("study api listening")
		errCh <- srv.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
