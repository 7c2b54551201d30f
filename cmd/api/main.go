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

	"github.com/gin-gonic/gin"

	"github.com/intellemagit/VoxChain/internal/calls"
	"github.com/intellemagit/VoxChain/internal/config"
	"github.com/intellemagit/VoxChain/internal/httpapi"
	"github.com/intellemagit/VoxChain/internal/livekit"
	"github.com/intellemagit/VoxChain/internal/recording"
	"github.com/intellemagit/VoxChain/internal/tokens"
	"github.com/intellemagit/VoxChain/internal/transcribe"
	"github.com/intellemagit/VoxChain/pkg/logger"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// One backend client, constructed once and injected everywhere.
	backend := livekit.NewClient(cfg.LiveKit)

	issuer, err := tokens.NewIssuer(cfg.LiveKit)
	if err != nil {
		log.Error("token issuer init failed", "err", err)
		os.Exit(1)
	}

	var storage recording.ObjectStorage
	if cfg.Storage.HasS3() {
		s3, err := recording.NewS3Storage(rootCtx, cfg.Storage)
		if err != nil {
			log.Error("s3 storage init failed", "err", err)
			os.Exit(1)
		}
		storage = s3
	} else {
		log.Warn("s3 storage not configured, recordings limited to local egress output")
	}

	var transcriber *transcribe.Transcriber
	if cfg.OpenAI.APIKey != "" {
		transcriber, err = transcribe.New(cfg.OpenAI, log)
		if err != nil {
			log.Error("transcriber init failed", "err", err)
			os.Exit(1)
		}
	}

	h := httpapi.Handlers{
		Calls:       calls.NewService(cfg.LiveKit, backend, backend, backend, log),
		Tokens:      issuer,
		Recordings:  recording.NewTracker(cfg, backend, storage, log),
		Transcriber: transcriber,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, h)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Recording requests can poll for a long time; keep the write
		// budget above the egress poll timeout.
		WriteTimeout: cfg.Egress.PollTimeout + time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
