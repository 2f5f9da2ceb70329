package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nicoxroll/tecno-car-sub000/internal/config"
	"github.com/nicoxroll/tecno-car-sub000/internal/infra"
	"github.com/nicoxroll/tecno-car-sub000/internal/repository"
	"github.com/nicoxroll/tecno-car-sub000/internal/router"
	"github.com/nicoxroll/tecno-car-sub000/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if cfg.AutoMigrate {
		if err := infra.RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
		log.Info().Msg("database schema migrated")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	storage, err := infra.NewStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init object storage")
	}
	if cfg.StorageURL == "" {
		log.Warn().Msg("STORAGE_URL not set, image uploads are disabled")
	}

	llm := infra.NewLLMClient(cfg, infra.NewCircuitBreaker(infra.DefaultCBConfig()))
	if cfg.LLMAPIKey == "" {
		log.Warn().Msg("LLM_API_KEY not set, chat answers with the fallback message")
	}

	mailer := infra.NewMailer(cfg)
	if !mailer.Configured() {
		log.Warn().Msg("SMTP_HOST not set, notification emails will fail into the DLQ")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	dispatcher := worker.NewDispatcher(rdb)
	workerHandlers := &worker.WorkerHandlers{
		Notificaciones: worker.NewNotificacionWorker(
			repository.NewVentaRepository(db),
			repository.NewTurnoRepository(db),
			mailer,
			cfg.ShopName,
			cfg.NotifyEmail,
		),
		Email: worker.NewEmailWorker(mailer),
	}
	workersDone := worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	r := router.New(ctx, cfg, db, rdb, router.Deps{
		Blobs:       storage,
		LLM:         llm,
		Notificador: dispatcher,
	})

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		// Chat responses are streamed, so the write deadline covers a whole answer.
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("%s backend listening on :%d", cfg.ShopName, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	select {
	case <-workersDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("workers did not stop in time")
	}
	log.Info().Msg("server exited")
}
