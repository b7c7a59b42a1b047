package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hygpos/internal/config"
	"hygpos/internal/infra"
	"hygpos/internal/router"
	"hygpos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ext := router.Externals{Mailer: infra.NewMailer(cfg)}
	if cfg.AMQPURL != "" {
		pub, err := infra.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			// Operator alerts fall back to mail only.
			log.Warn().Err(err).Msg("amqp unavailable, operator alerts go by mail only")
		} else {
			ext.AMQP = pub
			defer pub.Close()
		}
	}

	app := router.New(cfg, db, rdb, ext)

	// Background parts: websocket fan-out, async job pool, weekly archive.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go app.Hub.Run(ctx)
	app.Pool.Start(ctx, cfg.WorkerPoolSize)
	worker.StartArchiveScheduler(ctx, worker.ArchiveSchedulerConfig{
		Runner:   app.Archive,
		Weekday:  time.Weekday(cfg.ArchiveWeekday),
		Hour:     cfg.ArchiveHour,
		Location: cfg.Location(),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      app.Engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("hygpos backend listening on :%d", cfg.Port)
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

	// Stop workers after the last request so in-flight closes can still
	// enqueue their tickets.
	cancel()
	app.Pool.Wait()
	log.Info().Msg("server exited")
}
