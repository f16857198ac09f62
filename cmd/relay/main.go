package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/covidtrackerpr/messenger-relay/internal/bot"
	"github.com/covidtrackerpr/messenger-relay/internal/config"
	"github.com/covidtrackerpr/messenger-relay/internal/messenger"
	"github.com/covidtrackerpr/messenger-relay/internal/registrar"
	"github.com/covidtrackerpr/messenger-relay/internal/server"
	"github.com/covidtrackerpr/messenger-relay/internal/store"
	"github.com/covidtrackerpr/messenger-relay/internal/tasks"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("could not parse log level: %s", err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().
		Timestamp().
		Str("app", "messenger-relay").
		Logger()
	zerolog.DefaultContextLogger = &logger

	if cfg.GeneratedVerifyToken {
		logger.Warn().Str("verify_token", cfg.VerifyToken).Msg("VERIFY_TOKEN not set, generated one for this run")
	}

	var journal bot.Recorder
	if cfg.DataDir != "" {
		db, err := store.NewBoltStore(filepath.Join(cfg.DataDir, "relay.db"))
		if err != nil {
			logger.Fatal().Err(err).Msg("store")
		}
		defer db.Close()
		journal = db
	}

	runner := tasks.NewRunner(logger, cfg.OutboundTimeout, nil)
	msgClient := messenger.NewClient(cfg.GraphAPIURL, cfg.PageAccessToken, cfg.OutboundTimeout)
	regClient := registrar.NewClient(cfg.RegistrarURL, cfg.OutboundTimeout)

	botHandler := bot.NewHandler(msgClient, regClient, runner, journal)
	webhookHandler := messenger.NewWebhookHandler(cfg.VerifyToken, botHandler)

	srv := server.New(cfg, logger, webhookHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info().Str("port", cfg.Port).Msg("webhook is listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info().Msg("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := runner.Wait(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("outbound calls still running at shutdown")
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("stopped")
}
