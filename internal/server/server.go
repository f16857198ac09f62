package server

import (
	"net/http"
	"time"

	"github.com/covidtrackerpr/messenger-relay/internal/config"
	"github.com/covidtrackerpr/messenger-relay/internal/messenger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// NewRouter wires the webhook and health endpoints.
func NewRouter(cfg *config.Config, logger zerolog.Logger, webhook *messenger.WebhookHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/webhook", webhook.HandleVerify)
	r.With(messenger.VerifySignature(cfg.AppSecret)).Post("/webhook", webhook.HandleIncoming)

	return r
}

func New(cfg *config.Config, logger zerolog.Logger, webhook *messenger.WebhookHandler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewRouter(cfg, logger, webhook),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
