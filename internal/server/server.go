// Package server is the webhook entry point: it validates inbound
// payload shape, invokes the relay, and translates internal failures
// into transport responses. It is the only place errors are mapped to
// status codes.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"floodbot/internal/config"
	"floodbot/internal/domain"
	"floodbot/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Replier is the orchestrator surface the webhook handlers need.
type Replier interface {
	SendReply(ctx context.Context, msg domain.InboundMessage) (*domain.PlatformResponse, error)
	SendThanks(ctx context.Context, report domain.Report) (*domain.PlatformResponse, error)
}

type Server struct {
	cfg     config.ServerConfig
	metrics config.MetricsConfig
	relay   Replier
	logger  *slog.Logger
	srv     *http.Server
}

type Config struct {
	Server  config.ServerConfig
	Metrics config.MetricsConfig
	Relay   Replier
	Logger  *slog.Logger
}

func New(cfg Config) *Server {
	return &Server{
		cfg:     cfg.Server,
		metrics: cfg.Metrics,
		relay:   cfg.Relay,
		logger:  cfg.Logger,
	}
}

// Routes assembles the router. Exposed separately so handler tests can
// drive it without a listening socket.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post(s.cfg.WebhookPath, s.handleTelegramWebhook)
	r.Post(s.cfg.ReportPath, s.handleReport)
	r.Get("/healthz", s.handleHealth)
	if s.metrics.Enabled {
		r.Get(s.metrics.Endpoint, metrics.Collector.Handler())
	}
	return r
}

// Start begins serving and blocks until ctx is cancelled or the listener
// fails.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("webhook server starting",
		"addr", s.srv.Addr,
		"webhook_path", s.cfg.WebhookPath,
		"report_path", s.cfg.ReportPath,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("webhook server: %w", err)
	}
}

// logRequests emits one slog record per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
