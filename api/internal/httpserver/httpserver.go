package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"aura-check/api/internal/handle"
	"aura-check/api/internal/logger"
	"aura-check/api/internal/metrics"
)

const shutdownGrace = 10 * time.Second

type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewBaseRouter carries the middleware stack plus /healthz, /metrics and
// /metrics.txt.
// Binaries mount their own routes on top.
func NewBaseRouter(reg *metrics.Registry) *chi.Mux {
	r := chi.NewRouter()
	r.Use(RequestLogger(reg))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz)
	r.Get("/metrics", reg.HandlerJSON)
	r.Get("/metrics.txt", reg.HandlerText)
	return r
}

// NewRouter is the API surface: base routes plus POST /api/analyze.
func NewRouter(h *handle.Handle, reg *metrics.Registry) *chi.Mux {
	r := NewBaseRouter(reg)
	r.Post("/api/analyze", h.Analyze)
	return r
}

func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func New(opts Options, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       opts.ReadTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
