package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"bluebird/internal/platform/config"
	"bluebird/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server owns the root chi mux and the listener
type Server struct {
	mux   *chi.Mux
	srv   *stdhttp.Server
	drain time.Duration
}

// NewServer reads PORT, READ_TIMEOUT, WRITE_TIMEOUT, IDLE_TIMEOUT and
// SHUTDOWN_TIMEOUT from cfg
func NewServer(cfg config.Conf) *Server {
	mux := chi.NewRouter()
	return &Server{
		mux:   mux,
		drain: cfg.MayDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		srv: &stdhttp.Server{
			Addr:              cfg.MayString("PORT", ":4000"),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.MayDuration("READ_TIMEOUT", 2*time.Minute),
			WriteTimeout:      cfg.MayDuration("WRITE_TIMEOUT", 2*time.Minute),
			IdleTimeout:       cfg.MayDuration("IDLE_TIMEOUT", 90*time.Second),
		},
	}
}

func (s *Server) Router() Router            { return AdaptChi(s.mux) }
func (s *Server) Handler() stdhttp.Handler { return s.mux }
func (s *Server) Addr() string             { return s.srv.Addr }

// Run serves until ctx ends, then drains in-flight requests for up to
// SHUTDOWN_TIMEOUT. A listener failure is returned as is
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	failed := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.srv.Addr).Msg("listening")
		failed <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-failed:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			err = nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("drain", s.drain).Msg("shutting down")
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.drain)
	defer cancel()
	return s.srv.Shutdown(dctx)
}
