package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Options struct {
	Addr      string
	RateLimit string       // ulule format, e.g. "100-S"; empty disables limiting
	Metrics   HTTPObserver // nil disables request metrics
	MetricsH  http.Handler // nil hides /metrics
	Register  func(gin.IRouter)
}

type Server struct {
	srv *http.Server
	log *slog.Logger
}

// NewRouter builds the gin engine with the shared middleware chain, the
// liveness check and, when given, the metrics endpoint.
func NewRouter(opts Options, log *slog.Logger) (*gin.Engine, error) {
	r := gin.New()
	r.Use(
		Recovery(log),
		RequestID(),
		CORS(),
		Logger(log),
	)
	if opts.Metrics != nil {
		r.Use(Observe(opts.Metrics))
	}
	if opts.RateLimit != "" {
		rl, err := RateLimit(opts.RateLimit)
		if err != nil {
			return nil, err
		}
		r.Use(rl)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if opts.MetricsH != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsH))
	}
	if opts.Register != nil {
		opts.Register(r)
	}
	return r, nil
}

func New(opts Options, log *slog.Logger) (*Server, error) {
	r, err := NewRouter(opts, log)
	if err != nil {
		return nil, err
	}
	return &Server{
		srv: &http.Server{
			Addr:              opts.Addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}, nil
}

// Start blocks until the server stops; a clean Shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info("http server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
