package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"quant_architect/internal/dashboard"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds server configuration.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	WSThrottle      time.Duration
	Gatherer        prometheus.Gatherer
	Logger          zerolog.Logger
}

type Option func(*Config)

func WithAddr(addr string) Option {
	return func(c *Config) { c.Addr = addr }
}

// WithWSThrottle sets the minimum interval between live-feed pushes.
func WithWSThrottle(d time.Duration) Option {
	return func(c *Config) { c.WSThrottle = d }
}

// WithGatherer sets the registry served on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *Config) { c.Gatherer = g }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Server wraps the Echo HTTP server and the live feed hub.
type Server struct {
	echo   *echo.Echo
	hub    *Hub
	config *Config
}

func New(dash *dashboard.Dashboard, opts ...Option) *Server {
	cfg := &Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		WSThrottle:      250 * time.Millisecond,
		Gatherer:        prometheus.DefaultGatherer,
		Logger:          log.Logger,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(Recover(cfg.Logger))
	e.Use(RequestLogging(cfg.Logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	hub := NewHub(dash, cfg.WSThrottle, cfg.Logger)
	NewHandler(dash).RegisterRoutes(e)
	e.GET("/ws", hub.HandleWebSocket)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))

	return &Server{echo: e, hub: hub, config: cfg}
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info().Str("addr", s.config.Addr).Msg("http server: listening")
		if err := s.echo.Start(s.config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	stopHub()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.config.Logger.Info().Msg("http server: stopped gracefully")
	return nil
}
