package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/sirupsen/logrus"

	"github.com/delcain/drawsync/pkg/engine"
)

// Service defines the API service interface
type Service interface {
	Start(ctx context.Context) error
	Stop() error
}

type service struct {
	app    *fiber.App
	server *http.Server
	config *Config
	engine engine.Service
	log    logrus.FieldLogger
}

// NewService creates a new query API service
func NewService(cfg *Config, eng engine.Service, log logrus.FieldLogger) Service {
	return &service{
		config: cfg,
		engine: eng,
		log:    log.WithField("service", "api"),
	}
}

// Start initializes and starts the API server
func (s *service) Start(_ context.Context) error {
	if !s.config.Enabled {
		s.log.Info("API service is disabled")

		return nil
	}

	s.app = fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		AppName:      "drawsync API",
	})

	setupMiddleware(s.app)

	server := NewServer(s.engine, s.log)

	apiV1 := s.app.Group("/api/v1")
	apiV1.Get("/status", server.GetStatus)
	apiV1.Get("/draws", server.ListDraws)
	apiV1.Get("/draws/:number", server.GetDraw)
	apiV1.Get("/numbers/:number", server.GetNumber)
	apiV1.Get("/combinations/check", server.CheckCombination)

	fiberHandler := adaptor.FiberApp(s.app)
	s.server = &http.Server{
		Addr:              s.config.Addr,
		Handler:           fiberHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.log.WithField("addr", s.config.Addr).Info("Starting query API server")

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Server failed to start")
		}
	}()

	return nil
}

// Stop gracefully shuts down the API server
func (s *service) Stop() error {
	if s.server == nil {
		return nil
	}

	s.log.Info("Stopping query API server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

var _ Service = (*service)(nil)
