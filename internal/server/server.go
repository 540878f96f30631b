// Package server exposes the ranking and bootstrap operations over an HTTP
// API so external collaborators can consume the core without sharing a
// process with it.
package server

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/hepalab/aucrank/internal/analysis"
	"github.com/hepalab/aucrank/internal/config"
)

// NewServer creates the API server. A nil config falls back to defaults.
func NewServer(cfg *config.ServerEnvConfig) *Server {
	if cfg == nil {
		cfg = &config.ServerEnvConfig{
			Address:       DefaultServerHost,
			Port:          DefaultServerPort,
			BodySizeLimit: DefaultBodyLimit,
		}
	}
	if cfg.BodySizeLimit <= 0 {
		cfg.BodySizeLimit = DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		Prefork:      false,
		ErrorHandler: fiberErrHandler,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		BodyLimit:    cfg.BodySizeLimit,
	})

	app.Use(recover.New()) // add panic recovery
	app.Use(compress.New())

	s := &Server{App: app, cfg: cfg}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.App.Get("/health", s.handleHealth)

	v1 := s.App.Group("/v1")
	v1.Post("/rank", s.handleRank)
	v1.Post("/bootstrap", s.handleBootstrap)
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Address, s.cfg.Port)
	log.Info().Str("addr", addr).Msg("starting API server")
	return s.App.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}

func fiberErrHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	log.Error().
		Err(err).
		Int("status_code", code).
		Str("path", ctx.Path()).
		Str("method", ctx.Method()).
		Msg("Fiber error handler triggered")

	return ctx.Status(code).JSON(createResponse(struct{}{}, err))
}

// statusFor maps the core's error kinds onto HTTP status codes: contract
// violations are the caller's fault, degenerate results are well-formed but
// unprocessable.
func statusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, analysis.ErrDegenerateResult):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// createResponse creates a StdResponse with the given body and error
func createResponse[T any](body T, err error) StdResponse[T] {
	if err != nil {
		errMsg := err.Error()
		return StdResponse[T]{Body: body, Error: &errMsg}
	}
	return StdResponse[T]{Body: body}
}
