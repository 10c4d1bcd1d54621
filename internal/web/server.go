// Package web serves the form UI, the JSON API and the ops endpoints.
package web

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"application-tracker/internal/actions"
	"application-tracker/internal/common/config"
	apperrors "application-tracker/internal/common/errors"
	"application-tracker/internal/common/logger"
	"application-tracker/internal/common/observability"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	app      *fiber.App
	registry *actions.Registry
	obs      *observability.Observability
	errors   *apperrors.ErrorHandler
	pages    *pageRenderer
	logger   logger.Logger
}

// NewServer builds the fiber app with all routes. obs may be nil.
func NewServer(cfg config.ServerConfig, registry *actions.Registry, obs *observability.Observability, log logger.Logger) *Server {
	l := log.WithFields(map[string]interface{}{"component": "web"})
	s := &Server{
		registry: registry,
		obs:      obs,
		errors:   apperrors.NewErrorHandler(l),
		pages:    newPageRenderer(),
		logger:   l,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "application-tracker",
		DisableStartupMessage: true,
		ReadTimeout:           config.GetDuration(cfg.ReadTimeout),
		WriteTimeout:          config.GetDuration(cfg.WriteTimeout),
		ErrorHandler:          s.handleFiberError,
	})

	s.app.Use(requestID)
	s.app.Use(s.observe)
	s.app.Use(recover.New(recover.Config{EnableStackTrace: true}))

	s.routes()
	return s
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("http server listening", map[string]interface{}{"address": addr})
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)
	s.app.Get("/ready", s.ready)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	s.app.Get("/", s.listPage)
	s.app.Get("/applications/new", s.newPage)
	s.app.Post("/applications", s.createPage)
	s.app.Get("/applications/:id/edit", s.editPage)
	s.app.Post("/applications/:id", s.updatePage)
	s.app.Get("/report", s.reportPage)
	s.app.Get("/export.xlsx", s.exportFile)

	api := s.app.Group("/api")
	api.Get("/applications", s.apiList)
	api.Post("/applications", s.apiCreate)
	api.Get("/applications/:id", s.apiGet)
	api.Put("/applications/:id", s.apiReplace)
	api.Patch("/applications/:id/status", s.apiChangeStatus)
	api.Get("/report", s.apiReport)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) ready(c *fiber.Ctx) error {
	if err := s.registry.Store.Ping(c.UserContext()); err != nil {
		s.logger.Warn("readiness check failed", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// requestID propagates or assigns X-Request-ID.
func requestID(c *fiber.Ctx) error {
	id := c.Get(requestIDHeader)
	if id == "" {
		id = uuid.New().String()
	}
	c.Set(requestIDHeader, id)
	c.Locals("requestId", id)
	return c.Next()
}

// observe logs every request and records it in the request metrics.
func (s *Server) observe(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	if err != nil {
		// let the error handler set the final status before it is recorded
		if herr := s.handleFiberError(c, err); herr != nil {
			c.Status(fiber.StatusInternalServerError)
		}
		err = nil
	}

	duration := time.Since(start)
	status := c.Response().StatusCode()
	route := c.Route().Path

	s.obs.RecordRequest(c.UserContext(), route, c.Method(), status, duration)
	s.logger.Info("http request", map[string]interface{}{
		"requestId":  c.Locals("requestId"),
		"method":     c.Method(),
		"path":       c.Path(),
		"route":      route,
		"status":     status,
		"durationMs": duration.Milliseconds(),
	})
	return err
}

func (s *Server) handleFiberError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		message = fe.Message
	} else {
		s.logger.Error("unhandled request error", map[string]interface{}{"error": err, "path": c.Path()})
	}

	if isAPI(c) {
		return jsonStatus(c, status, statusCode(status), message)
	}
	return s.pages.renderError(c, status, message)
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

func statusCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}
