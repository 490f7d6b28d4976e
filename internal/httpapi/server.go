// Package httpapi exposes the assessment service over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"kodex/internal/assess"
	"kodex/internal/core"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	shutdownTimeout = 10 * time.Second
)

// Server routes HTTP requests to an assess.Service.
type Server struct {
	svc    *assess.Service
	logger core.Logger
	router *gin.Engine
}

// NewServer creates a server with every route registered.
func NewServer(svc *assess.Service, logger core.Logger) *Server {
	if logger == nil {
		logger = core.NopLogger()
	}
	s := &Server{
		svc:    svc,
		logger: logger,
		router: gin.New(),
	}
	s.router.Use(gin.Recovery(), s.observe())
	s.registerRoutes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// registerRoutes wires the API:
//
//	GET  /api/health
//	GET  /api/questions
//	GET  /api/settings
//	POST /api/classify
//	POST /api/estimate
//	POST /api/assessments
//	GET  /api/projects
//	GET  /api/projects/:project/assessments
//	GET  /api/projects/:project/assessments/:version   (:version may be "latest")
//	POST /api/projects/:project/assessments/:version/duplicate
//	GET  /metrics
func (s *Server) registerRoutes() {
	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/questions", s.handleQuestions)
	api.GET("/settings", s.handleSettings)
	api.POST("/classify", s.handleClassify)
	api.POST("/estimate", s.handleEstimate)
	api.POST("/assessments", s.handleAssess)

	projects := api.Group("/projects")
	projects.GET("", s.handleProjects)
	projects.GET("/:project/assessments", s.handleHistory)
	projects.GET("/:project/assessments/:version", s.handleGetAssessment)
	projects.POST("/:project/assessments/:version/duplicate", s.handleDuplicate)

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// observe tags each request with an ID, records its latency and logs it.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id, _ = gonanoid.New(12)
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		requestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(elapsed.Seconds())

		s.logger.Debug("request handled",
			"request_id", id,
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", elapsed.Milliseconds())
	}
}

// requestLogger returns a logger tagged with the request ID and handler.
func (s *Server) requestLogger(c *gin.Context, handler string) core.Logger {
	return s.logger.With(requestIDKey, c.GetString(requestIDKey), "handler", handler)
}

// writeError maps service errors onto status codes.
func writeError(c *gin.Context, logger core.Logger, err error) {
	var (
		validationErr *core.ValidationError
		notFoundErr   *core.NotFoundError
		lockErr       *core.LockError
	)

	switch {
	case errors.As(err, &validationErr):
		logger.Warn("rejected request", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "NOT_FOUND"})
	case errors.As(err, &lockErr):
		logger.Warn("project busy", "error", err)
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "PROJECT_LOCKED"})
	default:
		logger.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: "INTERNAL"})
	}
}
