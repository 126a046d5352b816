// Package server exposes the shopping list over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Veraticus/grocer/internal/common"
	"github.com/Veraticus/grocer/internal/model"
	"github.com/Veraticus/grocer/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the HTTP server.
type Config struct {
	Addr           string
	AllowedOrigins []string
}

// Server serves one shopping list. Every mutation is written through to
// storage before the response is sent.
type Server struct {
	list    *model.ShoppingList
	storage service.Storage
	metrics *Metrics
	logger  *slog.Logger
	engine  *gin.Engine
	config  Config
	mu      sync.RWMutex
}

// New builds a server around list. list must be what storage last loaded.
func New(list *model.ShoppingList, storage service.Storage, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	s := &Server{
		list:    list,
		storage: storage,
		metrics: NewMetrics(),
		logger:  logger,
		config:  cfg,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.observe())

	origins := s.config.AllowedOrigins
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	api := r.Group("/api")
	api.GET("/ingredients", s.listIngredients)
	api.GET("/ingredients/:name", s.getIngredient)
	api.POST("/ingredients", s.addIngredient)
	api.GET("/recipes", s.listRecipes)
	api.GET("/recipes/:name", s.getRecipe)
	api.DELETE("/recipes/:name", s.deleteRecipe)
	api.POST("/convert", s.convert)
	api.GET("/shopping-list.txt", s.renderText)

	return r
}

// observe counts and logs every request by its route pattern.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		s.metrics.observeRequest(c.Request.Method, c.FullPath(), status)
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start))
	}
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	}
}

// errorStatus maps domain errors to HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrUnknownUnit):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrTypeMismatch), errors.Is(err, model.ErrNameMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// conversionErrorKind labels the conversion error counter.
func conversionErrorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrUnknownUnit):
		return "unknown_unit"
	case errors.Is(err, model.ErrTypeMismatch):
		return "type_mismatch"
	default:
		return "other"
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
