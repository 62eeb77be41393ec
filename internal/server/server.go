// Package server exposes the import normalizer and wizard checks over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sourceplane/imagewizard/internal/history"
	"github.com/sourceplane/imagewizard/internal/loader"
	"github.com/sourceplane/imagewizard/internal/logging"
	"github.com/sourceplane/imagewizard/internal/normalize"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// HistoryStore is the part of history.Store the server needs
type HistoryStore interface {
	Add(ctx context.Context, rec *history.Record) error
	List(ctx context.Context, limit int) ([]*history.Record, error)
	Get(ctx context.Context, id string) (*history.Record, error)
}

// Config controls the HTTP server
type Config struct {
	Addr         string
	MaxFileSize  int64
	Development  bool
	AllowOrigins []string // CORS is off when empty
}

// Server serves the imagewizard API
type Server struct {
	router *gin.Engine
	cfg    Config
	logger *logging.Logger
}

// New builds the router. store may be nil to disable import history.
func New(cfg Config, normalizer *normalize.Normalizer, store HistoryStore, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = loader.MaxImportFileSize
	}
	if normalizer == nil {
		normalizer = normalize.NewNormalizer(nil)
	}

	if !cfg.Development && gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	if len(cfg.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", "Content-Length", "Accept", "Origin"},
			MaxAge:       12 * time.Hour,
		}))
	}

	h := NewHandlers(normalizer, store, cfg.MaxFileSize, logger)

	router.GET("/health", h.Health)

	api := router.Group("/api/v1")
	api.POST("/blueprints/import", h.ImportBlueprint)
	api.POST("/wizard/steps", h.Steps)
	api.POST("/wizard/review", h.Review)
	api.POST("/wizard/validate", h.Validate)
	api.GET("/imports", h.ListImports)
	api.GET("/imports/:id", h.GetImport)

	return &Server{router: router, cfg: cfg, logger: logger}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve on %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func requestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
