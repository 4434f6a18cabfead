package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"transcripttext/internal/config"
)

// Server serves transcript documents over HTTP so conversion jobs can fetch
// them from a stable local endpoint.
type Server struct {
	config     *config.Configuration
	logger     *zap.Logger
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer creates a new document server with the given configuration
func NewServer(cfg *config.Configuration) *Server {
	return NewServerWithLogger(cfg, zap.NewNop()) // Default no-op logger
}

// NewServerWithLogger creates a new document server with structured logging support
func NewServerWithLogger(cfg *config.Configuration, logger *zap.Logger) *Server {
	s := &Server{
		config: cfg,
		logger: logger,
	}

	s.router = s.setupRouter()
	s.httpServer = &http.Server{
		Addr:    cfg.GetServerListenAddr(),
		Handler: s.router,
	}

	return s
}

// setupRouter builds the gin engine with middleware and routes
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogger(s.logger))
	router.Use(gin.Recovery())

	router.GET("/health", s.handleHealth)

	documents := router.Group("/output")
	token := s.config.GetServerToken()
	if token == "" {
		s.logger.Warn("server token not configured, serving documents without authentication")
	} else {
		documents.Use(BearerAuth(token, s.logger))
	}
	documents.GET("/*document", s.handleDocument)

	return router
}

// handleHealth reports server liveness
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "transcripttext",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// handleDocument serves a transcript JSON document from the data directory
func (s *Server) handleDocument(c *gin.Context) {
	document := strings.TrimPrefix(c.Param("document"), "/")
	if document == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	// Reject any path that would escape the data directory
	cleaned := filepath.Clean(document)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") || filepath.IsAbs(cleaned) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document path"})
		return
	}

	if filepath.Ext(cleaned) != ".json" {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	fullPath := filepath.Join(s.config.GetServerDataDir(), cleaned)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		s.logger.Error("failed to read document",
			zap.String("document", cleaned),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read document"})
		return
	}

	s.logger.Info("serving document",
		zap.String("request_id", c.GetString("request_id")),
		zap.String("document", cleaned),
		zap.Int("bytes", len(data)))

	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// Router exposes the request handler so callers can mount or test it directly
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until it is shut down
func (s *Server) Start() error {
	s.logger.Info("starting transcript document server",
		zap.String("listen_addr", s.httpServer.Addr),
		zap.String("data_dir", s.config.GetServerDataDir()))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("document server error: %w", err)
	}

	return nil
}

// Shutdown stops the HTTP server, waiting for in-flight requests to finish
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("stopping transcript document server")
	return s.httpServer.Shutdown(ctx)
}
