// Package http assembles the status HTTP server: health checks, attachment
// state queries and backup info endpoints.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	attachmentHTTP "github.com/allisson/mediavault/internal/attachment/http"
	"github.com/allisson/mediavault/internal/config"
	credentialsHTTP "github.com/allisson/mediavault/internal/credentials/http"
	"github.com/allisson/mediavault/internal/metrics"
)

// Server is the status HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the status server with its routes and middleware.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	attachmentHandler *attachmentHTTP.AttachmentHandler,
	backupInfoHandler *credentialsHTTP.BackupInfoHandler,
	meterProvider metric.MeterProvider,
) *Server {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	if cfg.RateLimitEnabled {
		router.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := router.Group("/v1")
	{
		v1.GET("/attachments/:id", attachmentHandler.GetHandler)
		v1.GET("/attachments/:id/upload-strategy", attachmentHandler.UploadStrategyHandler)
		v1.GET("/attachments/:id/download-state", attachmentHandler.DownloadStateHandler)
		v1.POST("/attachments/:id/downloads", attachmentHandler.EnqueueDownloadHandler)
		v1.DELETE("/attachments/:id/downloads", attachmentHandler.CancelDownloadHandler)

		v1.GET("/backup-info/:purpose", backupInfoHandler.GetHandler)
		v1.DELETE("/credentials", backupInfoHandler.WipeHandler)
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the status server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the status server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
