// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	attachmentHTTP "github.com/allisson/mediavault/internal/attachment/http"
	attachmentUsecase "github.com/allisson/mediavault/internal/attachment/usecase"
	"github.com/allisson/mediavault/internal/config"
	credentialsHTTP "github.com/allisson/mediavault/internal/credentials/http"
	credentialsRepository "github.com/allisson/mediavault/internal/credentials/repository"
	credentialsUsecase "github.com/allisson/mediavault/internal/credentials/usecase"
	"github.com/allisson/mediavault/internal/database"
	appHTTP "github.com/allisson/mediavault/internal/http"
	keysService "github.com/allisson/mediavault/internal/keys/service"
	"github.com/allisson/mediavault/internal/metrics"
)

// Container holds all application dependencies and provides methods to access
// them. It follows the lazy initialization pattern - components are created on
// first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	backupMetrics   metrics.BackupMetrics

	// Keys
	rootKeyRepo       keysService.RootKeyRepository
	keyKeeper         keysService.KeyKeeper
	rootKeyService    *keysService.RootKeyService
	derivationService *keysService.DerivationService

	// Credentials
	credentialCache   *credentialsRepository.Cache
	backupClient      credentialsUsecase.BackupServiceClient
	credentialManager *credentialsUsecase.Manager

	// Attachments
	attachmentRepo    attachmentUsecase.AttachmentRepository
	downloadQueueRepo attachmentUsecase.DownloadQueueRepository
	attachmentService *attachmentUsecase.AttachmentService

	// HTTP handlers
	attachmentHandler *attachmentHTTP.AttachmentHandler
	backupInfoHandler *credentialsHTTP.BackupInfoHandler

	// Servers
	httpServer    *appHTTP.Server
	metricsServer *appHTTP.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	dbInit                sync.Once
	txManagerInit         sync.Once
	metricsProviderInit   sync.Once
	backupMetricsInit     sync.Once
	rootKeyRepoInit       sync.Once
	keyKeeperInit         sync.Once
	rootKeyServiceInit    sync.Once
	derivationServiceInit sync.Once
	credentialCacheInit   sync.Once
	backupClientInit      sync.Once
	credentialManagerInit sync.Once
	attachmentRepoInit    sync.Once
	downloadQueueRepoInit sync.Once
	attachmentServiceInit sync.Once
	attachmentHandlerInit sync.Once
	backupInfoHandlerInit sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided
// configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are
// disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BackupMetrics returns the backup metrics recorder. A no-op recorder is
// returned when metrics are disabled.
func (c *Container) BackupMetrics() (metrics.BackupMetrics, error) {
	var err error
	c.backupMetricsInit.Do(func() {
		c.backupMetrics, err = c.initBackupMetrics()
		if err != nil {
			c.initErrors["backupMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["backupMetrics"]; exists {
		return nil, storedErr
	}
	return c.backupMetrics, nil
}

// HTTPServer returns the status HTTP server instance.
func (c *Container) HTTPServer() (*appHTTP.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance, or nil when metrics are
// disabled.
func (c *Container) MetricsServer() (*appHTTP.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.keyKeeper != nil {
		if err := c.keyKeeper.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("key keeper close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initBackupMetrics creates the backup metrics recorder.
func (c *Container) initBackupMetrics() (metrics.BackupMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for backup metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBackupMetrics(), nil
	}
	return metrics.NewBackupMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

// initHTTPServer creates the status HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*appHTTP.Server, error) {
	logger := c.Logger()

	attachmentHandler, err := c.AttachmentHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment handler for http server: %w", err)
	}

	backupInfoHandler, err := c.BackupInfoHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get backup info handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	if provider == nil {
		return appHTTP.NewServer(c.config, logger, attachmentHandler, backupInfoHandler, nil), nil
	}
	return appHTTP.NewServer(c.config, logger, attachmentHandler, backupInfoHandler, provider.MeterProvider()), nil
}

// initMetricsServer creates the metrics server. Returns nil when metrics are
// disabled.
func (c *Container) initMetricsServer() (*appHTTP.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return appHTTP.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}
