// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	auditHTTP "github.com/allisson/vault/internal/audit/http"
	auditService "github.com/allisson/vault/internal/audit/service"
	auditUseCase "github.com/allisson/vault/internal/audit/usecase"
	"github.com/allisson/vault/internal/config"
	cryptoService "github.com/allisson/vault/internal/crypto/service"
	"github.com/allisson/vault/internal/database"
	"github.com/allisson/vault/internal/http"
	"github.com/allisson/vault/internal/metrics"
	vaultHTTP "github.com/allisson/vault/internal/vault/http"
	vaultService "github.com/allisson/vault/internal/vault/service"
	vaultUseCase "github.com/allisson/vault/internal/vault/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	txManager database.TxManager

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Crypto
	keyRing *cryptoService.KeyRing
	engine  cryptoService.Engine

	// Vault
	objectRepo        vaultUseCase.ObjectRepository
	blobStore         *vaultService.BlobStore
	shareTokenService vaultService.ShareTokenService
	vaultUseCase      vaultUseCase.VaultUseCase
	objectHandler     *vaultHTTP.ObjectHandler

	// Audit
	auditLogRepo    auditUseCase.AuditLogRepository
	auditSigner     auditService.Signer
	auditLogUseCase auditUseCase.AuditLogUseCase
	auditLogHandler *auditHTTP.AuditLogHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	dbInit                sync.Once
	txManagerInit         sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	keyRingInit           sync.Once
	engineInit            sync.Once
	objectRepoInit        sync.Once
	blobStoreInit         sync.Once
	shareTokenServiceInit sync.Once
	vaultUseCaseInit      sync.Once
	objectHandlerInit     sync.Once
	auditLogRepoInit      sync.Once
	auditSignerInit       sync.Once
	auditLogUseCaseInit   sync.Once
	auditLogHandlerInit   sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
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
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		txManager, err := c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
			return
		}
		c.txManager = txManager
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider instance.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = fmt.Errorf("failed to create metrics provider: %w", err)
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. When metrics are
// disabled a no-op implementation is returned.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		if !c.config.MetricsEnabled {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}

		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}

		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = fmt.Errorf("failed to create business metrics: %w", err)
			return
		}
		c.businessMetrics = businessMetrics
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the HTTP server instance with all routes registered.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server instance. Returns nil when
// metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}

		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}

		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
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

	// Both servers drain within the same deadline
	group, groupCtx := errgroup.WithContext(ctx)
	if c.httpServer != nil {
		group.Go(func() error {
			if err := c.httpServer.Shutdown(groupCtx); err != nil {
				return fmt.Errorf("http server shutdown: %w", err)
			}
			return nil
		})
	}
	if c.metricsServer != nil {
		group.Go(func() error {
			if err := c.metricsServer.Shutdown(groupCtx); err != nil {
				return fmt.Errorf("metrics server shutdown: %w", err)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		shutdownErrors = append(shutdownErrors, err)
	}

	// Shutdown metrics provider if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close blob store if initialized
	if c.blobStore != nil {
		if err := c.blobStore.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("blob store close: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
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

// initHTTPServer creates the HTTP server and registers the API routes.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	objectHandler, err := c.ObjectHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get object handler for http server: %w", err)
	}

	auditLogHandler, err := c.AuditLogHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log handler for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)

	if corsMiddleware := http.CORSMiddleware(c.config.CORSEnabled, c.config.CORSAllowOrigins, logger); corsMiddleware != nil {
		server.Use(corsMiddleware)
	}

	router := server.Router()
	v1 := router.Group("/v1")

	// Anonymous shared downloads: the token is the only credential
	shared := v1.Group("/shared")
	if c.config.RateLimitSharedEnabled {
		shared.Use(vaultHTTP.SharedRateLimitMiddleware(
			c.config.RateLimitSharedRequestsPerSec,
			c.config.RateLimitSharedBurst,
			logger,
		))
	}
	shared.GET("/:token", objectHandler.SharedDownloadHandler)

	// Identified routes
	identified := v1.Group("")
	identified.Use(vaultHTTP.IdentityMiddleware(logger))
	if c.config.RateLimitEnabled {
		identified.Use(vaultHTTP.RateLimitMiddleware(
			c.config.RateLimitRequestsPerSec,
			c.config.RateLimitBurst,
			logger,
		))
	}
	identified.POST("/objects", objectHandler.UploadHandler)
	identified.GET("/objects", objectHandler.ListHandler)
	identified.GET("/objects/:id", objectHandler.DownloadHandler)
	identified.DELETE("/objects/:id", objectHandler.DeleteHandler)
	identified.POST("/objects/:id/share", objectHandler.ShareHandler)
	identified.GET("/audit-logs", auditLogHandler.ListHandler)

	return server, nil
}
