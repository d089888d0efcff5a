// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/varkeep/varkeep/internal/config"
	"github.com/varkeep/varkeep/internal/container"
	"github.com/varkeep/varkeep/internal/database"
	recordsRepository "github.com/varkeep/varkeep/internal/records/repository"
	recordsUsecase "github.com/varkeep/varkeep/internal/records/usecase"
	vaultDomain "github.com/varkeep/varkeep/internal/vault/domain"
	vaultRepository "github.com/varkeep/varkeep/internal/vault/repository"
	vaultService "github.com/varkeep/varkeep/internal/vault/service"
	vaultUsecase "github.com/varkeep/varkeep/internal/vault/usecase"
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

	// Vault components
	resolver    container.Resolver
	keyManager  *vaultService.KeyManagerService
	aeadManager *vaultService.AEADManagerService
	sharedStore *vaultRepository.SharedStore
	enclave     *vaultRepository.KeyringBackend

	// Use Cases
	vaultUseCase     *vaultUsecase.VaultUseCase
	migrationUseCase *vaultUsecase.MigrationUseCase
	recordUseCase    recordsUsecase.RecordUseCase

	// Initialization flags and mutex for thread-safety
	mu                   sync.Mutex
	loggerInit           sync.Once
	dbInit               sync.Once
	txManagerInit        sync.Once
	resolverInit         sync.Once
	keyManagerInit       sync.Once
	aeadManagerInit      sync.Once
	sharedStoreInit      sync.Once
	enclaveInit          sync.Once
	vaultUseCaseInit     sync.Once
	migrationUseCaseInit sync.Once
	recordUseCaseInit    sync.Once
	initErrors           map[string]error
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

// DB returns the record database connection with migrations applied.
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
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = fmt.Errorf("failed to get database for tx manager: %w", err)
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// ContainerResolver returns the shared-container resolver.
func (c *Container) ContainerResolver() container.Resolver {
	c.resolverInit.Do(func() {
		c.resolver = container.NewDirResolver(c.config.ContainerDir)
	})
	return c.resolver
}

// KeyManager returns the vault key manager.
func (c *Container) KeyManager() *vaultService.KeyManagerService {
	c.keyManagerInit.Do(func() {
		c.keyManager = vaultService.NewKeyManager(c.ContainerResolver())
	})
	return c.keyManager
}

// AEADManager returns the cipher factory.
func (c *Container) AEADManager() *vaultService.AEADManagerService {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = vaultService.NewAEADManager()
	})
	return c.aeadManager
}

// SharedStore returns the shared encrypted store.
func (c *Container) SharedStore() (*vaultRepository.SharedStore, error) {
	c.sharedStoreInit.Do(func() {
		algorithm, err := vaultDomain.ParseAlgorithm(c.config.VaultAlgorithm)
		if err != nil {
			c.initErrors["sharedStore"] = fmt.Errorf("invalid vault algorithm: %w", err)
			return
		}
		c.sharedStore = vaultRepository.NewSharedStore(
			c.ContainerResolver(),
			c.KeyManager(),
			c.AEADManager(),
			algorithm,
		)
	})
	if storedErr, exists := c.initErrors["sharedStore"]; exists {
		return nil, storedErr
	}
	return c.sharedStore, nil
}

// EnclaveBackend returns the platform secure item store.
func (c *Container) EnclaveBackend() *vaultRepository.KeyringBackend {
	c.enclaveInit.Do(func() {
		c.enclave = vaultRepository.NewKeyringBackend(c.config.ServiceName)
	})
	return c.enclave
}

// VaultUseCase returns the dual-backend vault façade.
func (c *Container) VaultUseCase() (*vaultUsecase.VaultUseCase, error) {
	c.vaultUseCaseInit.Do(func() {
		sharedStore, err := c.SharedStore()
		if err != nil {
			c.initErrors["vaultUseCase"] = fmt.Errorf("failed to get shared store for vault use case: %w", err)
			return
		}
		c.vaultUseCase = vaultUsecase.NewVaultUseCase(c.EnclaveBackend(), sharedStore, c.Logger())
	})
	if storedErr, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.vaultUseCase, nil
}

// MigrationUseCase returns the vault migration coordinator.
func (c *Container) MigrationUseCase() (*vaultUsecase.MigrationUseCase, error) {
	c.migrationUseCaseInit.Do(func() {
		sharedStore, err := c.SharedStore()
		if err != nil {
			c.initErrors["migrationUseCase"] = fmt.Errorf("failed to get shared store for migration use case: %w", err)
			return
		}
		c.migrationUseCase = vaultUsecase.NewMigrationUseCase(
			c.EnclaveBackend(),
			sharedStore,
			c.KeyManager(),
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["migrationUseCase"]; exists {
		return nil, storedErr
	}
	return c.migrationUseCase, nil
}

// RecordUseCase returns the record management use case.
func (c *Container) RecordUseCase() (recordsUsecase.RecordUseCase, error) {
	c.recordUseCaseInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["recordUseCase"] = fmt.Errorf("failed to get database for record use case: %w", err)
			return
		}
		txManager, err := c.TxManager()
		if err != nil {
			c.initErrors["recordUseCase"] = fmt.Errorf("failed to get tx manager for record use case: %w", err)
			return
		}
		vault, err := c.VaultUseCase()
		if err != nil {
			c.initErrors["recordUseCase"] = fmt.Errorf("failed to get vault for record use case: %w", err)
			return
		}

		c.recordUseCase = recordsUsecase.NewRecordUseCase(
			txManager,
			recordsRepository.NewProjectRepository(db),
			recordsRepository.NewEnvironmentRepository(db),
			recordsRepository.NewVariableRepository(db),
			vault,
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["recordUseCase"]; exists {
		return nil, storedErr
	}
	return c.recordUseCase, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("database close: %w", err)
		}
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

	// Logs go to stderr so command output stays machine-readable on stdout.
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB opens the record database and applies pending migrations.
func (c *Container) initDB() (*sql.DB, error) {
	if dir := filepath.Dir(c.config.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := database.Connect("file:" + c.config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
