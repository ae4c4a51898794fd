package app

import (
	"context"
	"fmt"

	vaultHTTP "github.com/allisson/vault/internal/vault/http"
	vaultRepository "github.com/allisson/vault/internal/vault/repository"
	vaultService "github.com/allisson/vault/internal/vault/service"
	vaultUseCase "github.com/allisson/vault/internal/vault/usecase"
)

// shareTokenPurpose is the HKDF info string for the share token signing key.
const shareTokenPurpose = "share-token-signing-v1"

// ObjectRepository returns the object catalog repository based on database driver.
func (c *Container) ObjectRepository() (vaultUseCase.ObjectRepository, error) {
	c.objectRepoInit.Do(func() {
		objectRepo, err := c.initObjectRepository()
		if err != nil {
			c.initErrors["objectRepo"] = err
			return
		}
		c.objectRepo = objectRepo
	})
	if storedErr, exists := c.initErrors["objectRepo"]; exists {
		return nil, storedErr
	}
	return c.objectRepo, nil
}

// BlobStore returns the blob store for encrypted payloads.
func (c *Container) BlobStore() (*vaultService.BlobStore, error) {
	c.blobStoreInit.Do(func() {
		blobStore, err := vaultService.OpenBlobStore(context.Background(), c.config.BlobBucketURL)
		if err != nil {
			c.initErrors["blobStore"] = fmt.Errorf("failed to open blob store: %w", err)
			return
		}
		c.blobStore = blobStore
	})
	if storedErr, exists := c.initErrors["blobStore"]; exists {
		return nil, storedErr
	}
	return c.blobStore, nil
}

// ShareTokenService returns the JWT share token service.
func (c *Container) ShareTokenService() (vaultService.ShareTokenService, error) {
	c.shareTokenServiceInit.Do(func() {
		shareTokenService, err := c.initShareTokenService()
		if err != nil {
			c.initErrors["shareTokenService"] = err
			return
		}
		c.shareTokenService = shareTokenService
	})
	if storedErr, exists := c.initErrors["shareTokenService"]; exists {
		return nil, storedErr
	}
	return c.shareTokenService, nil
}

// VaultUseCase returns the vault use case.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	c.vaultUseCaseInit.Do(func() {
		useCase, err := c.initVaultUseCase()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
			return
		}
		c.vaultUseCase = useCase
	})
	if storedErr, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.vaultUseCase, nil
}

// ObjectHandler returns the HTTP handler for object operations.
func (c *Container) ObjectHandler() (*vaultHTTP.ObjectHandler, error) {
	c.objectHandlerInit.Do(func() {
		useCase, err := c.VaultUseCase()
		if err != nil {
			c.initErrors["objectHandler"] = fmt.Errorf("failed to get vault use case for object handler: %w", err)
			return
		}
		c.objectHandler = vaultHTTP.NewObjectHandler(useCase, c.config.MaxUploadSizeBytes, c.Logger())
	})
	if storedErr, exists := c.initErrors["objectHandler"]; exists {
		return nil, storedErr
	}
	return c.objectHandler, nil
}

// initObjectRepository creates the object repository based on the database driver.
func (c *Container) initObjectRepository() (vaultUseCase.ObjectRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for object repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return vaultRepository.NewPostgreSQLObjectRepository(db), nil
	case "mysql":
		return vaultRepository.NewMySQLObjectRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initShareTokenService creates the share token service with a purpose-derived
// signing key.
func (c *Container) initShareTokenService() (vaultService.ShareTokenService, error) {
	keyRing, err := c.KeyRing()
	if err != nil {
		return nil, fmt.Errorf("failed to get key ring for share token service: %w", err)
	}

	signingKey, err := keyRing.DeriveSigningKey(shareTokenPurpose)
	if err != nil {
		return nil, fmt.Errorf("failed to derive share token signing key: %w", err)
	}

	return vaultService.NewJWTShareTokenService(signingKey), nil
}

// initVaultUseCase creates the vault use case with all its dependencies.
func (c *Container) initVaultUseCase() (vaultUseCase.VaultUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for vault use case: %w", err)
	}

	objectRepo, err := c.ObjectRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get object repository for vault use case: %w", err)
	}

	blobStore, err := c.BlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob store for vault use case: %w", err)
	}

	engine, err := c.Engine()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto engine for vault use case: %w", err)
	}

	shareTokenService, err := c.ShareTokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get share token service for vault use case: %w", err)
	}

	auditLogUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for vault use case: %w", err)
	}

	baseUseCase := vaultUseCase.NewVaultUseCase(
		txManager,
		objectRepo,
		blobStore,
		engine,
		shareTokenService,
		auditLogUseCase,
		c.Logger(),
		c.config.StorageKeyMaxAttempts,
		c.config.ShareTokenDefaultTTL,
		c.config.ShareTokenMaxTTL,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for vault use case: %w", err)
		}
		return vaultUseCase.NewVaultUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
