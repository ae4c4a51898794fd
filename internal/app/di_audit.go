package app

import (
	"fmt"

	auditHTTP "github.com/allisson/vault/internal/audit/http"
	auditRepository "github.com/allisson/vault/internal/audit/repository"
	auditService "github.com/allisson/vault/internal/audit/service"
	auditUseCase "github.com/allisson/vault/internal/audit/usecase"
)

// auditLogPurpose is the HKDF info string for the audit log signing key.
const auditLogPurpose = "audit-log-signing-v1"

// AuditLogRepository returns the audit log repository based on database driver.
func (c *Container) AuditLogRepository() (auditUseCase.AuditLogRepository, error) {
	c.auditLogRepoInit.Do(func() {
		auditLogRepo, err := c.initAuditLogRepository()
		if err != nil {
			c.initErrors["auditLogRepo"] = err
			return
		}
		c.auditLogRepo = auditLogRepo
	})
	if storedErr, exists := c.initErrors["auditLogRepo"]; exists {
		return nil, storedErr
	}
	return c.auditLogRepo, nil
}

// AuditSigner returns the audit log signer service.
func (c *Container) AuditSigner() auditService.Signer {
	c.auditSignerInit.Do(func() {
		c.auditSigner = auditService.NewAuditSigner()
	})
	return c.auditSigner
}

// AuditLogUseCase returns the audit log use case.
func (c *Container) AuditLogUseCase() (auditUseCase.AuditLogUseCase, error) {
	c.auditLogUseCaseInit.Do(func() {
		useCase, err := c.initAuditLogUseCase()
		if err != nil {
			c.initErrors["auditLogUseCase"] = err
			return
		}
		c.auditLogUseCase = useCase
	})
	if storedErr, exists := c.initErrors["auditLogUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditLogUseCase, nil
}

// AuditLogHandler returns the HTTP handler for audit log operations.
func (c *Container) AuditLogHandler() (*auditHTTP.AuditLogHandler, error) {
	c.auditLogHandlerInit.Do(func() {
		useCase, err := c.AuditLogUseCase()
		if err != nil {
			c.initErrors["auditLogHandler"] = fmt.Errorf("failed to get audit log use case for audit log handler: %w", err)
			return
		}
		c.auditLogHandler = auditHTTP.NewAuditLogHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["auditLogHandler"]; exists {
		return nil, storedErr
	}
	return c.auditLogHandler, nil
}

// initAuditLogRepository creates the audit log repository based on the database driver.
func (c *Container) initAuditLogRepository() (auditUseCase.AuditLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit log repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return auditRepository.NewPostgreSQLAuditLogRepository(db), nil
	case "mysql":
		return auditRepository.NewMySQLAuditLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAuditLogUseCase creates the audit log use case with a purpose-derived
// signing key.
func (c *Container) initAuditLogUseCase() (auditUseCase.AuditLogUseCase, error) {
	auditLogRepo, err := c.AuditLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log repository for audit log use case: %w", err)
	}

	keyRing, err := c.KeyRing()
	if err != nil {
		return nil, fmt.Errorf("failed to get key ring for audit log use case: %w", err)
	}

	signingKey, err := keyRing.DeriveSigningKey(auditLogPurpose)
	if err != nil {
		return nil, fmt.Errorf("failed to derive audit log signing key: %w", err)
	}

	baseUseCase := auditUseCase.NewAuditLogUseCase(auditLogRepo, c.AuditSigner(), signingKey)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for audit log use case: %w", err)
		}
		return auditUseCase.NewAuditLogUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
