package app

import (
	"fmt"

	credentialsHTTP "github.com/allisson/mediavault/internal/credentials/http"
	credentialsRepository "github.com/allisson/mediavault/internal/credentials/repository"
	credentialsService "github.com/allisson/mediavault/internal/credentials/service"
	credentialsUsecase "github.com/allisson/mediavault/internal/credentials/usecase"
	"github.com/allisson/mediavault/internal/kvstore"
)

// CredentialCache returns the credential cache backed by the key-value store.
func (c *Container) CredentialCache() (*credentialsRepository.Cache, error) {
	var err error
	c.credentialCacheInit.Do(func() {
		c.credentialCache, err = c.initCredentialCache()
		if err != nil {
			c.initErrors["credentialCache"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialCache"]; exists {
		return nil, storedErr
	}
	return c.credentialCache, nil
}

// BackupClient returns the backup service HTTP client.
func (c *Container) BackupClient() credentialsUsecase.BackupServiceClient {
	c.backupClientInit.Do(func() {
		c.backupClient = credentialsService.NewHTTPBackupClient(c.config.BackupServiceBaseURL, nil)
	})
	return c.backupClient
}

// CredentialManager returns the credential manager.
func (c *Container) CredentialManager() (*credentialsUsecase.Manager, error) {
	var err error
	c.credentialManagerInit.Do(func() {
		c.credentialManager, err = c.initCredentialManager()
		if err != nil {
			c.initErrors["credentialManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialManager"]; exists {
		return nil, storedErr
	}
	return c.credentialManager, nil
}

// BackupInfoHandler returns the HTTP handler for backup info and credential
// maintenance.
func (c *Container) BackupInfoHandler() (*credentialsHTTP.BackupInfoHandler, error) {
	var err error
	c.backupInfoHandlerInit.Do(func() {
		c.backupInfoHandler, err = c.initBackupInfoHandler()
		if err != nil {
			c.initErrors["backupInfoHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["backupInfoHandler"]; exists {
		return nil, storedErr
	}
	return c.backupInfoHandler, nil
}

// initCredentialCache creates the credential cache over a SQL key-value store.
func (c *Container) initCredentialCache() (*credentialsRepository.Cache, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential cache: %w", err)
	}

	store := kvstore.NewSQLStore(db, c.config.DBDriver, nil)
	return credentialsRepository.NewCache(store, c.Logger(), nil), nil
}

// initCredentialManager creates the credential manager with all its dependencies.
func (c *Container) initCredentialManager() (*credentialsUsecase.Manager, error) {
	rootKeyService, err := c.RootKeyService()
	if err != nil {
		return nil, fmt.Errorf("failed to get root key service for credential manager: %w", err)
	}

	cache, err := c.CredentialCache()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential cache for credential manager: %w", err)
	}

	backupMetrics, err := c.BackupMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get backup metrics for credential manager: %w", err)
	}

	return credentialsUsecase.NewManager(
		rootKeyService,
		c.DerivationService(),
		cache,
		c.BackupClient(),
		backupMetrics,
		c.Logger(),
		nil,
		credentialsUsecase.ManagerConfig{
			AccountID:                 c.config.AccountID,
			AppVersion:                c.config.AppVersion,
			CDNReadCredentialLifetime: c.config.CDNReadCredentialLifetime,
			BackupInfoLifetime:        c.config.BackupInfoLifetime,
		},
	), nil
}

// initBackupInfoHandler creates the backup info HTTP handler.
func (c *Container) initBackupInfoHandler() (*credentialsHTTP.BackupInfoHandler, error) {
	manager, err := c.CredentialManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential manager for backup info handler: %w", err)
	}
	return credentialsHTTP.NewBackupInfoHandler(manager, c.Logger()), nil
}
