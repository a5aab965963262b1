package app

import (
	"context"
	"fmt"

	keysRepository "github.com/allisson/mediavault/internal/keys/repository"
	keysService "github.com/allisson/mediavault/internal/keys/service"
)

// RootKeyRepository returns the root key repository based on database driver.
func (c *Container) RootKeyRepository() (keysService.RootKeyRepository, error) {
	var err error
	c.rootKeyRepoInit.Do(func() {
		c.rootKeyRepo, err = c.initRootKeyRepository()
		if err != nil {
			c.initErrors["rootKeyRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rootKeyRepo"]; exists {
		return nil, storedErr
	}
	return c.rootKeyRepo, nil
}

// KeyKeeper returns the KMS keeper used to wrap root keys at rest.
func (c *Container) KeyKeeper() (keysService.KeyKeeper, error) {
	var err error
	c.keyKeeperInit.Do(func() {
		c.keyKeeper, err = c.initKeyKeeper()
		if err != nil {
			c.initErrors["keyKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyKeeper"]; exists {
		return nil, storedErr
	}
	return c.keyKeeper, nil
}

// RootKeyService returns the root key lifecycle service.
func (c *Container) RootKeyService() (*keysService.RootKeyService, error) {
	var err error
	c.rootKeyServiceInit.Do(func() {
		c.rootKeyService, err = c.initRootKeyService()
		if err != nil {
			c.initErrors["rootKeyService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rootKeyService"]; exists {
		return nil, storedErr
	}
	return c.rootKeyService, nil
}

// DerivationService returns the key derivation service.
func (c *Container) DerivationService() *keysService.DerivationService {
	c.derivationServiceInit.Do(func() {
		c.derivationService = keysService.NewDerivationService()
	})
	return c.derivationService
}

// initRootKeyRepository creates the root key repository instance.
func (c *Container) initRootKeyRepository() (keysService.RootKeyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for root key repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return keysRepository.NewMySQLRootKeyRepository(db), nil
	case "postgres":
		return keysRepository.NewPostgreSQLRootKeyRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initKeyKeeper opens the KMS keeper configured via KMS_KEY_URI.
func (c *Container) initKeyKeeper() (keysService.KeyKeeper, error) {
	if c.config.KMSKeyURI == "" {
		return nil, fmt.Errorf("KMS_KEY_URI is not configured (use base64key:// for local development)")
	}

	keeper, err := keysService.NewKeeperService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open key keeper: %w", err)
	}
	return keeper, nil
}

// initRootKeyService creates the root key service with all its dependencies.
func (c *Container) initRootKeyService() (*keysService.RootKeyService, error) {
	repo, err := c.RootKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get root key repository for root key service: %w", err)
	}

	keeper, err := c.KeyKeeper()
	if err != nil {
		return nil, fmt.Errorf("failed to get key keeper for root key service: %w", err)
	}

	return keysService.NewRootKeyService(repo, keeper, nil), nil
}
