package commands

import (
	"context"
	"fmt"
	"log/slog"
)

// RunWipeCredentials removes all cached backup service credentials. Run after
// destroying a root key or when cached credentials are suspected stale.
func RunWipeCredentials(
	ctx context.Context,
	manager CredentialManager,
	logger *slog.Logger,
) error {
	logger.Info("wiping cached credentials")

	if err := manager.WipeCredentials(ctx); err != nil {
		return fmt.Errorf("failed to wipe credentials: %w", err)
	}

	logger.Info("cached credentials wiped")
	return nil
}
