package commands

import (
	"context"
	"fmt"
	"log/slog"
)

// RunDestroyRootKey removes the root backup key for a purpose. All backups for
// that purpose become unrecoverable; cached credentials should be wiped
// afterwards.
func RunDestroyRootKey(
	ctx context.Context,
	rootKeys RootKeyManager,
	logger *slog.Logger,
	purposeStr string,
) error {
	purpose, err := parsePurpose(purposeStr)
	if err != nil {
		return err
	}

	logger.Info("destroying root backup key", slog.String("purpose", string(purpose)))

	if err := rootKeys.Destroy(ctx, purpose); err != nil {
		return fmt.Errorf("failed to destroy root key: %w", err)
	}

	logger.Info("root backup key destroyed", slog.String("purpose", string(purpose)))
	return nil
}
