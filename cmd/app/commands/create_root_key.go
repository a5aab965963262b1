package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	keysDomain "github.com/allisson/mediavault/internal/keys/domain"
	keysService "github.com/allisson/mediavault/internal/keys/service"
)

// RootKeyManager manages root backup key lifecycle for CLI commands.
// *keysService.RootKeyService satisfies this interface.
type RootKeyManager interface {
	Create(ctx context.Context, purpose keysDomain.Purpose) (*keysDomain.RootKey, error)
	Get(ctx context.Context, purpose keysDomain.Purpose) (*keysDomain.RootKey, error)
	Destroy(ctx context.Context, purpose keysDomain.Purpose) error
}

// RunCreateRootKey generates and stores a new root backup key for a purpose,
// then prints the derived backup identifier. Enabling backups for a purpose
// starts here.
//
// Requirements: database must be migrated and KMS_KEY_URI must be set.
func RunCreateRootKey(
	ctx context.Context,
	rootKeys RootKeyManager,
	deriver keysService.KeyDeriver,
	logger *slog.Logger,
	writer io.Writer,
	accountID string,
	purposeStr string,
) error {
	purpose, err := parsePurpose(purposeStr)
	if err != nil {
		return err
	}

	logger.Info("creating root backup key", slog.String("purpose", string(purpose)))

	rootKey, err := rootKeys.Create(ctx, purpose)
	if err != nil {
		return fmt.Errorf("failed to create root key: %w", err)
	}
	defer keysDomain.Zero(rootKey.Key)

	backupID, err := deriver.DeriveBackupID(rootKey, accountID)
	if err != nil {
		return fmt.Errorf("failed to derive backup id: %w", err)
	}

	logger.Info("root backup key created", slog.String("purpose", string(purpose)))

	fmt.Fprintf(writer, "Root key created for purpose %q\n", purpose)
	fmt.Fprintf(writer, "Backup ID: %s\n", base64.StdEncoding.EncodeToString(backupID))
	return nil
}
