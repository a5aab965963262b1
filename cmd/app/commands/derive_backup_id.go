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

// RunDeriveBackupID loads the root key for a purpose and prints the derived
// backup identifier in base64.
func RunDeriveBackupID(
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

	rootKey, err := rootKeys.Get(ctx, purpose)
	if err != nil {
		return fmt.Errorf("failed to load root key: %w", err)
	}
	defer keysDomain.Zero(rootKey.Key)

	backupID, err := deriver.DeriveBackupID(rootKey, accountID)
	if err != nil {
		return fmt.Errorf("failed to derive backup id: %w", err)
	}

	logger.Info("backup id derived", slog.String("purpose", string(purpose)))

	fmt.Fprintf(writer, "Backup ID: %s\n", base64.StdEncoding.EncodeToString(backupID))
	return nil
}
