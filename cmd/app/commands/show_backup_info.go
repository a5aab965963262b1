package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	credentialsDomain "github.com/allisson/mediavault/internal/credentials/domain"
	keysDomain "github.com/allisson/mediavault/internal/keys/domain"
)

// CredentialManager exposes the credential operations used by CLI commands.
// *credentialsUsecase.Manager satisfies this interface.
type CredentialManager interface {
	FetchBackupInfo(ctx context.Context, purpose keysDomain.Purpose) (*credentialsDomain.BackupInfo, error)
	WipeCredentials(ctx context.Context) error
}

// RunShowBackupInfo fetches backup info for a purpose, through the credential
// cache, and prints it.
func RunShowBackupInfo(
	ctx context.Context,
	manager CredentialManager,
	logger *slog.Logger,
	writer io.Writer,
	purposeStr string,
) error {
	purpose, err := parsePurpose(purposeStr)
	if err != nil {
		return err
	}

	info, err := manager.FetchBackupInfo(ctx, purpose)
	if err != nil {
		if errors.Is(err, credentialsDomain.ErrNoRootKey) {
			return fmt.Errorf("backups are disabled for purpose %q (no root key)", purpose)
		}
		return fmt.Errorf("failed to fetch backup info: %w", err)
	}

	logger.Info("backup info fetched", slog.String("purpose", string(purpose)))

	fmt.Fprintf(writer, "CDN number: %d\n", info.CDNNumber)
	fmt.Fprintf(writer, "Backup dir: %s\n", info.BackupDir)
	fmt.Fprintf(writer, "Media dir: %s\n", info.MediaDir)
	fmt.Fprintf(writer, "Backup name: %s\n", info.BackupName)
	fmt.Fprintf(writer, "Used space: %d bytes\n", info.UsedSpaceBytes)
	return nil
}
