package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	credentialsDomain "github.com/allisson/mediavault/internal/credentials/domain"
	keysDomain "github.com/allisson/mediavault/internal/keys/domain"
)

type fakeCredentialManager struct {
	info     *credentialsDomain.BackupInfo
	fetchErr error
	wipeErr  error
	wiped    bool
}

func (f *fakeCredentialManager) FetchBackupInfo(
	_ context.Context,
	_ keysDomain.Purpose,
) (*credentialsDomain.BackupInfo, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.info, nil
}

func (f *fakeCredentialManager) WipeCredentials(_ context.Context) error {
	if f.wipeErr != nil {
		return f.wipeErr
	}
	f.wiped = true
	return nil
}

func TestRunShowBackupInfo(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success", func(t *testing.T) {
		manager := &fakeCredentialManager{
			info: &credentialsDomain.BackupInfo{
				CDNNumber:      3,
				BackupDir:      "backup-dir",
				MediaDir:       "media-dir",
				BackupName:     "backup-name",
				UsedSpaceBytes: 1024,
			},
		}
		var out bytes.Buffer

		err := RunShowBackupInfo(ctx, manager, logger, &out, "media")
		require.NoError(t, err)
		require.Contains(t, out.String(), "CDN number: 3")
		require.Contains(t, out.String(), "Used space: 1024 bytes")
	})

	t.Run("backups disabled", func(t *testing.T) {
		manager := &fakeCredentialManager{fetchErr: credentialsDomain.ErrNoRootKey}
		var out bytes.Buffer

		err := RunShowBackupInfo(ctx, manager, logger, &out, "messages")
		require.Error(t, err)
		require.Contains(t, err.Error(), "backups are disabled")
	})

	t.Run("invalid-purpose", func(t *testing.T) {
		manager := &fakeCredentialManager{}
		var out bytes.Buffer

		err := RunShowBackupInfo(ctx, manager, logger, &out, "invalid")
		require.Error(t, err)
	})
}

func TestRunWipeCredentials(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success", func(t *testing.T) {
		manager := &fakeCredentialManager{}

		err := RunWipeCredentials(ctx, manager, logger)
		require.NoError(t, err)
		require.True(t, manager.wiped)
	})

	t.Run("wipe-error", func(t *testing.T) {
		manager := &fakeCredentialManager{wipeErr: context.DeadlineExceeded}

		err := RunWipeCredentials(ctx, manager, logger)
		require.Error(t, err)
	})
}
