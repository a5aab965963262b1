// Package usecase implements credential management for the backup service:
// deriving service auth from the root key hierarchy, caching short-lived
// credentials and mapping copy-to-media-tier failures.
package usecase

import (
	"context"

	"github.com/allisson/mediavault/internal/credentials/domain"
	keysDomain "github.com/allisson/mediavault/internal/keys/domain"
)

// RootKeyProvider loads the unwrapped root key for a purpose.
type RootKeyProvider interface {
	Get(ctx context.Context, purpose keysDomain.Purpose) (*keysDomain.RootKey, error)
}

// BackupServiceClient performs the raw backup service HTTP calls. It reports
// transport failures as errors; HTTP-level outcomes come back as status codes
// so the caller owns the status mapping.
type BackupServiceClient interface {
	// FetchAuthPresentation obtains a credential presentation for the backup
	// id. forceRefresh asks the service to bypass any cached presentation.
	FetchAuthPresentation(ctx context.Context, purpose domain.Purpose, backupID []byte, forceRefresh bool) ([]byte, error)

	// FetchCDNReadCredential obtains a fresh CDN read credential.
	FetchCDNReadCredential(ctx context.Context, auth domain.ServiceAuth, cdnNumber uint32) (*domain.ReadCredential, error)

	// FetchBackupInfo obtains fresh backup info for the account.
	FetchBackupInfo(ctx context.Context, auth domain.ServiceAuth) (*domain.BackupInfo, error)

	// CopyToMediaTier asks the service to copy a transit tier object onto the
	// media tier and returns the response status code.
	CopyToMediaTier(ctx context.Context, auth domain.ServiceAuth, req domain.CopyRequest) (int, error)
}

// MetricRecorder records credential cache and fetch outcomes.
type MetricRecorder interface {
	CredentialCacheHit(ctx context.Context, kind string)
	CredentialCacheMiss(ctx context.Context, kind string)
	CredentialFetch(ctx context.Context, kind string, success bool)
}
