package usecase

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/allisson/mediavault/internal/credentials/domain"
	"github.com/allisson/mediavault/internal/credentials/repository"
	apperrors "github.com/allisson/mediavault/internal/errors"
	keysDomain "github.com/allisson/mediavault/internal/keys/domain"
	keysService "github.com/allisson/mediavault/internal/keys/service"
)

// Credential kinds for metric labels.
const (
	kindCDNRead    = "cdn_read"
	kindBackupInfo = "backup_info"
)

// Presentation headers attached to authenticated backup service requests.
const (
	headerAuth          = "X-Backup-Zk-Auth"
	headerAuthSignature = "X-Backup-Zk-Auth-Signature"
)

// ManagerConfig carries the scalar settings for the credential manager.
type ManagerConfig struct {
	AccountID                 string
	AppVersion                string
	CDNReadCredentialLifetime time.Duration
	BackupInfoLifetime        time.Duration
}

// Manager is the single entry point for backup service credentials. It owns
// the derive-present-sign flow for service auth and the cache-or-fetch flow
// for CDN read credentials and backup info. Credentials of the same kind are
// interchangeable, so there is no single-flight guard around fetches.
type Manager struct {
	rootKeys RootKeyProvider
	deriver  keysService.KeyDeriver
	cache    *repository.Cache
	client   BackupServiceClient
	metrics  MetricRecorder
	logger   *slog.Logger
	nowFn    func() time.Time
	cfg      ManagerConfig
}

// NewManager creates a new Manager.
func NewManager(
	rootKeys RootKeyProvider,
	deriver keysService.KeyDeriver,
	cache *repository.Cache,
	client BackupServiceClient,
	metrics MetricRecorder,
	logger *slog.Logger,
	nowFn func() time.Time,
	cfg ManagerConfig,
) *Manager {
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	if cfg.CDNReadCredentialLifetime <= 0 {
		cfg.CDNReadCredentialLifetime = domain.CDNReadCredentialLifetime
	}
	if cfg.BackupInfoLifetime <= 0 {
		cfg.BackupInfoLifetime = domain.BackupInfoLifetime
	}
	return &Manager{
		rootKeys: rootKeys,
		deriver:  deriver,
		cache:    cache,
		client:   client,
		metrics:  metrics,
		logger:   logger,
		nowFn:    nowFn,
		cfg:      cfg,
	}
}

// FetchServiceAuth derives the backup id and transport key for the purpose,
// obtains a credential presentation and signs it. forceRefresh bypasses any
// presentation cached upstream, for callers that specifically need a
// paid-tier credential. Returns ErrNoRootKey when no root key exists for the
// purpose (backups disabled).
func (m *Manager) FetchServiceAuth(ctx context.Context, purpose domain.Purpose, forceRefresh bool) (*domain.ServiceAuth, error) {
	root, err := m.rootKeys.Get(ctx, purpose)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrNoRootKey
		}
		return nil, err
	}
	defer keysDomain.Zero(root.Key)

	backupID, err := m.deriver.DeriveBackupID(root, m.cfg.AccountID)
	if err != nil {
		return nil, err
	}

	transportKey, err := m.deriver.DeriveTransportKey(root, m.cfg.AccountID)
	if err != nil {
		return nil, err
	}
	defer keysDomain.Zero(transportKey)

	presentation, err := m.client.FetchAuthPresentation(ctx, purpose, backupID, forceRefresh)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch auth presentation")
	}

	signature := ed25519.Sign(transportKey, presentation)

	level := domain.CredentialLevelFree
	if purpose == keysDomain.PurposeMedia {
		level = domain.CredentialLevelPaid
	}

	return &domain.ServiceAuth{
		Headers: map[string]string{
			headerAuth:          base64.StdEncoding.EncodeToString(presentation),
			headerAuthSignature: base64.StdEncoding.EncodeToString(signature),
		},
		Level: level,
	}, nil
}

// FetchCDNReadCredential returns a CDN read credential for the purpose and
// CDN number, from cache when fresh enough, otherwise from the service.
func (m *Manager) FetchCDNReadCredential(
	ctx context.Context,
	purpose domain.Purpose,
	cdnNumber uint32,
) (*domain.ReadCredential, error) {
	key := fmt.Sprintf("%s:cdn:%d", purpose, cdnNumber)

	return cachedFetch(ctx, m, repository.CollectionCDNReadCredentials, key, kindCDNRead,
		m.cfg.CDNReadCredentialLifetime, false,
		func(ctx context.Context) (*domain.ReadCredential, error) {
			auth, err := m.FetchServiceAuth(ctx, purpose, false)
			if err != nil {
				return nil, err
			}
			return m.client.FetchCDNReadCredential(ctx, *auth, cdnNumber)
		})
}

// FetchBackupInfo returns backup info for the purpose. Cached info is used
// while the companion last-fetch-time marker is fresh, but a change in the
// application version since the last fetch always forces a refetch.
func (m *Manager) FetchBackupInfo(ctx context.Context, purpose domain.Purpose) (*domain.BackupInfo, error) {
	key := string(purpose)
	versionKey := "app_version:" + string(purpose)
	lastFetchKey := "last_fetch:" + string(purpose)

	skipCache := false
	storedVersion, found, err := m.cache.GetString(ctx, repository.CollectionBackupInfo, versionKey)
	if err != nil {
		m.logger.Warn("failed to read cached app version", slog.String("error", err.Error()))
		skipCache = true
	} else if found && storedVersion != m.cfg.AppVersion {
		skipCache = true
	}

	lastFetch, err := m.cache.GetTime(ctx, repository.CollectionBackupInfo, lastFetchKey)
	if err != nil {
		m.logger.Warn("failed to read backup info fetch time", slog.String("error", err.Error()))
		skipCache = true
	} else if lastFetch == nil || m.nowFn().Sub(*lastFetch) > m.cfg.BackupInfoLifetime {
		skipCache = true
	}

	fetched := false
	info, err := cachedFetch(ctx, m, repository.CollectionBackupInfo, key, kindBackupInfo,
		m.cfg.BackupInfoLifetime, skipCache,
		func(ctx context.Context) (*domain.BackupInfo, error) {
			fetched = true
			auth, err := m.FetchServiceAuth(ctx, purpose, false)
			if err != nil {
				return nil, err
			}
			return m.client.FetchBackupInfo(ctx, *auth)
		})
	if err != nil {
		return nil, err
	}

	// The markers move only on a real fetch; refreshing them on cache hits
	// would extend the lifetime indefinitely.
	if fetched {
		if err := m.cache.SetTime(ctx, repository.CollectionBackupInfo, lastFetchKey, m.nowFn()); err != nil {
			return nil, apperrors.Wrap(err, "failed to record backup info fetch time")
		}
		if err := m.cache.SetString(ctx, repository.CollectionBackupInfo, versionKey, m.cfg.AppVersion); err != nil {
			return nil, apperrors.Wrap(err, "failed to record app version")
		}
	}
	return info, nil
}

// CopyToMediaTier asks the service to copy a transit tier object onto the
// media tier. Non-2xx responses come back as CopyToMediaTierError (for the
// contract-defined statuses) or StatusError. The caller decides whether the
// failure is retryable; no retries happen here.
func (m *Manager) CopyToMediaTier(ctx context.Context, req domain.CopyRequest) error {
	// The copy endpoint requires a paid-tier credential, so a cached
	// free-tier presentation upstream must not be reused.
	auth, err := m.FetchServiceAuth(ctx, keysDomain.PurposeMedia, true)
	if err != nil {
		return err
	}

	status, err := m.client.CopyToMediaTier(ctx, *auth, req)
	if err != nil {
		return apperrors.Wrap(err, "copy to media tier request failed")
	}
	return domain.MapCopyStatus(status)
}

// WipeCredentials removes all cached credentials, including the stored app
// version markers. Called when backups are disabled or credentials are
// suspected stale.
func (m *Manager) WipeCredentials(ctx context.Context) error {
	return m.cache.Wipe(ctx,
		repository.CollectionCDNReadCredentials,
		repository.CollectionBackupInfo,
	)
}

// cachedFetch returns the cached payload when present and fresh, otherwise
// fetches a new one and writes it back. A failed write-back discards the
// fetched credential: returning an uncached credential would hide persistent
// storage trouble behind repeated fetches.
func cachedFetch[T any](
	ctx context.Context,
	m *Manager,
	collection, key, kind string,
	lifetime time.Duration,
	skipCache bool,
	fetch func(ctx context.Context) (*T, error),
) (*T, error) {
	if !skipCache {
		if cached := repository.Lookup[T](ctx, m.cache, collection, key, lifetime); cached != nil {
			m.metrics.CredentialCacheHit(ctx, kind)
			return cached, nil
		}
	}
	m.metrics.CredentialCacheMiss(ctx, kind)

	fresh, err := fetch(ctx)
	if err != nil {
		m.metrics.CredentialFetch(ctx, kind, false)
		return nil, err
	}
	m.metrics.CredentialFetch(ctx, kind, true)

	if err := repository.Store(ctx, m.cache, collection, key, *fresh); err != nil {
		return nil, apperrors.Wrap(err, "failed to cache credential")
	}
	return fresh, nil
}
