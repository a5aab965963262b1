// Package domain defines the models for short-lived backup service credentials.
//
// Credentials are expensive to obtain (a server round trip) and cheap to cache:
// entries carry their creation time and a fixed per-kind lifetime, and an
// expired entry is simply ignored, never deleted in place. Credentials of the
// same kind are interchangeable, so concurrent refreshes are harmless
// (last-write-wins).
package domain

import (
	"time"

	keysDomain "github.com/allisson/mediavault/internal/keys/domain"
)

// Default lifetimes for cached credentials.
const (
	// CDNReadCredentialLifetime is how long a cached CDN read credential is trusted.
	CDNReadCredentialLifetime = 24 * time.Hour
	// BackupInfoLifetime is how long cached backup info is trusted.
	BackupInfoLifetime = 24 * time.Hour
)

// Purpose aliases the backup purpose; credentials are scoped the same way as
// root keys.
type Purpose = keysDomain.Purpose

// Cached wraps a credential payload with its creation time.
type Cached[T any] struct {
	CreateDate time.Time `json:"create_date"`
	Payload    T         `json:"payload"`
}

// IsExpired reports whether the entry is older than the given lifetime.
func (c Cached[T]) IsExpired(now time.Time, lifetime time.Duration) bool {
	return now.After(c.CreateDate.Add(lifetime))
}

// ReadCredential is a short-lived bearer-header set authorizing CDN reads.
type ReadCredential struct {
	Headers map[string]string `json:"headers"`
}

// BackupInfo describes where an account's backup lives on the CDN.
type BackupInfo struct {
	CDNNumber      uint32 `json:"cdn"`
	BackupDir      string `json:"backup_dir"`
	MediaDir       string `json:"media_dir"`
	BackupName     string `json:"backup_name"`
	UsedSpaceBytes uint64 `json:"used_space_bytes"`
}

// CredentialLevel is the subscription tier a service auth credential grants.
type CredentialLevel string

const (
	// CredentialLevelFree grants the messages-only tier.
	CredentialLevelFree CredentialLevel = "free"
	// CredentialLevelPaid grants the media tier.
	CredentialLevelPaid CredentialLevel = "paid"
)

// ServiceAuth bundles signed presentation headers with the tier they grant.
// It is the only artifact callers need to authenticate backup service requests.
type ServiceAuth struct {
	Headers map[string]string
	Level   CredentialLevel
}
