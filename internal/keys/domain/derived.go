package domain

import "crypto/ed25519"

// Sizes of derived values.
const (
	// BackupIDSize is the byte length of a derived backup identifier.
	BackupIDSize = 16
	// MediaIDSize is the byte length of a derived media identifier.
	MediaIDSize = 15
	// MediaKeySize is the byte length of each derived media key (HMAC and AES).
	MediaKeySize = 32
)

// MediaKeyPurpose selects the derivation label for media encryption material.
// The two purposes never share key material.
type MediaKeyPurpose string

const (
	// MediaKeyPurposeOuterLayer covers fullsize media and the outer layer of
	// media tier thumbnails.
	MediaKeyPurposeOuterLayer MediaKeyPurpose = "fullsize-or-thumbnail-outer-layer"
	// MediaKeyPurposeTransitThumbnail covers thumbnails sent over the transit tier.
	MediaKeyPurposeTransitThumbnail MediaKeyPurpose = "transit-tier-thumbnail"
)

// IsValid reports whether the purpose is a known value.
func (p MediaKeyPurpose) IsValid() bool {
	return p == MediaKeyPurposeOuterLayer || p == MediaKeyPurposeTransitThumbnail
}

// DerivedKeySet holds the account-scoped values derived from one root key.
// Derivation is deterministic and side-effect-free; a DerivedKeySet is
// recomputed on demand and never persisted.
type DerivedKeySet struct {
	BackupID     []byte
	TransportKey ed25519.PrivateKey
}

// MediaKeyMaterial holds the per-media encryption keys derived for one media
// identifier and purpose.
type MediaKeyMaterial struct {
	HMACKey []byte
	AESKey  []byte
}

// Zero clears the key material.
func (m *MediaKeyMaterial) Zero() {
	Zero(m.HMACKey)
	Zero(m.AESKey)
}
