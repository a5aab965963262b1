package service

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	keysDomain "github.com/allisson/mediavault/internal/keys/domain"
)

// Derivation info labels. Each derived value gets its own label so derivation
// trees for different purposes can never collide.
const (
	backupIDInfo         = "20231003_Backups_GenerateBackupId"
	transportKeyInfo     = "20231003_Backups_GenerateBackupIdKeyPair"
	mediaIDInfo          = "20231003_Backups_Media_ID"
	mediaOuterLayerInfo  = "20231003_Backups_EncryptMedia"
	transitThumbnailInfo = "20240513_Backups_EncryptThumbnail"
)

// DerivationService implements KeyDeriver using HKDF-SHA256.
type DerivationService struct{}

// NewDerivationService creates a new DerivationService.
func NewDerivationService() *DerivationService {
	return &DerivationService{}
}

// DeriveBackupID derives the backup identifier from the root key and account id.
func (s *DerivationService) DeriveBackupID(
	root *keysDomain.RootKey,
	accountID string,
) ([]byte, error) {
	if err := checkRootKey(root); err != nil {
		return nil, err
	}
	return expand(root.Key, backupIDInfo, []byte(accountID), keysDomain.BackupIDSize)
}

// DeriveTransportKey derives the ed25519 signing key used on credential
// presentations. The HKDF output is used as the ed25519 seed, so the same
// root key and account id always yield the same key pair.
func (s *DerivationService) DeriveTransportKey(
	root *keysDomain.RootKey,
	accountID string,
) (ed25519.PrivateKey, error) {
	if err := checkRootKey(root); err != nil {
		return nil, err
	}
	seed, err := expand(root.Key, transportKeyInfo, []byte(accountID), ed25519.SeedSize)
	if err != nil {
		return nil, err
	}
	defer keysDomain.Zero(seed)
	return ed25519.NewKeyFromSeed(seed), nil
}

// DeriveMediaID derives the media identifier for a media name.
func (s *DerivationService) DeriveMediaID(
	mediaRoot *keysDomain.RootKey,
	mediaName string,
) ([]byte, error) {
	if err := checkMediaRootKey(mediaRoot); err != nil {
		return nil, err
	}
	return expand(mediaRoot.Key, mediaIDInfo, []byte(mediaName), keysDomain.MediaIDSize)
}

// DeriveMediaKeys derives the HMAC and AES keys for a media identifier.
// The purpose selects the derivation label, so fullsize/outer-layer material
// and transit thumbnail material can never be equal for the same media id.
func (s *DerivationService) DeriveMediaKeys(
	mediaRoot *keysDomain.RootKey,
	mediaID []byte,
	purpose keysDomain.MediaKeyPurpose,
) (*keysDomain.MediaKeyMaterial, error) {
	if err := checkMediaRootKey(mediaRoot); err != nil {
		return nil, err
	}
	if len(mediaID) != keysDomain.MediaIDSize {
		return nil, fmt.Errorf("media id must be %d bytes: %w",
			keysDomain.MediaIDSize, keysDomain.ErrInvalidKeyMaterial)
	}

	var info string
	switch purpose {
	case keysDomain.MediaKeyPurposeOuterLayer:
		info = mediaOuterLayerInfo
	case keysDomain.MediaKeyPurposeTransitThumbnail:
		info = transitThumbnailInfo
	default:
		return nil, fmt.Errorf("unknown media key purpose %q: %w",
			purpose, keysDomain.ErrInvalidKeyMaterial)
	}

	okm, err := expand(mediaRoot.Key, info, mediaID, 2*keysDomain.MediaKeySize)
	if err != nil {
		return nil, err
	}

	return &keysDomain.MediaKeyMaterial{
		HMACKey: okm[:keysDomain.MediaKeySize],
		AESKey:  okm[keysDomain.MediaKeySize:],
	}, nil
}

// expand runs HKDF-SHA256 over the root key with info = label || context.
func expand(key []byte, label string, context []byte, size int) ([]byte, error) {
	info := make([]byte, 0, len(label)+len(context))
	info = append(info, label...)
	info = append(info, context...)

	out := make([]byte, size)
	reader := hkdf.New(sha256.New, key, nil, info)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, fmt.Errorf("hkdf expand failed: %w", err)
	}
	return out, nil
}

func checkRootKey(root *keysDomain.RootKey) error {
	if root == nil || len(root.Key) != keysDomain.RootKeySize {
		return keysDomain.ErrInvalidKeyMaterial
	}
	return nil
}

func checkMediaRootKey(root *keysDomain.RootKey) error {
	if err := checkRootKey(root); err != nil {
		return err
	}
	if root.Purpose != keysDomain.PurposeMedia {
		return fmt.Errorf("media derivation requires a media root key: %w",
			keysDomain.ErrInvalidKeyMaterial)
	}
	return nil
}
