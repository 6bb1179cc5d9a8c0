// Package crypto wraps Ed25519 signing/verification and SHA-256 hashing
// of canonical encodings for baals-go: a thin helper layer in front of
// crypto/ed25519 and crypto/sha256.
package crypto

import (
	"crypto/sha256"
	"errors"

	"github.com/baals/baals-go/crypto/ed25519"
)

// ErrInvalidPublicKey is returned by PublicKeyFromBytes when the bytes
// do not decode to a point on the edwards25519 curve.
var ErrInvalidPublicKey = errors.New("crypto: invalid public key")

// PublicKeyFromBytes validates and wraps 32 raw bytes as an Ed25519
// public key. It never panics.
func PublicKeyFromBytes(b []byte) (ed25519.PublicKey, error) {
	if len(b) != ed25519.PublicKeySize {
		return nil, ErrInvalidPublicKey
	}
	if !isOnCurve(b) {
		return nil, ErrInvalidPublicKey
	}
	pk := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(pk, b)
	return pk, nil
}

// Sign produces a 64-byte Ed25519 signature over msg. Signing keys are
// passed by reference and never retained by this package.
func Sign(signingKey ed25519.PrivateKey, msg []byte) []byte {
	return ed25519.Sign(signingKey, msg)
}

// Verify reports whether sig is a valid Ed25519 signature over msg
// under pub. It never panics, returning false for any malformed input.
func Verify(pub ed25519.PublicKey, msg, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, msg, sig)
}

// Sum256 returns the SHA-256 digest of data, the identifier hash used
// throughout baals-go for blocks, transactions, and contracts.
func Sum256(data []byte) [32]byte {
	return sha256.Sum256(data)
}
