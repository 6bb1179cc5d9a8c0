// Package config holds the static parameters a baals-go node is
// configured with at startup: a plain struct of named parameters,
// constructed once and passed by reference to the subsystems that
// need it, limited to the handful of knobs this module's PoA
// consensus and storage layer actually consume.
package config

import (
	"errors"

	"github.com/baals/baals-go/crypto/ed25519"
)

// Config is the static configuration for one baals-go node.
type Config struct {
	// DataDir is the filesystem path under which the leveldb store is
	// opened. Empty means use an in-memory store (dev mode).
	DataDir string

	// AuthoritySigner is the PoA authority's public key every node must
	// agree on to accept blocks.
	AuthoritySigner ed25519.PublicKey

	// SigningKey is held only by the node authorized to produce blocks;
	// nil on validate-only nodes.
	SigningKey ed25519.PrivateKey

	// BlockIntervalSeconds is the PoA engine's target spacing between
	// blocks; advisory in v1 (no scheduler enforces it).
	BlockIntervalSeconds uint64
}

// DefaultBlockIntervalSeconds is the interval cmd/baalsd assigns. A
// Config whose BlockIntervalSeconds is zero is not filled in with it.
const DefaultBlockIntervalSeconds = 5

var ErrInvalidAuthority = errors.New("config: authority signer must be a valid ed25519 public key")

// Validate reports whether c is well-formed enough to construct a
// runtime from.
func (c *Config) Validate() error {
	if len(c.AuthoritySigner) != ed25519.PublicKeySize {
		return ErrInvalidAuthority
	}
	return nil
}
