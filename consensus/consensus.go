// Package consensus defines the pluggable block-production/validation
// strategy interface: an Engine decides whether a candidate block is
// acceptable and how to assemble one from pending transactions.
package consensus

import (
	"errors"

	"github.com/baals/baals-go/core/types"
)

// Sentinel errors returned by Engine implementations.
var (
	ErrValidationFailed     = errors.New("consensus: block validation failed")
	ErrInvalidSignature     = errors.New("consensus: invalid block signature")
	ErrUnauthorizedSigner   = errors.New("consensus: signer is not authorized")
	ErrInvalidTimestamp     = errors.New("consensus: invalid block timestamp")
	ErrMismatchedPrevHash   = errors.New("consensus: prev_hash does not match chain tip")
	ErrNoPendingTransactions = errors.New("consensus: no pending transactions to seal")
	ErrAlreadySealed        = errors.New("consensus: block hash was already sealed under a different lineage")
)

// Engine is a pluggable consensus strategy: it decides whether a
// candidate block is acceptable, and how to assemble one from pending
// transactions. The Runtime calls both methods; the Ledger never
// inspects a block's sealing metadata itself.
type Engine interface {
	// ValidateBlock reports whether block is an acceptable successor to
	// prev under chainState, per the engine's sealing rules (e.g. PoA
	// authority signature, timestamp monotonicity).
	ValidateBlock(block, prev *types.Block, chainState *types.ChainState) error

	// GenerateBlock assembles a new candidate block sealing pending on
	// top of prev. Returns ErrNoPendingTransactions if pending is empty.
	GenerateBlock(pending []*types.Transaction, prev *types.Block, chainState *types.ChainState) (*types.Block, error)
}
