// Package poa implements a single-authorized-signer Proof-of-Authority
// consensus engine: one signer seals every block, and the seal is
// embedded in the block metadata and verified on validation rather
// than being computed and thrown away.
package poa

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/baals/baals-go/consensus"
	"github.com/baals/baals-go/core/types"
	"github.com/baals/baals-go/crypto"
	"github.com/baals/baals-go/crypto/ed25519"
	"github.com/baals/baals-go/log"
)

// SealKey is the reserved Block.Metadata key under which the
// authority's Ed25519 signature over the block's pre-seal hash (see
// sealHash) is embedded.
const SealKey = "poa:seal"

// Engine is the Proof-of-Authority consensus.Engine implementation: a
// single authorized signer seals every block.
type Engine struct {
	authority     ed25519.PublicKey
	signingKey    ed25519.PrivateKey // nil on validate-only nodes
	blockInterval uint64             // seconds; advisory only in v1

	snapshots *lru.Cache // types.Hash -> *Snapshot, recent-signer bookkeeping
}

// New constructs a PoA engine authorized to the given signer. signingKey
// may be nil for nodes that only validate (never produce) blocks.
func New(authority ed25519.PublicKey, signingKey ed25519.PrivateKey, blockIntervalSeconds uint64) *Engine {
	cache, err := lru.New(128)
	if err != nil {
		log.Crit("poa: failed to allocate snapshot cache", "err", err)
	}
	return &Engine{
		authority:     append(ed25519.PublicKey(nil), authority...),
		signingKey:    signingKey,
		blockInterval: blockIntervalSeconds,
		snapshots:     cache,
	}
}

var _ consensus.Engine = (*Engine)(nil)

// GenerateBlock assembles and seals a new block on top of prev
// containing pending.
func (e *Engine) GenerateBlock(pending []*types.Transaction, prev *types.Block, chainState *types.ChainState) (*types.Block, error) {
	if len(pending) == 0 {
		return nil, consensus.ErrNoPendingTransactions
	}
	if e.signingKey == nil {
		return nil, fmt.Errorf("poa: engine has no signing key configured: %w", consensus.ErrUnauthorizedSigner)
	}

	now := nowSeconds()
	ts := prev.Timestamp + 1
	if now > ts {
		ts = now
	}

	b := &types.Block{
		Index:        prev.Index + 1,
		Timestamp:    ts,
		PrevHash:     prev.Hash,
		Nonce:        0,
		Transactions: append([]*types.Transaction(nil), pending...),
	}
	// The seal cannot sign its own preimage, so the signature covers the
	// hash computed before the seal is attached (mirrors Clique's
	// sealHash/hash split); the block's final, persisted Hash is then
	// recomputed over the seal-bearing metadata.
	preSealHash := b.ComputeHash()
	sig := crypto.Sign(e.signingKey, preSealHash[:])
	b.Metadata = map[string]string{SealKey: fmt.Sprintf("%x", sig)}
	b.Hash = b.ComputeHash()

	e.recordSnapshot(b.Hash, prev.Hash)
	return b, nil
}

// sealHash recomputes the block hash as it was before the seal was
// attached, by hashing a copy of the block with the seal metadata
// entry removed. This is what the authority signature actually covers.
func sealHash(block *types.Block) types.Hash {
	cp := *block
	if len(block.Metadata) > 0 {
		meta := make(map[string]string, len(block.Metadata))
		for k, v := range block.Metadata {
			if k != SealKey {
				meta[k] = v
			}
		}
		if len(meta) == 0 {
			meta = nil
		}
		cp.Metadata = meta
	}
	return cp.ComputeHash()
}

// ValidateBlock re-derives block's hash, verifies the embedded
// authority signature, and checks timestamp monotonicity.
func (e *Engine) ValidateBlock(block, prev *types.Block, chainState *types.ChainState) error {
	if block.PrevHash != prev.Hash {
		return consensus.ErrMismatchedPrevHash
	}
	if block.Hash != block.ComputeHash() {
		return fmt.Errorf("poa: block hash does not match recomputed hash: %w", consensus.ErrValidationFailed)
	}
	if block.Index > 0 && block.Timestamp <= prev.Timestamp {
		return consensus.ErrInvalidTimestamp
	}

	sigHex, ok := block.Metadata[SealKey]
	if !ok {
		return fmt.Errorf("poa: block carries no seal: %w", consensus.ErrInvalidSignature)
	}
	sig, err := decodeHex(sigHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("poa: malformed seal: %w", consensus.ErrInvalidSignature)
	}
	preSealHash := sealHash(block)
	if !crypto.Verify(e.authority, preSealHash[:], sig) {
		return consensus.ErrUnauthorizedSigner
	}

	if prior, ok := e.LastSealed(block.Hash); ok && prior.PrevHash != block.PrevHash {
		return consensus.ErrAlreadySealed
	}

	e.recordSnapshot(block.Hash, prev.Hash)
	return nil
}
