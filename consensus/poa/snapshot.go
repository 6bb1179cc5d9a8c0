package poa

import (
	"encoding/hex"
	"time"

	"github.com/baals/baals-go/core/types"
)

func nowSeconds() uint64 {
	return uint64(time.Now().Unix())
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// Snapshot records the signer lineage as of a given block hash. With a
// single fixed authority there is no rotation to track, only a short
// recency window used to reject resealing an already-sealed hash.
type Snapshot struct {
	BlockHash types.Hash
	PrevHash  types.Hash
	Signer    string // hex-encoded authority public key
}

// recordSnapshot caches a lightweight lineage record for block hash,
// evicting least-recently-used entries once the cache is full.
func (e *Engine) recordSnapshot(blockHash, prevHash types.Hash) {
	e.snapshots.Add(blockHash, &Snapshot{
		BlockHash: blockHash,
		PrevHash:  prevHash,
		Signer:    hex.EncodeToString(e.authority),
	})
}

// LastSealed reports the cached lineage snapshot for blockHash, if
// still resident in the recency cache.
func (e *Engine) LastSealed(blockHash types.Hash) (*Snapshot, bool) {
	v, ok := e.snapshots.Get(blockHash)
	if !ok {
		return nil, false
	}
	return v.(*Snapshot), true
}
