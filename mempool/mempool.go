// Package mempool implements the in-memory pending-transaction pool: a
// mutex-guarded, hash-deduplicated, FIFO-ordered admission queue
// consulted by consensus when producing a block and pruned only of
// transactions that actually land in a committed block.
package mempool

import (
	"errors"
	"sync"

	"github.com/baals/baals-go/core/types"
)

// ErrAlreadyPresent is returned by Add when a transaction with the
// same hash is already pending.
var ErrAlreadyPresent = errors.New("mempool: transaction already present")

// Pool is a mutex-guarded ordered set of pending transactions.
type Pool struct {
	mu      sync.Mutex
	order   []types.Hash
	byHash  map[types.Hash]*types.Transaction
}

func New() *Pool {
	return &Pool{byHash: make(map[types.Hash]*types.Transaction)}
}

// Add admits tx if its hash is not already pending. Callers are
// expected to have already run structural/signature validation.
func (p *Pool) Add(tx *types.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.byHash[tx.Hash]; ok {
		return ErrAlreadyPresent
	}
	p.byHash[tx.Hash] = tx
	p.order = append(p.order, tx.Hash)
	return nil
}

// Snapshot returns the currently pending transactions in admission
// order. The returned slice is a fresh copy; mutating it does not
// affect the pool.
func (p *Pool) Snapshot() []*types.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*types.Transaction, 0, len(p.order))
	for _, h := range p.order {
		if tx, ok := p.byHash[h]; ok {
			out = append(out, tx)
		}
	}
	return out
}

// Len reports the number of pending transactions.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.order)
}

// Has reports whether a transaction with hash h is pending.
func (p *Pool) Has(h types.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.byHash[h]
	return ok
}

// Remove deletes the given hashes from the pool, e.g. after they are
// included in a successfully applied block. Hashes not present are
// ignored.
func (p *Pool) Remove(hashes []types.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(hashes) == 0 {
		return
	}
	drop := make(map[types.Hash]struct{}, len(hashes))
	for _, h := range hashes {
		drop[h] = struct{}{}
		delete(p.byHash, h)
	}
	kept := p.order[:0]
	for _, h := range p.order {
		if _, gone := drop[h]; !gone {
			kept = append(kept, h)
		}
	}
	p.order = kept
}
