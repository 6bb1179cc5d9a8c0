// Package runtime implements the orchestrator: it wires together the
// KV store, contract engine, ledger, consensus engine, sync layer, and
// mempool, and owns the two-lock concurrency discipline below. It is a
// long-lived object holding shared service handles, constructed once
// and exposing request-response methods plus a detached-goroutine hook
// for asynchronous work.
package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/baals/baals-go/consensus"
	"github.com/baals/baals-go/contractengine"
	"github.com/baals/baals-go/core/types"
	"github.com/baals/baals-go/kv"
	"github.com/baals/baals-go/ledger"
	"github.com/baals/baals-go/log"
	"github.com/baals/baals-go/mempool"
	"github.com/baals/baals-go/metrics"
	"github.com/baals/baals-go/synclayer"
)

// Runtime is the single long-lived orchestrator. Lock order is always
// mempoolMu before chainMu; ProduceBlock snapshots the mempool,
// releases mempoolMu, then holds chainMu for the
// validate+apply+commit critical section.
type Runtime struct {
	store    *kv.Store
	engine   contractengine.Engine
	ledger   *ledger.Ledger
	consensus consensus.Engine
	sync     synclayer.SyncLayer

	mempoolMu sync.Mutex
	pool      *mempool.Pool

	chainMu sync.Mutex
	chain   *types.ChainState
}

// New constructs a Runtime, initializes the chain (idempotent), and
// caches the current ChainState.
func New(store *kv.Store, engine contractengine.Engine, consensusEngine consensus.Engine, sync synclayer.SyncLayer) (*Runtime, error) {
	l := ledger.New(store, engine)
	state, err := l.InitializeChain()
	if err != nil {
		return nil, fmt.Errorf("runtime: initialize chain: %w", err)
	}
	return &Runtime{
		store:     store,
		engine:    engine,
		ledger:    l,
		consensus: consensusEngine,
		sync:      sync,
		pool:      mempool.New(),
		chain:     state,
	}, nil
}

// SubmitTransaction verifies tx's signature, rejects stale nonces
// against the currently stored sender account, persists it to the
// durable mempool tree, and admits it to the in-memory pool.
func (r *Runtime) SubmitTransaction(tx *types.Transaction) error {
	if !tx.VerifySignature() {
		return fmt.Errorf("runtime: submit tx %s: invalid signature", tx.Hash)
	}

	senderAddr := types.WalletAddress(tx.Sender)
	acc, ok, err := r.ledger.GetAccount(senderAddr)
	if err != nil {
		return fmt.Errorf("runtime: submit tx %s: %w", tx.Hash, err)
	}
	storedNonce := uint64(0)
	if ok {
		storedNonce = acc.Nonce
	}
	if tx.Nonce <= storedNonce {
		return fmt.Errorf("runtime: submit tx %s: nonce %d not greater than stored nonce %d", tx.Hash, tx.Nonce, storedNonce)
	}

	if err := r.store.Put(kv.TreeMempool, tx.Hash[:], types.EncodeTransaction(tx)); err != nil {
		return fmt.Errorf("runtime: submit tx %s: persist to mempool tree: %w", tx.Hash, err)
	}

	r.mempoolMu.Lock()
	err = r.pool.Add(tx)
	poolSize := r.pool.Len()
	r.mempoolMu.Unlock()
	if err != nil {
		return fmt.Errorf("runtime: submit tx %s: %w", tx.Hash, err)
	}
	metrics.Default.MempoolSize.Set(int64(poolSize))
	return nil
}

// ProduceBlock drains a mempool snapshot, asks the consensus engine to
// seal a candidate block, validates and applies it, and on success
// prunes only the included transactions from the mempool and fires an
// asynchronous broadcast.
func (r *Runtime) ProduceBlock(ctx context.Context) (*types.Block, error) {
	r.mempoolMu.Lock()
	pending := r.pool.Snapshot()
	r.mempoolMu.Unlock()

	r.chainMu.Lock()
	defer r.chainMu.Unlock()

	prev, err := r.ledger.GetBlock(r.chain.LatestBlockHash)
	if err != nil {
		return nil, fmt.Errorf("runtime: produce block: load previous block: %w", err)
	}

	block, err := r.consensus.GenerateBlock(pending, prev, r.chain)
	if err != nil {
		return nil, fmt.Errorf("runtime: produce block: %w", err)
	}
	if err := r.consensus.ValidateBlock(block, prev, r.chain); err != nil {
		return nil, fmt.Errorf("runtime: produce block: consensus validation: %w", err)
	}
	if err := r.ledger.ValidateBlock(block, r.chain); err != nil {
		return nil, fmt.Errorf("runtime: produce block: ledger validation: %w", err)
	}

	next, err := r.ledger.ApplyBlock(block, r.chain)
	if err != nil {
		return nil, fmt.Errorf("runtime: produce block: apply: %w", err)
	}
	r.chain = next

	included := make([]types.Hash, len(block.Transactions))
	for i, tx := range block.Transactions {
		included[i] = tx.Hash
	}
	r.mempoolMu.Lock()
	r.pool.Remove(included)
	poolSize := r.pool.Len()
	r.mempoolMu.Unlock()

	metrics.Default.BlockHeight.Set(int64(block.Index))
	metrics.Default.TxsApplied.Add(int64(len(block.Transactions)))
	metrics.Default.MempoolSize.Set(int64(poolSize))

	go func() {
		if err := r.sync.BroadcastBlock(ctx, block); err != nil {
			log.Warn("runtime: broadcast failed", "block", block.Hash.String(), "err", err)
		}
	}()

	return block, nil
}

// GetBlockByHash returns the block stored under hash.
func (r *Runtime) GetBlockByHash(hash types.Hash) (*types.Block, error) {
	return r.ledger.GetBlock(hash)
}

// GetBlockByHeight returns the block stored at index.
func (r *Runtime) GetBlockByHeight(index uint64) (*types.Block, error) {
	return r.ledger.GetBlockByHeight(index)
}

// GetTransaction returns the transaction stored under hash.
func (r *Runtime) GetTransaction(hash types.Hash) (*types.Transaction, error) {
	raw, err := r.store.Get(kv.TreeTransactions, hash[:])
	if err != nil {
		return nil, fmt.Errorf("runtime: get transaction %s: %w", hash, err)
	}
	return types.DecodeTransaction(raw)
}

// GetAccount returns the account stored at addr.
func (r *Runtime) GetAccount(addr types.Address) (*types.Account, bool, error) {
	return r.ledger.GetAccount(addr)
}

// GetChainState returns a snapshot of the cached chain tip under a
// short lock, so it reflects either the pre- or post-commit state,
// never an inconsistent mix.
func (r *Runtime) GetChainState() *types.ChainState {
	r.chainMu.Lock()
	defer r.chainMu.Unlock()
	return r.chain.Clone()
}

// ContractStorageRead reads one storage slot of a deployed contract.
func (r *Runtime) ContractStorageRead(contract types.ContractId, userKey []byte) ([]byte, bool) {
	v, err := r.store.Get(kv.TreeContractStorage, kv.ContractStorageKey(contract, userKey))
	if err != nil {
		return nil, false
	}
	return v, true
}
