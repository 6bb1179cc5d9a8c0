// Package ledger implements the core validator/applier: a processor
// holding KvStore and ContractEngine references, driven by a
// Process-shaped entrypoint that loops over transactions applying
// per-tx state transitions and wraps failures with positional context.
package ledger

import (
	"fmt"

	"github.com/baals/baals-go/contractengine"
	"github.com/baals/baals-go/core/types"
	"github.com/baals/baals-go/kv"
	"github.com/baals/baals-go/log"
)

// Ledger owns no persistent state directly; it holds references to the
// KV store and contract engine.
type Ledger struct {
	store   *kv.Store
	engine  contractengine.Engine
}

func New(store *kv.Store, engine contractengine.Engine) *Ledger {
	return &Ledger{store: store, engine: engine}
}

// accountKey renders addr as the accounts-tree key: the wallet public
// key bytes, or the contract id bytes.
func accountKey(addr types.Address) []byte {
	switch addr.Kind {
	case types.AddressWallet:
		return addr.Wallet
	case types.AddressContract:
		return addr.Contract[:]
	default:
		return nil
	}
}

// InitializeChain is idempotent: if a ChainState is already present it
// returns without change, otherwise it commits the genesis block and
// initial ChainState.
func (l *Ledger) InitializeChain() (*types.ChainState, error) {
	existing, err := l.store.Get(kv.TreeChainState, kv.ChainStateKey)
	if err == nil && existing != nil {
		cs, err := types.DecodeChainState(existing)
		if err != nil {
			return nil, fmt.Errorf("ledger: decode existing chain state: %w", err)
		}
		return cs, nil
	}

	genesis := types.NewGenesisBlock()
	state := &types.ChainState{
		LatestBlockHash:  genesis.Hash,
		LatestBlockIndex: 0,
		AccountsRootHash: types.Hash{},
		TotalSupply:      0,
	}

	b := l.store.NewBatch()
	if err := b.Put(kv.TreeBlocks, genesis.Hash[:], types.EncodeBlock(genesis)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := b.Put(kv.TreeBlocks, kv.HeightKey(genesis.Index), types.EncodeBlock(genesis)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := b.Put(kv.TreeChainState, kv.ChainStateKey, types.EncodeChainState(state)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := b.Write(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	log.Info("ledger: chain initialized", "genesis_hash", genesis.Hash.String())
	return state, nil
}

// GetBlock loads the block stored under hash.
func (l *Ledger) GetBlock(hash types.Hash) (*types.Block, error) {
	raw, err := l.store.Get(kv.TreeBlocks, hash[:])
	if err != nil {
		return nil, fmt.Errorf("%w: block %s: %v", ErrNotFound, hash, err)
	}
	return types.DecodeBlock(raw)
}

// GetBlockByHeight loads the block stored under the given height index.
func (l *Ledger) GetBlockByHeight(index uint64) (*types.Block, error) {
	raw, err := l.store.Get(kv.TreeBlocks, kv.HeightKey(index))
	if err != nil {
		return nil, fmt.Errorf("%w: height %d: %v", ErrNotFound, index, err)
	}
	return types.DecodeBlock(raw)
}

// GetAccount loads the account stored at addr, if any.
func (l *Ledger) GetAccount(addr types.Address) (*types.Account, bool, error) {
	key := accountKey(addr)
	raw, err := l.store.Get(kv.TreeAccounts, key)
	if err != nil {
		return nil, false, nil
	}
	acc, err := types.DecodeAccount(raw)
	if err != nil {
		return nil, false, err
	}
	return acc, true, nil
}

// ValidateBlock applies the five structural/consensus-independent
// rejection checks: index continuity, prev-hash linkage, hash
// recomputation, timestamp monotonicity, and per-tx signature
// verification. Consensus-specific checks (seal, authority, timestamp
// policy) are the engine's responsibility.
func (l *Ledger) ValidateBlock(block *types.Block, current *types.ChainState) error {
	if block.Index != current.LatestBlockIndex+1 {
		return fmt.Errorf("%w: expected index %d, got %d", ErrBlockValidation, current.LatestBlockIndex+1, block.Index)
	}
	if block.PrevHash != current.LatestBlockHash {
		return fmt.Errorf("%w: prev_hash does not match chain tip", ErrBlockValidation)
	}
	if block.ComputeHash() != block.Hash {
		return fmt.Errorf("%w: recomputed hash does not match block.hash", ErrBlockValidation)
	}
	if block.Index > 0 {
		prev, err := l.GetBlock(block.PrevHash)
		if err != nil {
			return fmt.Errorf("%w: previous block %s missing", ErrNotFound, block.PrevHash)
		}
		if block.Timestamp <= prev.Timestamp {
			return fmt.Errorf("%w: timestamp %d not after previous block's %d", ErrBlockValidation, block.Timestamp, prev.Timestamp)
		}
	}
	for _, tx := range block.Transactions {
		if !tx.VerifySignature() {
			return fmt.Errorf("%w: invalid signature on tx %s", ErrBlockValidation, tx.Hash)
		}
	}
	return nil
}

// storageView adapts a contract's slice of the contract_storage tree
// to the contractengine.StorageView interface, scoped to one contract
// id. Reads see committed state; writes are staged into the enclosing
// batch.
type storageView struct {
	store    *kv.Store
	batch    *kv.TreeBatch
	contract types.ContractId
}

func (s *storageView) Get(userKey []byte) ([]byte, bool) {
	v, err := s.store.Get(kv.TreeContractStorage, kv.ContractStorageKey(s.contract, userKey))
	if err != nil {
		return nil, false
	}
	return v, true
}

func (s *storageView) Put(userKey, value []byte) {
	_ = s.batch.Put(kv.TreeContractStorage, kv.ContractStorageKey(s.contract, userKey), value)
}

// ApplyBlock validates and applies every transaction in block against
// current, staging account mutations into a single batch. It is
// atomic: on any per-tx failure the entire batch is discarded and
// current is left unmodified; nothing is written until the final
// single commit.
func (l *Ledger) ApplyBlock(block *types.Block, current *types.ChainState) (*types.ChainState, error) {
	batch := l.store.NewBatch()
	updates := make(map[string]*types.Account) // accountKey(addr) -> staged account

	loadAccount := func(addr types.Address) (*types.Account, bool) {
		key := string(accountKey(addr))
		if acc, ok := updates[key]; ok {
			return acc, true
		}
		acc, ok, err := l.GetAccount(addr)
		if err != nil || !ok {
			return nil, false
		}
		return acc, true
	}

	for i, tx := range block.Transactions {
		senderAddr := types.WalletAddress(tx.Sender)
		senderAcc, ok := loadAccount(senderAddr)
		if !ok {
			return nil, fmt.Errorf("ledger: apply tx %d [%s]: %w", i, tx.Hash, ErrAccountNotFound)
		}
		if tx.Nonce != senderAcc.Nonce+1 {
			return nil, fmt.Errorf("ledger: apply tx %d [%s]: %w: expected %d, got %d", i, tx.Hash, ErrInvalidNonce, senderAcc.Nonce+1, tx.Nonce)
		}

		// Scratch copy: stage this tx's mutations here and only merge
		// into updates once the whole dispatch below succeeds, so a
		// partially-applied tx never contaminates the next tx's view.
		scratch := map[string]*types.Account{string(accountKey(senderAddr)): senderAcc.Clone()}
		scratch[string(accountKey(senderAddr))].Nonce++

		if err := l.dispatch(tx, scratch, loadAccount, batch); err != nil {
			return nil, fmt.Errorf("ledger: apply tx %d [%s]: %w", i, tx.Hash, err)
		}

		for k, v := range scratch {
			updates[k] = v
		}
		if err := batch.Delete(kv.TreeMempool, tx.Hash[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}

	for key, acc := range updates {
		if err := batch.Put(kv.TreeAccounts, []byte(key), types.EncodeAccount(acc)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}

	if err := batch.Put(kv.TreeBlocks, block.Hash[:], types.EncodeBlock(block)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := batch.Put(kv.TreeBlocks, kv.HeightKey(block.Index), types.EncodeBlock(block)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	for i, tx := range block.Transactions {
		if err := batch.Put(kv.TreeTransactions, tx.Hash[:], types.EncodeTransaction(tx)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		idxKey := kv.TxByBlockKey(block.Hash, uint32(i), tx.Hash)
		if err := batch.Put(kv.TreeTxByBlock, idxKey, tx.Hash[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}

	next := current.Clone()
	next.LatestBlockHash = block.Hash
	next.LatestBlockIndex = block.Index
	if err := batch.Put(kv.TreeChainState, kv.ChainStateKey, types.EncodeChainState(next)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if err := batch.Write(); err != nil {
		// current is untouched; caller must discard the candidate next.
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	log.Info("ledger: block applied", "index", block.Index, "hash", block.Hash.String(), "txs", len(block.Transactions))
	return next, nil
}

// dispatch applies tx's payload against scratch (the sender's staged
// mutation, already nonce-incremented) and batch (contract/storage
// side effects).
func (l *Ledger) dispatch(tx *types.Transaction, scratch map[string]*types.Account, loadAccount func(types.Address) (*types.Account, bool), batch *kv.TreeBatch) error {
	senderKey := string(tx.Sender)
	senderAcc := scratch[senderKey]

	switch tx.Payload.Kind {
	case types.PayloadTransfer:
		if senderAcc.Kind != types.AccountWallet {
			return fmt.Errorf("%w: sender is not a wallet", ErrStateTransition)
		}
		if senderAcc.Balance < tx.Payload.Amount {
			return ErrInsufficientBalance
		}
		if !tx.Recipient.IsWallet() {
			return fmt.Errorf("%w: transfer to a contract address", ErrStateTransition)
		}
		senderAcc.Balance -= tx.Payload.Amount

		recipientKey := string(accountKey(tx.Recipient))
		var recipientAcc *types.Account
		if acc, ok := scratch[recipientKey]; ok {
			recipientAcc = acc
		} else if acc, ok := loadAccount(tx.Recipient); ok {
			recipientAcc = acc.Clone()
		} else {
			recipientAcc = types.NewWalletAccount(0)
		}
		recipientAcc.Balance += tx.Payload.Amount
		scratch[recipientKey] = recipientAcc
		return nil

	case types.PayloadContractDeploy:
		contractID := types.DeriveContractId(tx.Sender, tx.Payload.WasmBytes)
		view := &storageView{store: l.store, batch: batch, contract: contractID}
		derived, err := l.engine.DeployContract(tx.Sender, tx.Payload.WasmBytes, nil, view, tx.GasLimit)
		if err != nil {
			return fmt.Errorf("contractengine deploy: %v", err)
		}
		if derived != contractID {
			return fmt.Errorf("%w: engine derived a contract id inconsistent with SHA-256(deployer||wasm)", ErrStateTransition)
		}
		if err := batch.Put(kv.TreeContractCode, contractID[:], tx.Payload.WasmBytes); err != nil {
			return err
		}
		// The deployer's own wallet account (already nonce-bumped
		// above) is left intact; the contract gets its own account
		// keyed by its ContractId.
		scratch[string(contractID[:])] = types.NewContractAccount(contractID, 0)
		return nil

	case types.PayloadContractCall:
		if !tx.Recipient.IsContract() {
			return fmt.Errorf("%w: call target is not a contract", ErrInvalidTransactionPayload)
		}
		cid := tx.Recipient.Contract
		view := &storageView{store: l.store, batch: batch, contract: cid}
		if _, err := l.engine.CallContract(tx.Sender, cid, tx.Payload.Method, tx.Payload.Args, view); err != nil {
			return fmt.Errorf("contractengine call: %v", err)
		}
		return nil

	case types.PayloadData:
		return nil

	default:
		return fmt.Errorf("%w: unknown payload kind %d", ErrInvalidTransactionPayload, tx.Payload.Kind)
	}
}
