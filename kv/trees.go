package kv

import (
	"fmt"
	"strings"

	"github.com/baals/baals-go/core/types"
)

// Tree names the logical namespaces multiplexed onto one underlying
// KeyValueStore.
type Tree string

const (
	TreeBlocks          Tree = "blocks"
	TreeTransactions    Tree = "transactions"
	TreeMempool         Tree = "mempool"
	TreeAccounts        Tree = "accounts"
	TreeContractCode    Tree = "contract_code"
	TreeContractStorage Tree = "contract_storage"
	TreeChainState      Tree = "chain_state"
	TreeTxByBlock       Tree = "tx_by_block"
)

// Store multiplexes the trees over a single KeyValueStore by
// namespacing keys with a "<tree>:" prefix, and provides an atomic
// batch that spans all trees at once.
type Store struct {
	db KeyValueStore
}

func NewStore(db KeyValueStore) *Store {
	return &Store{db: db}
}

func treeKey(t Tree, key []byte) []byte {
	buf := make([]byte, 0, len(t)+1+len(key))
	buf = append(buf, t...)
	buf = append(buf, ':')
	buf = append(buf, key...)
	return buf
}

func (s *Store) Get(t Tree, key []byte) ([]byte, error) {
	return s.db.Get(treeKey(t, key))
}

func (s *Store) Has(t Tree, key []byte) (bool, error) {
	return s.db.Has(treeKey(t, key))
}

func (s *Store) Put(t Tree, key, value []byte) error {
	return s.db.Put(treeKey(t, key), value)
}

func (s *Store) Delete(t Tree, key []byte) error {
	return s.db.Delete(treeKey(t, key))
}

// ScanPrefix iterates key/value pairs in tree t whose key (with the
// tree prefix stripped) has the given prefix, in ascending order.
func (s *Store) ScanPrefix(t Tree, prefix []byte, fn func(key, value []byte) error) error {
	return s.scan(t, prefix, false, fn)
}

// ScanPrefixRev is ScanPrefix in descending key order.
func (s *Store) ScanPrefixRev(t Tree, prefix []byte, fn func(key, value []byte) error) error {
	return s.scan(t, prefix, true, fn)
}

func (s *Store) scan(t Tree, prefix []byte, rev bool, fn func(key, value []byte) error) error {
	it := s.db.NewIterator(treeKey(t, prefix), rev)
	defer it.Release()
	tPrefix := string(t) + ":"
	for it.Next() {
		k := string(it.Key())
		trimmed := strings.TrimPrefix(k, tPrefix)
		if err := fn([]byte(trimmed), it.Value()); err != nil {
			return err
		}
	}
	return it.Error()
}

// TreeBatch accumulates writes across any combination of trees,
// committed atomically via the underlying store's batch.
type TreeBatch struct {
	b Batch
}

func (s *Store) NewBatch() *TreeBatch {
	return &TreeBatch{b: s.db.NewBatch()}
}

func (b *TreeBatch) Put(t Tree, key, value []byte) error {
	return b.b.Put(treeKey(t, key), value)
}

func (b *TreeBatch) Delete(t Tree, key []byte) error {
	return b.b.Delete(treeKey(t, key))
}

func (b *TreeBatch) Write() error    { return b.b.Write() }
func (b *TreeBatch) Reset()          { b.b.Reset() }
func (b *TreeBatch) ValueSize() int  { return b.b.ValueSize() }

// heightIndexWidth is the zero-padded ASCII width for height-indexed
// keys, chosen so lexicographic and numeric order coincide up to
// 10^20 blocks.
const heightIndexWidth = 20

// HeightKey renders index as a fixed-width, zero-padded ASCII decimal
// string so that byte-lexicographic iteration equals numeric order.
func HeightKey(index uint64) []byte {
	return []byte(fmt.Sprintf("height:%0*d", heightIndexWidth, index))
}

// TxByBlockKey renders the tx_by_block composite index key: block
// hash, transaction hash, and a zero-padded in-block transaction
// index, so that scanning by block hash prefix yields transactions in
// block order.
func TxByBlockKey(blockHash types.Hash, txIndex uint32, txHash types.Hash) []byte {
	return []byte(fmt.Sprintf("block_tx:%x:%010d:%x", blockHash[:], txIndex, txHash[:]))
}

// TxByBlockPrefix is the scan prefix selecting every transaction
// belonging to blockHash, in block order.
func TxByBlockPrefix(blockHash types.Hash) []byte {
	return []byte(fmt.Sprintf("block_tx:%x:", blockHash[:]))
}

// ContractStorageKey renders the per-contract, per-key storage slot
// address.
func ContractStorageKey(contract types.ContractId, userKey []byte) []byte {
	return []byte(fmt.Sprintf("state:%x:%x", contract[:], userKey))
}

// ContractStoragePrefix selects every storage slot belonging to contract.
func ContractStoragePrefix(contract types.ContractId) []byte {
	return []byte(fmt.Sprintf("state:%x:", contract[:]))
}

// ChainStateKey is the sole key under TreeChainState: the ledger holds
// exactly one ChainState record, the current tip.
var ChainStateKey = []byte("global:current")
