package types

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/baals/baals-go/crypto/ed25519"
)

// Canonical binary encoding: fixed-endian little-endian integers,
// length-prefixed sequences, tagged variants, and metadata entries
// emitted in key-sorted order. This is a bespoke encoder (see
// DESIGN.md for why RLP doesn't fit); it is used both as the hash
// preimage and as the on-disk persistence format — the same encoding
// serves both roles.
var ErrDecode = errors.New("types: malformed canonical encoding")

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) u8(v uint8)   { e.buf.WriteByte(v) }
func (e *encoder) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}
func (e *encoder) bytes(b []byte) {
	e.u64(uint64(len(b)))
	e.buf.Write(b)
}
func (e *encoder) str(s string) { e.bytes([]byte(s)) }
func (e *encoder) metadata(m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	e.u64(uint64(len(keys)))
	for _, k := range keys {
		e.str(k)
		e.str(m[k])
	}
}
func (e *encoder) address(a Address) {
	e.u8(uint8(a.Kind))
	switch a.Kind {
	case AddressWallet:
		e.bytes(a.Wallet)
	case AddressContract:
		e.bytes(a.Contract[:])
	}
}
func (e *encoder) payload(p TransactionPayload) {
	e.u8(uint8(p.Kind))
	switch p.Kind {
	case PayloadTransfer:
		e.u64(p.Amount)
	case PayloadContractDeploy:
		e.bytes(p.WasmBytes)
	case PayloadContractCall:
		e.str(p.Method)
		e.bytes(p.Args)
	case PayloadData:
		e.bytes(p.Data)
	}
}

// decoder mirrors encoder for full round-trip persistence decoding.
type decoder struct {
	b   []byte
	pos int
}

func (d *decoder) u8() (uint8, error) {
	if d.pos+1 > len(d.b) {
		return 0, ErrDecode
	}
	v := d.b[d.pos]
	d.pos++
	return v, nil
}
func (d *decoder) u64() (uint64, error) {
	if d.pos+8 > len(d.b) {
		return 0, ErrDecode
	}
	v := binary.LittleEndian.Uint64(d.b[d.pos : d.pos+8])
	d.pos += 8
	return v, nil
}
func (d *decoder) bytes() ([]byte, error) {
	n, err := d.u64()
	if err != nil {
		return nil, err
	}
	if d.pos+int(n) > len(d.b) || n > uint64(len(d.b)) {
		return nil, ErrDecode
	}
	out := make([]byte, n)
	copy(out, d.b[d.pos:d.pos+int(n)])
	d.pos += int(n)
	return out, nil
}
func (d *decoder) str() (string, error) {
	b, err := d.bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
func (d *decoder) metadata() (map[string]string, error) {
	n, err := d.u64()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	m := make(map[string]string, n)
	for i := uint64(0); i < n; i++ {
		k, err := d.str()
		if err != nil {
			return nil, err
		}
		v, err := d.str()
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}
func (d *decoder) hash() (Hash, error) {
	b, err := d.bytes()
	if err != nil {
		return Hash{}, err
	}
	if len(b) != 32 {
		return Hash{}, ErrDecode
	}
	return BytesToHash(b), nil
}
func (d *decoder) address() (Address, error) {
	kind, err := d.u8()
	if err != nil {
		return Address{}, err
	}
	switch AddressKind(kind) {
	case AddressWallet:
		b, err := d.bytes()
		if err != nil {
			return Address{}, err
		}
		return WalletAddress(ed25519.PublicKey(b)), nil
	case AddressContract:
		h, err := d.hash()
		if err != nil {
			return Address{}, err
		}
		return ContractAddress(h), nil
	default:
		return Address{}, ErrDecode
	}
}
func (d *decoder) payload() (TransactionPayload, error) {
	kind, err := d.u8()
	if err != nil {
		return TransactionPayload{}, err
	}
	switch PayloadKind(kind) {
	case PayloadTransfer:
		amt, err := d.u64()
		if err != nil {
			return TransactionPayload{}, err
		}
		return TransferPayload(amt), nil
	case PayloadContractDeploy:
		wasm, err := d.bytes()
		if err != nil {
			return TransactionPayload{}, err
		}
		return ContractDeployPayload(wasm), nil
	case PayloadContractCall:
		method, err := d.str()
		if err != nil {
			return TransactionPayload{}, err
		}
		args, err := d.bytes()
		if err != nil {
			return TransactionPayload{}, err
		}
		return ContractCallPayload(method, args), nil
	case PayloadData:
		data, err := d.bytes()
		if err != nil {
			return TransactionPayload{}, err
		}
		return DataPayload(data), nil
	default:
		return TransactionPayload{}, fmt.Errorf("%w: unknown payload kind %d", ErrDecode, kind)
	}
}

// encodeTxForHashing encodes exactly the hashed fields of a transaction:
// sender, nonce, timestamp, recipient, payload, metadata.
func encodeTxForHashing(tx *Transaction) []byte {
	var e encoder
	e.bytes(tx.Sender)
	e.u64(tx.Nonce)
	e.u64(tx.Timestamp)
	e.address(tx.Recipient)
	e.payload(tx.Payload)
	e.metadata(tx.Metadata)
	return e.buf.Bytes()
}

// EncodeTransaction serializes the full transaction, including its
// derived hash and signature, for persistence.
func EncodeTransaction(tx *Transaction) []byte {
	var e encoder
	e.bytes(tx.Hash[:])
	e.bytes(tx.Sender)
	e.u64(tx.Nonce)
	e.u64(tx.Timestamp)
	e.address(tx.Recipient)
	e.payload(tx.Payload)
	e.bytes(tx.Signature)
	e.u64(tx.GasLimit)
	e.u8(tx.Priority)
	e.metadata(tx.Metadata)
	return e.buf.Bytes()
}

// DecodeTransaction parses the output of EncodeTransaction.
func DecodeTransaction(b []byte) (*Transaction, error) {
	d := decoder{b: b}
	hash, err := d.hash()
	if err != nil {
		return nil, err
	}
	sender, err := d.bytes()
	if err != nil {
		return nil, err
	}
	nonce, err := d.u64()
	if err != nil {
		return nil, err
	}
	ts, err := d.u64()
	if err != nil {
		return nil, err
	}
	recipient, err := d.address()
	if err != nil {
		return nil, err
	}
	payload, err := d.payload()
	if err != nil {
		return nil, err
	}
	sig, err := d.bytes()
	if err != nil {
		return nil, err
	}
	gasLimit, err := d.u64()
	if err != nil {
		return nil, err
	}
	priority, err := d.u8()
	if err != nil {
		return nil, err
	}
	meta, err := d.metadata()
	if err != nil {
		return nil, err
	}
	return &Transaction{
		Hash:      hash,
		Sender:    ed25519.PublicKey(sender),
		Nonce:     nonce,
		Timestamp: ts,
		Recipient: recipient,
		Payload:   payload,
		Signature: sig,
		GasLimit:  gasLimit,
		Priority:  priority,
		Metadata:  meta,
	}, nil
}

// encodeBlockForHashing encodes exactly the hashed fields of a block:
// index, timestamp, prev_hash, nonce, transactions, metadata. Each
// transaction contributes its own hash to keep block hashing linear in
// transaction count rather than re-encoding full transaction bodies.
func encodeBlockForHashing(b *Block) []byte {
	var e encoder
	e.u64(b.Index)
	e.u64(b.Timestamp)
	e.bytes(b.PrevHash[:])
	e.u64(b.Nonce)
	e.u64(uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		e.bytes(tx.Hash[:])
	}
	e.metadata(b.Metadata)
	return e.buf.Bytes()
}

// EncodeBlock serializes the full block, including each transaction's
// full body, for persistence.
func EncodeBlock(b *Block) []byte {
	var e encoder
	e.u64(b.Index)
	e.u64(b.Timestamp)
	e.bytes(b.PrevHash[:])
	e.bytes(b.Hash[:])
	e.u64(b.Nonce)
	e.u64(uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		e.bytes(EncodeTransaction(tx))
	}
	e.metadata(b.Metadata)
	return e.buf.Bytes()
}

// DecodeBlock parses the output of EncodeBlock.
func DecodeBlock(raw []byte) (*Block, error) {
	d := decoder{b: raw}
	index, err := d.u64()
	if err != nil {
		return nil, err
	}
	ts, err := d.u64()
	if err != nil {
		return nil, err
	}
	prevHash, err := d.hash()
	if err != nil {
		return nil, err
	}
	hash, err := d.hash()
	if err != nil {
		return nil, err
	}
	nonce, err := d.u64()
	if err != nil {
		return nil, err
	}
	n, err := d.u64()
	if err != nil {
		return nil, err
	}
	txs := make([]*Transaction, 0, n)
	for i := uint64(0); i < n; i++ {
		txBytes, err := d.bytes()
		if err != nil {
			return nil, err
		}
		tx, err := DecodeTransaction(txBytes)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	meta, err := d.metadata()
	if err != nil {
		return nil, err
	}
	return &Block{
		Index:        index,
		Timestamp:    ts,
		PrevHash:     prevHash,
		Hash:         hash,
		Nonce:        nonce,
		Transactions: txs,
		Metadata:     meta,
	}, nil
}

// EncodeAccount serializes an Account for persistence in the accounts
// tree.
func EncodeAccount(a *Account) []byte {
	var e encoder
	e.u8(uint8(a.Kind))
	switch a.Kind {
	case AccountWallet:
		e.u64(a.Balance)
		e.u64(a.Nonce)
	case AccountContract:
		e.bytes(a.CodeHash[:])
		e.bytes(a.StorageRootHash[:])
		e.u64(a.Nonce)
	}
	return e.buf.Bytes()
}

// DecodeAccount parses the output of EncodeAccount.
func DecodeAccount(b []byte) (*Account, error) {
	d := decoder{b: b}
	kind, err := d.u8()
	if err != nil {
		return nil, err
	}
	switch AccountKind(kind) {
	case AccountWallet:
		balance, err := d.u64()
		if err != nil {
			return nil, err
		}
		nonce, err := d.u64()
		if err != nil {
			return nil, err
		}
		return &Account{Kind: AccountWallet, Balance: balance, Nonce: nonce}, nil
	case AccountContract:
		codeHash, err := d.hash()
		if err != nil {
			return nil, err
		}
		storageRoot, err := d.hash()
		if err != nil {
			return nil, err
		}
		nonce, err := d.u64()
		if err != nil {
			return nil, err
		}
		return &Account{Kind: AccountContract, CodeHash: codeHash, StorageRootHash: storageRoot, Nonce: nonce}, nil
	default:
		return nil, fmt.Errorf("%w: unknown account kind %d", ErrDecode, kind)
	}
}

// EncodeChainState serializes a ChainState for persistence under the
// single chain_state key.
func EncodeChainState(c *ChainState) []byte {
	var e encoder
	e.bytes(c.LatestBlockHash[:])
	e.u64(c.LatestBlockIndex)
	e.bytes(c.AccountsRootHash[:])
	e.u64(c.TotalSupply)
	return e.buf.Bytes()
}

// DecodeChainState parses the output of EncodeChainState.
func DecodeChainState(b []byte) (*ChainState, error) {
	d := decoder{b: b}
	latestHash, err := d.hash()
	if err != nil {
		return nil, err
	}
	latestIndex, err := d.u64()
	if err != nil {
		return nil, err
	}
	accountsRoot, err := d.hash()
	if err != nil {
		return nil, err
	}
	totalSupply, err := d.u64()
	if err != nil {
		return nil, err
	}
	return &ChainState{
		LatestBlockHash:  latestHash,
		LatestBlockIndex: latestIndex,
		AccountsRootHash: accountsRoot,
		TotalSupply:      totalSupply,
	}, nil
}
