// Package types implements the baals-go data model: the tagged
// PublicKey/Signature/Hash/ContractId/Address/Account/TransactionPayload
// types, Transaction and Block, and ChainState. Each is a Go-native
// tagged union (a kind byte plus variant-specific fields) matched with
// an exhaustive switch, since Go has no sum types.
package types

import (
	"fmt"

	"github.com/baals/baals-go/crypto"
	"github.com/baals/baals-go/crypto/ed25519"
)

// Hash is a 32-byte SHA-256 digest, the identifier type for blocks,
// transactions, and contracts.
type Hash [32]byte

func (h Hash) Bytes() []byte { return h[:] }
func (h Hash) String() string {
	return fmt.Sprintf("%x", h[:])
}

// BytesToHash copies b (which must be 32 bytes) into a Hash.
func BytesToHash(b []byte) Hash {
	var h Hash
	copy(h[:], b)
	return h
}

// ContractId is an alias of Hash, derived as
// SHA-256(deployer_pubkey || wasm_bytes).
type ContractId = Hash

func DeriveContractId(deployer ed25519.PublicKey, wasm []byte) ContractId {
	buf := make([]byte, 0, len(deployer)+len(wasm))
	buf = append(buf, deployer...)
	buf = append(buf, wasm...)
	return Hash(crypto.Sum256(buf))
}

// AddressKind tags the Address variant.
type AddressKind uint8

const (
	AddressWallet AddressKind = iota
	AddressContract
)

// Address is a tagged variant: Wallet(PublicKey) or Contract(ContractId).
type Address struct {
	Kind     AddressKind
	Wallet   ed25519.PublicKey // set iff Kind == AddressWallet
	Contract ContractId        // set iff Kind == AddressContract
}

func WalletAddress(pub ed25519.PublicKey) Address {
	return Address{Kind: AddressWallet, Wallet: append(ed25519.PublicKey(nil), pub...)}
}

func ContractAddress(id ContractId) Address {
	return Address{Kind: AddressContract, Contract: id}
}

func (a Address) IsWallet() bool   { return a.Kind == AddressWallet }
func (a Address) IsContract() bool { return a.Kind == AddressContract }

func (a Address) String() string {
	switch a.Kind {
	case AddressWallet:
		return fmt.Sprintf("wallet:%x", a.Wallet)
	case AddressContract:
		return fmt.Sprintf("contract:%s", Hash(a.Contract))
	default:
		return "invalid-address"
	}
}

// PayloadKind tags the TransactionPayload variant.
type PayloadKind uint8

const (
	PayloadTransfer PayloadKind = iota
	PayloadContractDeploy
	PayloadContractCall
	PayloadData
)

// TransactionPayload is a tagged variant over the four transaction
// shapes: transfer, contract deploy, contract call, and opaque data.
type TransactionPayload struct {
	Kind PayloadKind

	// Transfer
	Amount uint64

	// ContractDeploy
	WasmBytes []byte

	// ContractCall
	Method string
	Args   []byte

	// Data
	Data []byte
}

func TransferPayload(amount uint64) TransactionPayload {
	return TransactionPayload{Kind: PayloadTransfer, Amount: amount}
}

func ContractDeployPayload(wasm []byte) TransactionPayload {
	return TransactionPayload{Kind: PayloadContractDeploy, WasmBytes: wasm}
}

func ContractCallPayload(method string, args []byte) TransactionPayload {
	return TransactionPayload{Kind: PayloadContractCall, Method: method, Args: args}
}

func DataPayload(data []byte) TransactionPayload {
	return TransactionPayload{Kind: PayloadData, Data: data}
}

// Transaction is a signed, hashed unit of intent against ledger state.
type Transaction struct {
	Hash      Hash
	Sender    ed25519.PublicKey
	Nonce     uint64
	Timestamp uint64
	Recipient Address
	Payload   TransactionPayload
	Signature []byte
	GasLimit  uint64
	Priority  uint8
	Metadata  map[string]string // optional; nil means absent
}

// ComputeHash recomputes SHA-256(canonical_encoding(...)) over the
// hashed fields.
func (tx *Transaction) ComputeHash() Hash {
	return Hash(crypto.Sum256(encodeTxForHashing(tx)))
}

// Sign derives the hash, signs it with signingKey, and stores both the
// hash and signature on the transaction.
func (tx *Transaction) Sign(signingKey ed25519.PrivateKey) {
	tx.Hash = tx.ComputeHash()
	tx.Signature = crypto.Sign(signingKey, tx.Hash[:])
}

// VerifySignature reports whether tx.Hash matches the recomputed
// canonical hash and tx.Signature is a valid Ed25519 signature over it
// under tx.Sender. Never panics.
func (tx *Transaction) VerifySignature() bool {
	if tx.ComputeHash() != tx.Hash {
		return false
	}
	return crypto.Verify(tx.Sender, tx.Hash[:], tx.Signature)
}

// Block is an immutable, hash-linked unit of ledger progress.
type Block struct {
	Index        uint64
	Timestamp    uint64
	PrevHash     Hash
	Hash         Hash
	Nonce        uint64
	Transactions []*Transaction
	Metadata     map[string]string
}

// ComputeHash recomputes SHA-256(canonical_encoding(...)) over the
// hashed fields.
func (b *Block) ComputeHash() Hash {
	return Hash(crypto.Sum256(encodeBlockForHashing(b)))
}

// IsGenesis reports whether b is the chain's genesis block.
func (b *Block) IsGenesis() bool {
	return b.Index == 0
}

// NewGenesisBlock constructs the canonical empty genesis block: index
// 0, zero prev-hash, no transactions.
func NewGenesisBlock() *Block {
	b := &Block{
		Index:        0,
		Timestamp:    0,
		PrevHash:     Hash{},
		Nonce:        0,
		Transactions: nil,
	}
	b.Hash = b.ComputeHash()
	return b
}

// AccountKind tags the Account variant.
type AccountKind uint8

const (
	AccountWallet AccountKind = iota
	AccountContract
)

// Account is a tagged variant over Wallet{balance,nonce} and
// Contract{code_hash,storage_root_hash,nonce}.
type Account struct {
	Kind AccountKind

	// Wallet
	Balance uint64

	// Contract
	CodeHash         Hash
	StorageRootHash  Hash

	Nonce uint64
}

func NewWalletAccount(balance uint64) *Account {
	return &Account{Kind: AccountWallet, Balance: balance, Nonce: 0}
}

func NewContractAccount(codeHash Hash, nonce uint64) *Account {
	return &Account{Kind: AccountContract, CodeHash: codeHash, Nonce: nonce}
}

func (a *Account) Clone() *Account {
	cp := *a
	return &cp
}

// ChainState is the singleton summarizing the tip of the chain.
type ChainState struct {
	LatestBlockHash   Hash
	LatestBlockIndex  uint64
	AccountsRootHash  Hash // reserved for future Merkleization; always zero in v1
	TotalSupply       uint64
}

func (c *ChainState) Clone() *ChainState {
	cp := *c
	return &cp
}
