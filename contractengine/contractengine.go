// Package contractengine defines the opaque smart-contract execution
// boundary: the ledger dispatches ContractDeploy and ContractCall
// payloads to an Engine but never inspects contract bytecode or
// execution semantics itself. Core execution never imports a concrete
// WASM backend directly — a real interpreter is intentionally out of
// scope; the ledger only needs the boundary.
package contractengine

import (
	"errors"

	"github.com/baals/baals-go/core/types"
	"github.com/baals/baals-go/crypto/ed25519"
)

// ErrContractNotFound is returned when a call/query targets a contract
// id the engine has no deployed code for.
var ErrContractNotFound = errors.New("contractengine: contract not found")

// StorageView exposes a contract's key-value storage to the engine
// during deploy/call/query, scoped by the ledger so the engine never
// sees another contract's slots.
type StorageView interface {
	Get(key []byte) ([]byte, bool)
	Put(key, value []byte)
}

// Engine executes deployed contract code. Implementations must be
// deterministic: given the same code, storage, and call arguments,
// every node must compute the same storage mutations and return value.
type Engine interface {
	// DeployContract derives id = SHA-256(deployer || wasm) (see
	// types.DeriveContractId for the deterministic derivation),
	// validates wasm, runs any init payload against storage, and
	// returns id.
	DeployContract(deployer ed25519.PublicKey, wasm []byte, initPayload []byte, storage StorageView, gasLimit uint64) (types.ContractId, error)

	// CallContract invokes method on the contract at id with args
	// against storage, returning the method's return value.
	CallContract(caller ed25519.PublicKey, id types.ContractId, method string, args []byte, storage StorageView) ([]byte, error)

	// QueryContract is a read-only call: implementations must not
	// mutate storage from within Query.
	QueryContract(id types.ContractId, payload []byte, storage StorageView) ([]byte, error)
}
