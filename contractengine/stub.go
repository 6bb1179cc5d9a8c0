package contractengine

import (
	"github.com/baals/baals-go/core/types"
	"github.com/baals/baals-go/crypto/ed25519"
)

// StubEngine is a deterministic contract engine used where no real
// WASM runtime is wired (dev mode, tests). It does not interpret wasm:
// deploy stores only a non-empty init payload, call records the last
// method and args in the contract's storage and echoes the args back,
// and query returns the last recorded args, matching the boundary's
// requirement that the ledger never depend on a concrete execution
// semantics.
type StubEngine struct{}

func NewStub() *StubEngine { return &StubEngine{} }

var _ Engine = (*StubEngine)(nil)

func (e *StubEngine) DeployContract(deployer ed25519.PublicKey, wasm []byte, initPayload []byte, storage StorageView, gasLimit uint64) (types.ContractId, error) {
	id := types.DeriveContractId(deployer, wasm)
	if len(initPayload) > 0 {
		storage.Put([]byte("__init__"), initPayload)
	}
	return id, nil
}

func (e *StubEngine) CallContract(caller ed25519.PublicKey, id types.ContractId, method string, args []byte, storage StorageView) ([]byte, error) {
	storage.Put([]byte("__last_method__"), []byte(method))
	storage.Put([]byte("__last_args__"), args)
	return args, nil
}

func (e *StubEngine) QueryContract(id types.ContractId, payload []byte, storage StorageView) ([]byte, error) {
	if v, ok := storage.Get([]byte("__last_args__")); ok {
		return v, nil
	}
	return nil, nil
}
