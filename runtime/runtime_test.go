package runtime

import (
	"context"
	"testing"

	"github.com/baals/baals-go/consensus/poa"
	"github.com/baals/baals-go/contractengine"
	"github.com/baals/baals-go/core/types"
	"github.com/baals/baals-go/crypto/ed25519"
	"github.com/baals/baals-go/kv"
	"github.com/baals/baals-go/kv/memorydb"
	"github.com/baals/baals-go/synclayer"
)

func newTestRuntime(t *testing.T) (*Runtime, ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	authority, signingKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	store := kv.NewStore(memorydb.New())
	engine := poa.New(authority, signingKey, 5)
	rt, err := New(store, contractengine.NewStub(), engine, synclayer.NewNoop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rt, authority, signingKey
}

func submitTransfer(t *testing.T, rt *Runtime, sender ed25519.PublicKey, senderKey ed25519.PrivateKey, recipient ed25519.PublicKey, amount, nonce uint64) *types.Transaction {
	t.Helper()
	tx := &types.Transaction{
		Sender:    sender,
		Nonce:     nonce,
		Timestamp: nonce,
		Recipient: types.WalletAddress(recipient),
		Payload:   types.TransferPayload(amount),
	}
	tx.Sign(senderKey)
	if err := rt.SubmitTransaction(tx); err != nil {
		t.Fatalf("SubmitTransaction: %v", err)
	}
	return tx
}

func TestRuntimeProduceBlockEndToEnd(t *testing.T) {
	rt, _, _ := newTestRuntime(t)

	sender, senderKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	recipient, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	// SubmitTransaction treats an absent sender account as nonce 0, so
	// admission succeeds; the runtime has no faucet, so applying the
	// block then fails because the sender has no account. Transfer
	// success is covered at the ledger layer.
	tx := &types.Transaction{
		Sender:    sender,
		Nonce:     1,
		Timestamp: 1,
		Recipient: types.WalletAddress(recipient),
		Payload:   types.TransferPayload(10),
	}
	tx.Sign(senderKey)
	if err := rt.SubmitTransaction(tx); err != nil {
		t.Fatalf("SubmitTransaction: %v", err)
	}

	block, err := rt.ProduceBlock(context.Background())
	if err == nil {
		t.Fatalf("expected ProduceBlock to fail applying a transfer from an unfunded account, got block %v", block)
	}

	state := rt.GetChainState()
	if state.LatestBlockIndex != 0 {
		t.Fatalf("chain must not have advanced on a failed apply: %+v", state)
	}
}

func TestRuntimeSubmitTransactionRejectsBadSignature(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	sender, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	_, otherKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	recipient, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	tx := &types.Transaction{
		Sender:    sender,
		Nonce:     1,
		Timestamp: 1,
		Recipient: types.WalletAddress(recipient),
		Payload:   types.TransferPayload(10),
	}
	tx.Sign(otherKey) // signed by the wrong key

	if err := rt.SubmitTransaction(tx); err == nil {
		t.Fatal("expected SubmitTransaction to reject a mismatched signature")
	}
}

func TestRuntimeSubmitTransactionRejectsReplayedNonce(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	sender, senderKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	recipient, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	funded := &types.Account{Kind: types.AccountWallet, Balance: 100, Nonce: 0}
	if err := rt.store.Put(kv.TreeAccounts, sender, types.EncodeAccount(funded)); err != nil {
		t.Fatalf("seed funded wallet: %v", err)
	}

	// Admission compares against the stored nonce, so the first
	// transfer must be committed before its nonce counts as used.
	submitTransfer(t, rt, sender, senderKey, recipient, 1, 1)
	if _, err := rt.ProduceBlock(context.Background()); err != nil {
		t.Fatalf("ProduceBlock: %v", err)
	}

	replay := &types.Transaction{
		Sender:    sender,
		Nonce:     1,
		Timestamp: 2,
		Recipient: types.WalletAddress(recipient),
		Payload:   types.TransferPayload(1),
	}
	replay.Sign(senderKey)
	if err := rt.SubmitTransaction(replay); err == nil {
		t.Fatal("expected SubmitTransaction to reject a replayed nonce")
	}
}

func TestRuntimeProduceBlockNoPendingTransactions(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	if _, err := rt.ProduceBlock(context.Background()); err == nil {
		t.Fatal("expected ProduceBlock to fail with an empty mempool")
	}
}

func TestRuntimeProduceBlockAppliesFundedTransfer(t *testing.T) {
	authority, signingKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	sender, senderKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	recipient, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	store := kv.NewStore(memorydb.New())
	funded := &types.Account{Kind: types.AccountWallet, Balance: 100, Nonce: 0}
	if err := store.Put(kv.TreeAccounts, sender, types.EncodeAccount(funded)); err != nil {
		t.Fatalf("seed funded wallet: %v", err)
	}

	engine := poa.New(authority, signingKey, 5)
	rt, err := New(store, contractengine.NewStub(), engine, synclayer.NewNoop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	submitTransfer(t, rt, sender, senderKey, recipient, 40, 1)

	block, err := rt.ProduceBlock(context.Background())
	if err != nil {
		t.Fatalf("ProduceBlock: %v", err)
	}
	if block.Index != 1 || len(block.Transactions) != 1 {
		t.Fatalf("unexpected block: index=%d txs=%d", block.Index, len(block.Transactions))
	}

	state := rt.GetChainState()
	if state.LatestBlockIndex != 1 || state.LatestBlockHash != block.Hash {
		t.Fatalf("chain state did not advance: %+v", state)
	}

	accSender, _, err := rt.GetAccount(types.WalletAddress(sender))
	if err != nil {
		t.Fatalf("GetAccount(sender): %v", err)
	}
	if accSender.Balance != 60 || accSender.Nonce != 1 {
		t.Fatalf("sender account wrong after produce: %+v", accSender)
	}

	accRecipient, ok, err := rt.GetAccount(types.WalletAddress(recipient))
	if err != nil || !ok {
		t.Fatalf("GetAccount(recipient): ok=%v err=%v", ok, err)
	}
	if accRecipient.Balance != 40 {
		t.Fatalf("recipient account wrong after produce: %+v", accRecipient)
	}

	// mempool pruning: the included tx must no longer be pending.
	rt.mempoolMu.Lock()
	remaining := rt.pool.Len()
	rt.mempoolMu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected mempool to be pruned after inclusion, got %d remaining", remaining)
	}
}
