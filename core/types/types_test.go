package types

import (
	"testing"

	"github.com/baals/baals-go/crypto/ed25519"
)

func genKey(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return pub, priv
}

func TestTransactionHashDeterminism(t *testing.T) {
	pub, _ := genKey(t)
	tx := &Transaction{
		Sender:    pub,
		Nonce:     1,
		Timestamp: 42,
		Recipient: WalletAddress(pub),
		Payload:   TransferPayload(100),
		Metadata:  map[string]string{"b": "2", "a": "1"},
	}
	h1 := tx.ComputeHash()
	h2 := tx.ComputeHash()
	if h1 != h2 {
		t.Fatal("hash must be deterministic across recomputation")
	}
	clone := *tx
	if clone.ComputeHash() != h1 {
		t.Fatal("hash must depend only on canonical-encoded fields")
	}
}

func TestTransactionSignVerifyRoundTrip(t *testing.T) {
	pub, priv := genKey(t)
	recipientPub, _ := genKey(t)
	tx := &Transaction{
		Sender:    pub,
		Nonce:     1,
		Timestamp: 1,
		Recipient: WalletAddress(recipientPub),
		Payload:   TransferPayload(10),
	}
	tx.Sign(priv)
	if !tx.VerifySignature() {
		t.Fatal("expected freshly signed tx to verify")
	}

	mutated := *tx
	mutated.Nonce++
	if mutated.VerifySignature() {
		t.Fatal("mutating a hashed field must invalidate the signature")
	}

	mutatedSig := *tx
	mutatedSig.Signature = append([]byte(nil), tx.Signature...)
	mutatedSig.Signature[0] ^= 0xff
	if mutatedSig.VerifySignature() {
		t.Fatal("mutating the signature must invalidate verification")
	}
}

func TestBlockHashDeterminism(t *testing.T) {
	b := NewGenesisBlock()
	if b.Index != 0 || b.PrevHash != (Hash{}) || len(b.Transactions) != 0 {
		t.Fatal("genesis block must have index 0, zero prev-hash, no transactions")
	}
	if b.ComputeHash() != b.Hash {
		t.Fatal("genesis hash must match recomputation")
	}
}

func TestTransactionEncodeDecodeRoundTrip(t *testing.T) {
	pub, priv := genKey(t)
	recipientPub, _ := genKey(t)
	tx := &Transaction{
		Sender:    pub,
		Nonce:     7,
		Timestamp: 1000,
		Recipient: WalletAddress(recipientPub),
		Payload:   ContractCallPayload("transfer", []byte{1, 2, 3}),
		GasLimit:  5000,
		Priority:  3,
		Metadata:  map[string]string{"memo": "hi"},
	}
	tx.Sign(priv)

	raw := EncodeTransaction(tx)
	decoded, err := DecodeTransaction(raw)
	if err != nil {
		t.Fatalf("DecodeTransaction: %v", err)
	}
	if decoded.Hash != tx.Hash || decoded.Nonce != tx.Nonce || decoded.GasLimit != tx.GasLimit {
		t.Fatal("decoded transaction does not match original")
	}
	if !decoded.VerifySignature() {
		t.Fatal("decoded transaction must still verify")
	}
}

func TestAddressVariants(t *testing.T) {
	pub, _ := genKey(t)
	w := WalletAddress(pub)
	if !w.IsWallet() || w.IsContract() {
		t.Fatal("expected wallet address")
	}
	cid := DeriveContractId(pub, []byte("wasm"))
	c := ContractAddress(cid)
	if !c.IsContract() || c.IsWallet() {
		t.Fatal("expected contract address")
	}
}

func FuzzTransactionEncodeDecode(f *testing.F) {
	f.Add(uint64(1), uint64(2), uint64(50), "memo")
	f.Fuzz(func(t *testing.T, nonce, ts, amount uint64, memo string) {
		pub, priv := genKey(t)
		recipientPub, _ := genKey(t)
		tx := &Transaction{
			Sender:    pub,
			Nonce:     nonce,
			Timestamp: ts,
			Recipient: WalletAddress(recipientPub),
			Payload:   TransferPayload(amount),
			Metadata:  map[string]string{"memo": memo},
		}
		tx.Sign(priv)
		raw := EncodeTransaction(tx)
		decoded, err := DecodeTransaction(raw)
		if err != nil {
			t.Fatalf("DecodeTransaction: %v", err)
		}
		if decoded.ComputeHash() != tx.Hash {
			t.Fatal("round-tripped transaction hash mismatch")
		}
	})
}
