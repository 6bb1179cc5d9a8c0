package ed25519

import (
	"bytes"
	"testing"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	pub, priv, err := GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	msg := []byte("baals-go")
	sig := Sign(priv, msg)
	if !Verify(pub, msg, sig) {
		t.Fatal("expected signature to verify")
	}
	if Verify(pub, []byte("tampered"), sig) {
		t.Fatal("expected signature over different message to fail")
	}
	tampered := append([]byte(nil), sig...)
	tampered[0] ^= 0xff
	if Verify(pub, msg, tampered) {
		t.Fatal("expected tampered signature to fail")
	}
}

func TestPublicFromPrivate(t *testing.T) {
	pub, priv, err := GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	if !bytes.Equal(pub, PublicFromPrivate(priv)) {
		t.Fatal("derived public key mismatch")
	}
}
