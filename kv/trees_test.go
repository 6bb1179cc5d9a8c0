package kv

import (
	"testing"

	"github.com/baals/baals-go/kv/memorydb"
)

func TestStoreTreesAreIsolated(t *testing.T) {
	s := NewStore(memorydb.New())
	if err := s.Put(TreeAccounts, []byte("k"), []byte("account-value")); err != nil {
		t.Fatalf("Put accounts: %v", err)
	}
	if err := s.Put(TreeBlocks, []byte("k"), []byte("block-value")); err != nil {
		t.Fatalf("Put blocks: %v", err)
	}
	v, err := s.Get(TreeAccounts, []byte("k"))
	if err != nil || string(v) != "account-value" {
		t.Fatalf("accounts tree got %q, %v", v, err)
	}
	v, err = s.Get(TreeBlocks, []byte("k"))
	if err != nil || string(v) != "block-value" {
		t.Fatalf("blocks tree got %q, %v", v, err)
	}
}

func TestStoreHasAndDelete(t *testing.T) {
	s := NewStore(memorydb.New())
	if ok, _ := s.Has(TreeMempool, []byte("tx1")); ok {
		t.Fatal("expected key to be absent before Put")
	}
	if err := s.Put(TreeMempool, []byte("tx1"), []byte("payload")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ok, _ := s.Has(TreeMempool, []byte("tx1")); !ok {
		t.Fatal("expected key to be present after Put")
	}
	if err := s.Delete(TreeMempool, []byte("tx1")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := s.Has(TreeMempool, []byte("tx1")); ok {
		t.Fatal("expected key to be absent after Delete")
	}
}

func TestScanPrefixOrdersWithinTree(t *testing.T) {
	s := NewStore(memorydb.New())
	for _, k := range []string{"b", "a", "c"} {
		if err := s.Put(TreeAccounts, []byte(k), []byte(k)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	// Unrelated tree sharing the same underlying store must not leak in.
	if err := s.Put(TreeBlocks, []byte("a"), []byte("wrong-tree")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got []string
	err := s.ScanPrefix(TreeAccounts, nil, func(key, value []byte) error {
		got = append(got, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("ScanPrefix: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestScanPrefixRevReversesOrder(t *testing.T) {
	s := NewStore(memorydb.New())
	for _, k := range []string{"a", "b", "c"} {
		if err := s.Put(TreeAccounts, []byte(k), []byte(k)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	var got []string
	err := s.ScanPrefixRev(TreeAccounts, nil, func(key, value []byte) error {
		got = append(got, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("ScanPrefixRev: %v", err)
	}
	want := []string{"c", "b", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTreeBatchIsAtomicAcrossTrees(t *testing.T) {
	s := NewStore(memorydb.New())
	b := s.NewBatch()
	if err := b.Put(TreeAccounts, []byte("k1"), []byte("v1")); err != nil {
		t.Fatalf("batch Put accounts: %v", err)
	}
	if err := b.Put(TreeBlocks, []byte("k2"), []byte("v2")); err != nil {
		t.Fatalf("batch Put blocks: %v", err)
	}
	if ok, _ := s.Has(TreeAccounts, []byte("k1")); ok {
		t.Fatal("unwritten batch op already visible")
	}
	if err := b.Write(); err != nil {
		t.Fatalf("batch Write: %v", err)
	}
	if ok, _ := s.Has(TreeAccounts, []byte("k1")); !ok {
		t.Fatal("accounts write did not apply")
	}
	if ok, _ := s.Has(TreeBlocks, []byte("k2")); !ok {
		t.Fatal("blocks write did not apply")
	}
}

func TestHeightKeyOrdersNumerically(t *testing.T) {
	if string(HeightKey(9)) >= string(HeightKey(10)) {
		t.Fatalf("HeightKey(9)=%q must sort before HeightKey(10)=%q", HeightKey(9), HeightKey(10))
	}
	if string(HeightKey(99)) >= string(HeightKey(100)) {
		t.Fatalf("HeightKey(99)=%q must sort before HeightKey(100)=%q", HeightKey(99), HeightKey(100))
	}
}
