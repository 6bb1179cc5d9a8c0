package memorydb

import "testing"

func TestPutGetDelete(t *testing.T) {
	db := New()
	if err := db.Put([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, err := db.Get([]byte("a"))
	if err != nil || string(v) != "1" {
		t.Fatalf("Get: %q, %v", v, err)
	}
	ok, err := db.Has([]byte("a"))
	if err != nil || !ok {
		t.Fatalf("Has: %v, %v", ok, err)
	}
	if err := db.Delete([]byte("a")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := db.Has([]byte("a")); ok {
		t.Fatal("key still present after delete")
	}
}

func TestGetMissingKey(t *testing.T) {
	db := New()
	if _, err := db.Get([]byte("missing")); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOperationsAfterCloseFail(t *testing.T) {
	db := New()
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := db.Put([]byte("a"), []byte("1")); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := db.Get([]byte("a")); err != ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestBatchIsAtomicUntilWrite(t *testing.T) {
	db := New()
	b := db.NewBatch()
	if err := b.Put([]byte("x"), []byte("1")); err != nil {
		t.Fatalf("batch Put: %v", err)
	}
	if ok, _ := db.Has([]byte("x")); ok {
		t.Fatal("unwritten batch op is already visible")
	}
	if err := b.Write(); err != nil {
		t.Fatalf("batch Write: %v", err)
	}
	if ok, _ := db.Has([]byte("x")); !ok {
		t.Fatal("batch write did not apply")
	}
}

func TestBatchReset(t *testing.T) {
	db := New()
	b := db.NewBatch()
	_ = b.Put([]byte("x"), []byte("1"))
	b.Reset()
	if err := b.Write(); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if ok, _ := db.Has([]byte("x")); ok {
		t.Fatal("reset batch op was still written")
	}
}

func TestNewIteratorOrdersKeysAndRespectsPrefix(t *testing.T) {
	db := New()
	for _, k := range []string{"p:b", "p:a", "p:c", "q:z"} {
		if err := db.Put([]byte(k), []byte(k)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	it := db.NewIterator([]byte("p:"), false)
	defer it.Release()
	var got []string
	for it.Next() {
		got = append(got, string(it.Key()))
	}
	want := []string{"p:a", "p:b", "p:c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestNewIteratorReverse(t *testing.T) {
	db := New()
	for _, k := range []string{"p:a", "p:b", "p:c"} {
		if err := db.Put([]byte(k), []byte(k)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	it := db.NewIterator([]byte("p:"), true)
	defer it.Release()
	var got []string
	for it.Next() {
		got = append(got, string(it.Key()))
	}
	want := []string{"p:c", "p:b", "p:a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
