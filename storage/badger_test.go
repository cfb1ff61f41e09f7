package storage

import (
	"bytes"
	"testing"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_LookupMissing(t *testing.T) {
	s := openMemory(t)
	val, ok, err := s.Lookup([]byte("missing"))
	if err != nil || ok || val != nil {
		t.Errorf("Lookup(missing) = %x, %v, %v", val, ok, err)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := openMemory(t)
	key := []byte("k")
	if err := s.Store(key, []byte{1, 2, 3}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	val, ok, err := s.Lookup(key)
	if err != nil || !ok {
		t.Fatalf("Lookup failed: %v %v", ok, err)
	}
	if !bytes.Equal(val, []byte{1, 2, 3}) {
		t.Errorf("value = %x", val)
	}

	if err := s.Store(key, []byte{9}); err != nil {
		t.Fatal(err)
	}
	val, _, _ = s.Lookup(key)
	if !bytes.Equal(val, []byte{9}) {
		t.Errorf("overwrite not applied: %x", val)
	}
}

func TestOpen_Disk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open(%s) failed: %v", dir, err)
	}
	if err := s.Store([]byte("a"), []byte("b")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	val, ok, err := s.Lookup([]byte("a"))
	if err != nil || !ok || string(val) != "b" {
		t.Errorf("value not persisted: %q %v %v", val, ok, err)
	}
}
