package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	if err := store.Set(KeyAuthToken, "tok-123"); err != nil {
		t.Fatalf("set: %v", err)
	}

	var token string
	ok, err := store.Get(KeyAuthToken, &token)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if token != "tok-123" {
		t.Fatalf("expected tok-123, got %q", token)
	}

	if err := store.Delete(KeyAuthToken); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, err = store.Get(KeyAuthToken, &token)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if ok {
		t.Fatal("expected key to be gone")
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope", "session.json"))

	var token string
	ok, err := store.Get(KeyAuthToken, &token)
	if err != nil || ok {
		t.Fatalf("missing file should read as empty: ok=%v err=%v", ok, err)
	}
	if err := store.Delete(KeyAuthToken); err != nil {
		t.Fatalf("delete on missing file: %v", err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	store := NewFileStore(path)

	var token string
	ok, err := store.Get(KeyAuthToken, &token)
	if err != nil || ok {
		t.Fatalf("corrupt file should read as empty: ok=%v err=%v", ok, err)
	}
	if err := store.Set(KeyAuthToken, "fresh"); err != nil {
		t.Fatalf("set over corrupt file: %v", err)
	}
	ok, err = store.Get(KeyAuthToken, &token)
	if err != nil || !ok || token != "fresh" {
		t.Fatalf("expected fresh value, got ok=%v err=%v token=%q", ok, err, token)
	}
}
