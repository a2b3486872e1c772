package blobstore

import (
	"context"
	"testing"
)

func TestFileSystemStoreSaveLoadRoundTrip(t *testing.T) {
	store := NewFileSystemStore(t.TempDir())
	ctx := context.Background()

	data := []byte("<html>decision text</html>")
	path, err := store.Save(ctx, "42", data, ExtHTML)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	exists, err := store.Exists(ctx, path)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Fatalf("expected path %q to exist after Save", path)
	}

	loaded, err := store.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(loaded) != string(data) {
		t.Fatalf("Load returned %q, want %q", loaded, data)
	}
}

func TestFileSystemStoreHashIsSHA256(t *testing.T) {
	data := []byte("hello")
	// known SHA-256 of "hello"
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := Hash(data); got != want {
		t.Fatalf("Hash(%q) = %q, want %q", data, got, want)
	}
}

func TestFileSystemStoreExistsFalseForMissing(t *testing.T) {
	store := NewFileSystemStore(t.TempDir())
	exists, err := store.Exists(context.Background(), "999/nonexistent.html")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatalf("expected missing path to report not-exists")
	}
}
