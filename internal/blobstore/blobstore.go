// Package blobstore is the content-addressed raw-document archive
// (spec §4.1). It exposes one interface with two concrete backends: a
// local filesystem root and an S3-API object store (MinIO), following
// the dual FileSystem/ObjectStore sum type spec §9 calls for.
package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Ext enumerates the two raw content extensions spec §4.1 names.
type Ext string

const (
	ExtHTML Ext = "html"
	ExtPDF  Ext = "pdf"
)

// Store is the narrow contract every backend implements.
type Store interface {
	// Save writes bytes under a fresh timestamped path for doc_id and
	// returns the storage path used.
	Save(ctx context.Context, docID string, data []byte, ext Ext) (string, error)
	// Load reads back bytes previously written at path. Idempotent.
	Load(ctx context.Context, path string) ([]byte, error)
	// Exists reports whether path is present without reading it.
	Exists(ctx context.Context, path string) (bool, error)
}

// Hash computes the canonical SHA-256 hex digest of raw bytes. This is
// the sole cross-doc_id dedup key (spec §4.1: "the store does not
// deduplicate across doc_ids; the Metadata Store's source_hash column
// is the canonical dedup key").
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// timestampedPath builds the "{doc_id}/{UTC-compact-timestamp}.{ext}"
// layout spec §4.1 and §6 specify.
func timestampedPath(docID string, ext Ext, now time.Time) string {
	return fmt.Sprintf("%s/%s.%s", docID, now.UTC().Format("20060102T150405.000000000Z"), ext)
}
