// Package store is the Metadata Store DAO from spec §4.3: a
// relational store with a vector-typed column, generalized from
// unified-rag-service's pgxpool + pgvector wiring
// (initializeStorage, storeDocument, storeDocumentChunk,
// retrieveSimilarChunks) onto the court-registry data model of spec §3.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"courtregistry-ingest/internal/ids"
	"courtregistry-ingest/internal/model"
)

type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func New(ctx context.Context, databaseURL string, logger *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	return &Store{pool: pool, logger: logger}, nil
}

// Init issues the idempotent schema DDL.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("store: init schema: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// UpsertCaseByRegistryNumber creates a Case on first sight of a
// registry_number and returns its id either way, per spec §3's
// lifecycle rule: "A Case is created on first sight of any version
// referencing its registry_number; later versions attach to the same
// Case."
func (s *Store) UpsertCaseByRegistryNumber(ctx context.Context, tx pgx.Tx, registryNumber string, courtRef *model.ID, category string) (model.ID, error) {
	var id model.ID
	err := tx.QueryRow(ctx, `
		INSERT INTO cases (registry_number, court_ref, category, opened_at, status)
		VALUES ($1, $2, $3, now(), 'open')
		ON CONFLICT (registry_number) DO UPDATE SET registry_number = EXCLUDED.registry_number
		RETURNING id
	`, registryNumber, courtRef, category).Scan(&id)
	if err != nil {
		return model.ID{}, fmt.Errorf("store: upsert case: %w", err)
	}
	return id, nil
}

// AdvisoryLockDocument takes a transaction-scoped Postgres advisory
// lock keyed by docID, held until the transaction ends, per spec
// §9's "single-writer-per-document enforced by an advisory-lock-style
// coordination key derived from doc_id, taken before step 5 of §4.8".
// It guards persist() so a concurrent discovery re-fetch and
// reconciliation re-process of the same doc_id can never interleave
// their writes.
func (s *Store) AdvisoryLockDocument(ctx context.Context, tx pgx.Tx, docID string) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, docID)
	if err != nil {
		return fmt.Errorf("store: advisory lock doc_id=%s: %w", docID, err)
	}
	return nil
}

// InsertDocument creates a new Document row for a Case.
func (s *Store) InsertDocument(ctx context.Context, tx pgx.Tx, caseRef model.ID, docType model.DocumentType) (model.ID, error) {
	var id model.ID
	err := tx.QueryRow(ctx, `
		INSERT INTO documents (case_ref, type) VALUES ($1, $2) RETURNING id
	`, caseRef, docType).Scan(&id)
	if err != nil {
		return model.ID{}, fmt.Errorf("store: insert document: %w", err)
	}
	return id, nil
}

// NextVersionNumber returns max(version_number)+1 for a document, 1 if none exist.
func (s *Store) NextVersionNumber(ctx context.Context, tx pgx.Tx, documentRef model.ID) (int, error) {
	var max *int
	err := tx.QueryRow(ctx, `
		SELECT max(version_number) FROM document_versions WHERE document_ref = $1
	`, documentRef).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("store: next version number: %w", err)
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

// InsertVersion inserts an immutable DocumentVersion snapshot.
func (s *Store) InsertVersion(ctx context.Context, tx pgx.Tx, v model.DocumentVersion) (model.ID, error) {
	var id model.ID
	err := tx.QueryRow(ctx, `
		INSERT INTO document_versions
			(document_ref, version_number, published_at, source_url, source_hash, raw_storage_path, parsed_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, v.DocumentRef, v.VersionNumber, v.PublishedAt, v.SourceURL, v.SourceHash, v.RawStoragePath, v.ParsedJSON).Scan(&id)
	if err != nil {
		return model.ID{}, fmt.Errorf("store: insert version: %w", err)
	}
	return id, nil
}

// SetCurrentVersion advances Document.current_version_ref, per spec §3's
// invariant that it always points at the max version_number.
func (s *Store) SetCurrentVersion(ctx context.Context, tx pgx.Tx, documentRef, versionRef model.ID) error {
	_, err := tx.Exec(ctx, `
		UPDATE documents SET current_version_ref = $2 WHERE id = $1
	`, documentRef, versionRef)
	if err != nil {
		return fmt.Errorf("store: set current version: %w", err)
	}
	return nil
}

// InsertSections inserts a version's ordered sections and returns
// their ids, keyed by order_index. Sections are never mutated after
// insert (spec §3: "if re-parsed, the version's sections are fully
// replaced within a single transaction" — callers achieve replacement
// by calling ReplaceSections before this, within the same
// transaction).
func (s *Store) InsertSections(ctx context.Context, tx pgx.Tx, versionRef model.ID, sections []model.DocumentSection) ([]model.ID, error) {
	ids := make([]model.ID, len(sections))
	for i, sec := range sections {
		if sec.OrderIndex != i {
			return nil, fmt.Errorf("store: section order_index %d is not dense at position %d", sec.OrderIndex, i)
		}

		var sectionID model.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO document_sections (version_ref, section_type, order_index, text)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, versionRef, sec.SectionType, sec.OrderIndex, sec.Text).Scan(&sectionID)
		if err != nil {
			return nil, fmt.Errorf("store: insert section %d: %w", i, err)
		}
		ids[i] = sectionID
	}
	return ids, nil
}

// InsertChunks inserts one section's embedding chunks.
func (s *Store) InsertChunks(ctx context.Context, tx pgx.Tx, sectionRef model.ID, chunks []model.EmbeddingChunk) error {
	for _, chunk := range chunks {
		if len(chunk.Vector) != model.EmbeddingVectorDim {
			return fmt.Errorf("store: chunk %d has dim %d, want %d", chunk.ChunkIndex, len(chunk.Vector), model.EmbeddingVectorDim)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO embedding_chunks (section_ref, chunk_index, text, vector, token_count)
			VALUES ($1, $2, $3, $4, $5)
		`, sectionRef, chunk.ChunkIndex, chunk.Text, pgvector.NewVector(chunk.Vector), chunk.TokenCount)
		if err != nil {
			return fmt.Errorf("store: insert chunk %d of section %s: %w", chunk.ChunkIndex, sectionRef, err)
		}
	}
	return nil
}

// ReplaceSections deletes a version's existing sections (cascading to
// their chunks) ahead of a re-parse re-insert, within the caller's
// transaction.
func (s *Store) ReplaceSections(ctx context.Context, tx pgx.Tx, versionRef model.ID) error {
	_, err := tx.Exec(ctx, `
		DELETE FROM embedding_chunks WHERE section_ref IN (
			SELECT id FROM document_sections WHERE version_ref = $1
		)
	`, versionRef)
	if err != nil {
		return fmt.Errorf("store: delete chunks for replace: %w", err)
	}
	_, err = tx.Exec(ctx, `DELETE FROM document_sections WHERE version_ref = $1`, versionRef)
	if err != nil {
		return fmt.Errorf("store: delete sections for replace: %w", err)
	}
	return nil
}

// FoundVersion is the result of FindVersionByURL.
type FoundVersion struct {
	VersionID   model.ID
	DocumentRef model.ID
	SourceHash  string
}

// FindVersionByURL looks up the most recent version at a source_url.
// Nothing calls it: the discovery loop does not skip already-known
// URLs, and reconciliation takes its stored hashes from
// ListVersionsForReconciliation.
func (s *Store) FindVersionByURL(ctx context.Context, sourceURL string) (*FoundVersion, error) {
	var fv FoundVersion
	err := s.pool.QueryRow(ctx, `
		SELECT id, document_ref, source_hash FROM document_versions
		WHERE source_url = $1
		ORDER BY version_number DESC
		LIMIT 1
	`, sourceURL).Scan(&fv.VersionID, &fv.DocumentRef, &fv.SourceHash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("store: find version by url: %w", err)
	}
	return &fv, nil
}

// ReconciliationCandidate is one row of ListVersionsForReconciliation.
type ReconciliationCandidate struct {
	VersionID   model.ID
	DocumentRef model.ID
	SourceURL   string
	SourceHash  string
}

// ListVersionsForReconciliation scans current versions in bounded
// batches, per spec §4.7's "scans existing versions in batches
// (bounded size)".
func (s *Store) ListVersionsForReconciliation(ctx context.Context, limit, offset int) ([]ReconciliationCandidate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT dv.id, dv.document_ref, dv.source_url, dv.source_hash
		FROM document_versions dv
		JOIN documents d ON d.current_version_ref = dv.id
		ORDER BY dv.id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("store: list for reconciliation: %w", err)
	}
	defer rows.Close()

	var out []ReconciliationCandidate
	for rows.Next() {
		var c ReconciliationCandidate
		if err := rows.Scan(&c.VersionID, &c.DocumentRef, &c.SourceURL, &c.SourceHash); err != nil {
			return nil, fmt.Errorf("store: scan reconciliation candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// VectorSearchResult is one ranked hit from VectorSearch.
type VectorSearchResult struct {
	VersionRef model.ID
	CaseRef    model.ID
	ChunkText  string
	Distance   float64
	Similarity float64
}

// VectorSearch ranks chunks of a given section_type by ascending
// cosine distance to queryVector, per spec §4.3/§8: "ranks by
// ascending cosine distance; similarity = 1 − distance, clamped to
// [0, 1]".
func (s *Store) VectorSearch(ctx context.Context, sectionType model.SectionType, queryVector []float32, k int) ([]VectorSearchResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT dv.id, d.case_ref, ec.text, (ec.vector <=> $1) AS distance
		FROM embedding_chunks ec
		JOIN document_sections ds ON ds.id = ec.section_ref
		JOIN document_versions dv ON dv.id = ds.version_ref
		JOIN documents d ON d.id = dv.document_ref
		WHERE ds.section_type = $2
		ORDER BY ec.vector <=> $1
		LIMIT $3
	`, pgvector.NewVector(queryVector), sectionType, k)
	if err != nil {
		return nil, fmt.Errorf("store: vector search: %w", err)
	}
	defer rows.Close()

	var out []VectorSearchResult
	for rows.Next() {
		var r VectorSearchResult
		if err := rows.Scan(&r.VersionRef, &r.CaseRef, &r.ChunkText, &r.Distance); err != nil {
			return nil, fmt.Errorf("store: scan vector search result: %w", err)
		}
		r.Similarity = clampSimilarity(1 - r.Distance)
		out = append(out, r)
	}
	return out, rows.Err()
}

func clampSimilarity(sim float64) float64 {
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// BeginTx starts the single transaction each document/version write
// uses end to end (spec §4.3: "all writes for one document/version are
// a single transaction").
func (s *Store) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return s.pool.Begin(ctx)
}

// NewID is re-exported for callers that need to mint an id before an
// insert that requires one.
func NewID() model.ID { return ids.New() }
