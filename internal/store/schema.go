package store

// schema is issued idempotently at startup, the same way
// unified-rag-service.initializeStorage() and
// document-chunker.initializeSchema() provision their tables: plain
// `CREATE TABLE IF NOT EXISTS` plus an HNSW vector index, no migration
// framework.
const schema = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS courts (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	region TEXT NOT NULL,
	level TEXT NOT NULL,
	UNIQUE (name, region)
);

CREATE TABLE IF NOT EXISTS judges (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	full_name TEXT NOT NULL,
	court_ref UUID REFERENCES courts(id)
);

CREATE TABLE IF NOT EXISTS cases (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	registry_number TEXT NOT NULL UNIQUE,
	court_ref UUID REFERENCES courts(id),
	category TEXT,
	opened_at TIMESTAMPTZ,
	closed_at TIMESTAMPTZ,
	status TEXT NOT NULL DEFAULT 'open'
);

CREATE TABLE IF NOT EXISTS documents (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	case_ref UUID NOT NULL REFERENCES cases(id),
	type TEXT NOT NULL,
	current_version_ref UUID
);

CREATE TABLE IF NOT EXISTS document_versions (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	document_ref UUID NOT NULL REFERENCES documents(id),
	version_number INTEGER NOT NULL,
	published_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	source_url TEXT NOT NULL,
	source_hash TEXT NOT NULL,
	raw_storage_path TEXT NOT NULL,
	parsed_json JSONB,
	UNIQUE (document_ref, version_number)
);

CREATE INDEX IF NOT EXISTS idx_document_versions_source_url ON document_versions(source_url);
CREATE INDEX IF NOT EXISTS idx_document_versions_source_hash ON document_versions(source_hash);

CREATE TABLE IF NOT EXISTS parties (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	type TEXT NOT NULL,
	normalized_name TEXT NOT NULL,
	tax_id TEXT,
	UNIQUE (normalized_name, tax_id)
);

CREATE TABLE IF NOT EXISTS case_parties (
	case_ref UUID NOT NULL REFERENCES cases(id),
	party_ref UUID NOT NULL REFERENCES parties(id),
	role TEXT NOT NULL,
	PRIMARY KEY (case_ref, party_ref, role)
);

CREATE TABLE IF NOT EXISTS law_articles (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	code TEXT NOT NULL UNIQUE,
	title TEXT
);

CREATE TABLE IF NOT EXISTS document_law_refs (
	version_ref UUID NOT NULL REFERENCES document_versions(id),
	article_ref UUID NOT NULL REFERENCES law_articles(id),
	PRIMARY KEY (version_ref, article_ref)
);

CREATE TABLE IF NOT EXISTS decision_outcomes (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	version_ref UUID NOT NULL REFERENCES document_versions(id),
	party_ref UUID NOT NULL REFERENCES parties(id),
	result TEXT NOT NULL,
	amount_awarded NUMERIC(20,2),
	currency TEXT,
	UNIQUE (version_ref, party_ref)
);

CREATE TABLE IF NOT EXISTS document_sections (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	version_ref UUID NOT NULL REFERENCES document_versions(id),
	section_type TEXT NOT NULL,
	order_index INTEGER NOT NULL,
	text TEXT NOT NULL,
	UNIQUE (version_ref, order_index)
);

CREATE TABLE IF NOT EXISTS embedding_chunks (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	section_ref UUID NOT NULL REFERENCES document_sections(id),
	chunk_index INTEGER NOT NULL,
	text TEXT NOT NULL,
	vector vector(1536),
	token_count INTEGER NOT NULL DEFAULT 0,
	UNIQUE (section_ref, chunk_index)
);

CREATE INDEX IF NOT EXISTS idx_embedding_chunks_hnsw ON embedding_chunks
USING hnsw (vector vector_cosine_ops) WITH (m = 16, ef_construction = 64);

CREATE TABLE IF NOT EXISTS case_relations (
	from_case_ref UUID NOT NULL REFERENCES cases(id),
	to_case_ref UUID NOT NULL REFERENCES cases(id),
	relation_type TEXT NOT NULL,
	PRIMARY KEY (from_case_ref, to_case_ref, relation_type)
);

CREATE TABLE IF NOT EXISTS document_relations (
	from_version_ref UUID NOT NULL REFERENCES document_versions(id),
	to_version_ref UUID NOT NULL REFERENCES document_versions(id),
	relation_type TEXT NOT NULL,
	PRIMARY KEY (from_version_ref, to_version_ref, relation_type)
);
`
