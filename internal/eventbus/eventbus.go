// Package eventbus is the durable, doc_id-partitioned topic log from
// spec §4.2. It generalizes the Redis usage the teacher already
// leans on (legal-gateway/worker.go's BLPOP job queue and
// auth-handler.go's redis.Client) into Redis Streams, which gives us
// an ordered, durable log per topic. The package only produces (XADD);
// it has no consumer side. Ordering per doc_id is preserved by hashing
// doc_id (FNV-1a) to pick one of a fixed number of per-topic streams
// ("partitions"), so a single document's events on one topic are
// always appended to the same stream.
package eventbus

import (
	"context"
	"time"

	"courtregistry-ingest/internal/model"
)

// Topic names, verbatim from spec §6.
const (
	TopicDiscovered = "court.documents.discovered"
	TopicFetched    = "court.documents.fetched"
	TopicParsed     = "court.documents.parsed"
	TopicFailed     = "court.documents.failed"
)

type DiscoveredEvent struct {
	DocID       string    `json:"doc_id"`
	CaseID      string    `json:"case_id,omitempty"`
	URL         string    `json:"url"`
	DiscoveredAt time.Time `json:"discovered_at"`
	HashHint    string    `json:"hash_hint,omitempty"`
}

type FetchedEvent struct {
	DocID       string    `json:"doc_id"`
	StoragePath string    `json:"storage_path"`
	SHA256      string    `json:"sha256"`
	FetchedAt   time.Time `json:"fetched_at"`
}

type ParsedEvent struct {
	DocID     string   `json:"doc_id"`
	VersionID string   `json:"version_id"`
	Entities  any      `json:"entities,omitempty"`
	LawRefs   []string `json:"law_refs"`
	ParsedAt  time.Time `json:"parsed_at"`
}

type FailedEvent struct {
	DocID         string     `json:"doc_id"`
	Stage         model.Stage `json:"stage"`
	Error         string     `json:"error"`
	ErrorDetails  string     `json:"error_details,omitempty"`
	FailedAt      time.Time  `json:"failed_at"`
}

// Bus is the narrow publisher contract the Coordinator depends on.
// Events carry no producer sequence number, so publishes are not
// deduplicated: RedisBus appends each call with a server-assigned
// stream id. Publish must never block the pipeline on a downed bus:
// spec §4.2 makes the bus a
// side channel whose unavailability is logged and swallowed by the
// caller, not propagated as a pipeline failure.
type Bus interface {
	PublishDiscovered(ctx context.Context, ev DiscoveredEvent) error
	PublishFetched(ctx context.Context, ev FetchedEvent) error
	PublishParsed(ctx context.Context, ev ParsedEvent) error
	PublishFailed(ctx context.Context, ev FailedEvent) error
	Close() error
}
