package discovery

import (
	"context"
	"fmt"

	"courtregistry-ingest/internal/blobstore"
	"courtregistry-ingest/internal/model"
	"courtregistry-ingest/internal/store"
)

// Changed is one existing version whose current upstream bytes hash
// differently than the stored source_hash.
type Changed struct {
	DocumentRef model.ID
	URL         string
	NewHash     string
}

// Reconcile scans one bounded batch of current versions, re-fetches
// each URL, and reports those whose hash changed, per spec §4.7:
// "re-fetches the current URL, compares SHA-256 with the stored
// source_hash, and returns the list of changed versions for
// re-processing." Running this twice against an unchanged upstream
// appends nothing (spec §8's reconciliation law) because an unchanged
// hash is simply skipped. scanned is the number of candidates the
// batch actually examined (always up to limit, regardless of how many
// changed) so callers can tell "nothing changed" apart from "nothing
// left to scan" when deciding whether to keep paging.
func Reconcile(ctx context.Context, s *store.Store, monitor *Monitor, limit, offset int) (changed []Changed, scanned int, err error) {
	candidates, err := s.ListVersionsForReconciliation(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("discovery: list reconciliation candidates: %w", err)
	}

	for _, c := range candidates {
		body, err := monitor.get(ctx, c.SourceURL)
		if err != nil {
			// Transient fetch failure for one candidate never aborts
			// the rest of the batch.
			continue
		}
		newHash := blobstore.Hash(body)
		if newHash == c.SourceHash {
			continue
		}
		changed = append(changed, Changed{
			DocumentRef: c.DocumentRef,
			URL:         c.SourceURL,
			NewHash:     newHash,
		})
	}
	return changed, len(candidates), nil
}
