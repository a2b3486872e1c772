// Package coordinator owns the end-to-end flow from spec §4.8: it is
// the only writer to the Metadata Store, driving each discovery tuple
// through discovered -> fetched -> parsed -> persisted -> embedded (or
// a failed(stage) event), one otel span and metrics increment per
// stage, mirroring legal-gateway/worker.go's per-job span wrapping.
package coordinator

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"courtregistry-ingest/internal/blobstore"
	"courtregistry-ingest/internal/discovery"
	"courtregistry-ingest/internal/embedding"
	"courtregistry-ingest/internal/eventbus"
	"courtregistry-ingest/internal/fetcher"
	"courtregistry-ingest/internal/metrics"
	"courtregistry-ingest/internal/model"
	"courtregistry-ingest/internal/parser"
	"courtregistry-ingest/internal/store"
	"courtregistry-ingest/internal/xjson"
)

var tracer = otel.Tracer("courtregistry-ingest/coordinator")

// Coordinator wires the stage components together. It holds no
// per-document state between calls to ProcessTuple: a failure on one
// document never corrupts another's run.
type Coordinator struct {
	blobs    blobstore.Store
	fetchers *fetcher.Pool
	bus      eventbus.Bus
	st       *store.Store
	chunker  *embedding.Chunker
	metrics  *metrics.Metrics
	logger   *zap.Logger

	confidenceThreshold float64
}

func New(
	blobs blobstore.Store,
	fetchers *fetcher.Pool,
	bus eventbus.Bus,
	st *store.Store,
	chunker *embedding.Chunker,
	m *metrics.Metrics,
	logger *zap.Logger,
	confidenceThreshold float64,
) *Coordinator {
	return &Coordinator{
		blobs:               blobs,
		fetchers:            fetchers,
		bus:                 bus,
		st:                  st,
		chunker:             chunker,
		metrics:             m,
		logger:              logger,
		confidenceThreshold: confidenceThreshold,
	}
}

// ProcessTuple runs the 7-step algorithm of spec §4.8 for one
// discovery tuple. It never panics out to the caller: a recovered
// panic is reported as a failed(stage) event so one bad document
// cannot take down the batch.
func (c *Coordinator) ProcessTuple(ctx context.Context, tuple discovery.Tuple) (err error) {
	ctx, span := tracer.Start(ctx, "coordinator.process_tuple", trace.WithAttributes(
		attribute.String("doc_id", tuple.DocID),
	))
	defer span.End()

	c.metrics.ActiveInFlight.Inc()
	defer c.metrics.ActiveInFlight.Dec()
	if tuple.ExistingDocumentRef != nil {
		c.metrics.ReconciliationChanged.Inc()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("coordinator: panic processing doc_id=%s: %v", tuple.DocID, r)
			c.publishFailed(ctx, tuple.DocID, model.StageDiscovery, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	// Step 1: discovered
	c.stageSpan(ctx, "discovery", func(ctx context.Context) {
		c.bus.PublishDiscovered(ctx, eventbus.DiscoveredEvent{
			DocID:        tuple.DocID,
			URL:          tuple.URL,
			HashHint:     tuple.HashHint,
			DiscoveredAt: time.Now().UTC(),
		})
	})
	c.metrics.DocumentsDiscovered.WithLabelValues("success").Inc()

	// Step 2: fetch
	var fr *fetcher.Result
	c.stageSpan(ctx, "fetch", func(ctx context.Context) {
		fr, err = c.fetchers.Fetch(ctx, tuple.URL, tuple.DocID)
	})
	if err != nil {
		c.metrics.DocumentsFetched.WithLabelValues("failed").Inc()
		c.fail(ctx, tuple.DocID, model.StageFetch, err)
		return err
	}
	if fr == nil {
		// Terminal 404: no version written, per spec §4.8 step 2.
		c.metrics.DocumentsFetched.WithLabelValues("failed").Inc()
		c.fail(ctx, tuple.DocID, model.StageFetch, fmt.Errorf("coordinator: fetch returned null for %s", tuple.URL))
		return nil
	}
	c.metrics.DocumentsFetched.WithLabelValues("success").Inc()

	storagePath, err := c.blobs.Save(ctx, tuple.DocID, fr.Bytes, extForContentType(fr.ContentType))
	if err != nil {
		c.fail(ctx, tuple.DocID, model.StageFetch, fmt.Errorf("coordinator: blob save: %w", err))
		return err
	}

	// Step 3: fetched
	c.bus.PublishFetched(ctx, eventbus.FetchedEvent{
		DocID:       tuple.DocID,
		StoragePath: storagePath,
		SHA256:      fr.Hash,
		FetchedAt:   fr.FetchedAt,
	})

	// Step 4: parse
	var parsed parser.Result
	c.stageSpan(ctx, "parse", func(ctx context.Context) {
		parsed = parser.Parse(fr.Bytes, fr.ContentType)
	})
	c.metrics.DocumentsParsed.WithLabelValues(parseStatus(parsed)).Inc()

	// Step 5: persist within one transaction.
	versionID, sectionIDs, err := c.persist(ctx, tuple, fr, storagePath, parsed)
	if err != nil {
		c.fail(ctx, tuple.DocID, model.StageParse, err)
		return err
	}

	// Step 6: chunk + embed each non-empty section.
	if parsed.Confidence > 0 {
		c.stageSpan(ctx, "embedding", func(ctx context.Context) {
			err = c.embedSections(ctx, parsed.Sections, sectionIDs)
		})
		if err != nil {
			c.fail(ctx, tuple.DocID, model.StageEmbedding, err)
			return err
		}
	}

	// Step 7: parsed
	c.bus.PublishParsed(ctx, eventbus.ParsedEvent{
		DocID:     tuple.DocID,
		VersionID: versionID.String(),
		LawRefs:   parsed.LawReferences,
		ParsedAt:  time.Now().UTC(),
	})

	return nil
}

// persist writes Case/Document/DocumentVersion/Sections in one
// transaction (spec §4.8 step 5) and returns the new version id
// alongside each section's freshly inserted id, in section order, so
// embedSections can attach chunks afterward without re-inserting
// sections. When tuple.ExistingDocumentRef is set (a reconciliation
// re-process), the new version attaches to that Document instead of
// creating another one, per spec §4.8/§4.7's reconciliation semantics.
func (c *Coordinator) persist(ctx context.Context, tuple discovery.Tuple, fr *fetcher.Result, storagePath string, parsed parser.Result) (model.ID, []model.ID, error) {
	tx, err := c.st.BeginTx(ctx)
	if err != nil {
		return model.ID{}, nil, fmt.Errorf("coordinator: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := c.st.AdvisoryLockDocument(ctx, tx, tuple.DocID); err != nil {
		return model.ID{}, nil, err
	}

	var documentID model.ID
	if tuple.ExistingDocumentRef != nil {
		documentID = *tuple.ExistingDocumentRef
	} else {
		registryNumber := parsed.CaseNumber
		if registryNumber == "" {
			// Placeholder per spec §4.8 step 5: "synthesize a placeholder
			// using doc_id if absent".
			registryNumber = "UNKNOWN/" + tuple.DocID
		}

		caseID, err := c.st.UpsertCaseByRegistryNumber(ctx, tx, registryNumber, nil, "")
		if err != nil {
			return model.ID{}, nil, err
		}

		documentID, err = c.st.InsertDocument(ctx, tx, caseID, model.DocumentTypeDecision)
		if err != nil {
			return model.ID{}, nil, err
		}
	}

	versionNumber, err := c.st.NextVersionNumber(ctx, tx, documentID)
	if err != nil {
		return model.ID{}, nil, err
	}

	parsedJSON, err := xjson.Marshal(parsed)
	if err != nil {
		return model.ID{}, nil, fmt.Errorf("coordinator: marshal parsed result: %w", err)
	}

	versionID, err := c.st.InsertVersion(ctx, tx, model.DocumentVersion{
		DocumentRef:    documentID,
		VersionNumber:  versionNumber,
		PublishedAt:    fr.FetchedAt,
		SourceURL:      tuple.URL,
		SourceHash:     fr.Hash,
		RawStoragePath: storagePath,
		ParsedJSON:     parsedJSON,
	})
	if err != nil {
		return model.ID{}, nil, err
	}

	if err := c.st.SetCurrentVersion(ctx, tx, documentID, versionID); err != nil {
		return model.ID{}, nil, err
	}

	for i := range parsed.Sections {
		parsed.Sections[i].VersionRef = versionID
	}
	sectionIDs, err := c.st.InsertSections(ctx, tx, versionID, parsed.Sections)
	if err != nil {
		return model.ID{}, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.ID{}, nil, fmt.Errorf("coordinator: commit: %w", err)
	}
	return versionID, sectionIDs, nil
}

// embedSections chunks and embeds every non-empty section, attaching
// chunks to the already-persisted section ids in its own short
// transaction per section — kept separate from persist() because
// embedding calls an external HTTP provider and must not hold the
// main write transaction open across a network round trip.
func (c *Coordinator) embedSections(ctx context.Context, sections []model.DocumentSection, sectionIDs []model.ID) error {
	for i, sec := range sections {
		if sec.Text == "" {
			continue
		}
		chunks, err := c.chunker.ChunkAndEmbed(ctx, sec.Text)
		if err != nil {
			return fmt.Errorf("coordinator: embed section %d: %w", sec.OrderIndex, err)
		}
		if len(chunks) == 0 {
			continue
		}

		tx, err := c.st.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("coordinator: begin embed tx: %w", err)
		}
		if err := c.st.InsertChunks(ctx, tx, sectionIDs[i], chunks); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("coordinator: insert chunks for section %d: %w", sec.OrderIndex, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("coordinator: commit embed tx: %w", err)
		}
	}
	return nil
}

func (c *Coordinator) fail(ctx context.Context, docID string, stage model.Stage, err error) {
	c.metrics.DocumentsFailed.WithLabelValues(string(stage)).Inc()
	c.publishFailed(ctx, docID, stage, err)
	if c.logger != nil {
		c.logger.Warn("coordinator: stage failed", zap.String("doc_id", docID), zap.String("stage", string(stage)), zap.Error(err))
	}
}

func (c *Coordinator) publishFailed(ctx context.Context, docID string, stage model.Stage, err error) {
	c.bus.PublishFailed(ctx, eventbus.FailedEvent{
		DocID:    docID,
		Stage:    stage,
		Error:    err.Error(),
		FailedAt: time.Now().UTC(),
	})
}

func (c *Coordinator) stageSpan(ctx context.Context, stage string, fn func(ctx context.Context)) {
	ctx, span := tracer.Start(ctx, "coordinator."+stage)
	defer span.End()

	start := time.Now()
	fn(ctx)
	c.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func parseStatus(r parser.Result) string {
	if r.Confidence == 0 {
		return "empty"
	}
	return "success"
}

func extForContentType(contentType string) blobstore.Ext {
	if contentType == "application/pdf" {
		return blobstore.ExtPDF
	}
	return blobstore.ExtHTML
}
