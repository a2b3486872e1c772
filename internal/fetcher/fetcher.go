// Package fetcher is the bounded-concurrency HTTP client from spec
// §4.6, generalizing the buffered-channel semaphore pattern
// go-enhanced-rag-service/cuda_worker.go uses for its CUDA worker pool
// onto HTTP fetch fan-out.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"courtregistry-ingest/internal/blobstore"
	"courtregistry-ingest/internal/model"
)

// Result is the outcome of one successful fetch.
type Result struct {
	Bytes       []byte
	ContentType string
	Hash        string
	FetchedAt   time.Time
}

// Pool enforces the process-wide in-flight cap spec §5 calls "the
// only global in-flight cap": a counting semaphore of size workers.
type Pool struct {
	client     *http.Client
	sem        chan struct{}
	maxRetries int
}

func NewPool(workers, maxRetries int, timeout time.Duration) *Pool {
	return &Pool{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 2 * workers,
			},
		},
		sem:        make(chan struct{}, workers),
		maxRetries: maxRetries,
	}
}

// Fetch acquires a permit, issues the GET with retry/backoff, and
// returns nil (no error) on a terminal 404 per spec §4.6 step 2: "On
// HTTP 404 -> return null terminally (no further attempts)."
func (p *Pool) Fetch(ctx context.Context, url, docID string) (*Result, error) {
	p.sem <- struct{}{}
	defer func() { <-p.sem }()

	var lastErr error
	for attempt := 0; attempt < p.maxRetries; attempt++ {
		if attempt > 0 {
			// Wait 2^n seconds after failed attempt n (n = attempt-1).
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, terminal, err := p.attempt(ctx, url)
		if err == nil {
			return result, nil
		}
		if terminal {
			return nil, nil
		}
		lastErr = err
	}

	return nil, model.NewPipelineError(model.ErrTransientIO, model.StageFetch, fmt.Errorf("fetcher: exhausted retries for %s (doc_id=%s): %w", url, docID, lastErr))
}

// attempt issues one GET. terminal=true means the caller must stop
// retrying without an error (spec's 404 rule).
func (p *Pool) attempt(ctx context.Context, url string) (result *Result, terminal bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, true, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, true, fmt.Errorf("fetcher: 404 at %s", url)
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, false, fmt.Errorf("fetcher: status %d at %s", resp.StatusCode, url)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, true, fmt.Errorf("fetcher: status %d at %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}

	return &Result{
		Bytes:       body,
		ContentType: resp.Header.Get("Content-Type"),
		Hash:        blobstore.Hash(body),
		FetchedAt:   time.Now().UTC(),
	}, false, nil
}

// BatchItem pairs a requested URL/doc_id with its positional result.
type BatchItem struct {
	URL    string
	DocID  string
	Result *Result
	Err    error
}

// FetchBatch fans out across the same semaphore Fetch uses and
// returns results in input order, per spec scenario 6: "all three
// results return in input order."
func (p *Pool) FetchBatch(ctx context.Context, items []BatchItem) []BatchItem {
	out := make([]BatchItem, len(items))
	done := make(chan int, len(items))

	for i, it := range items {
		out[i] = it
		go func(i int, it BatchItem) {
			out[i].Result, out[i].Err = p.Fetch(ctx, it.URL, it.DocID)
			done <- i
		}(i, it)
	}
	for range items {
		<-done
	}
	return out
}
