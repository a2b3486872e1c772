package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchReturnsNilOnTerminal404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewPool(1, 2, time.Second)
	result, err := p.Fetch(context.Background(), srv.URL, "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for 404, got %+v", result)
	}
}

func TestFetchSucceedsAndHashesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	p := NewPool(1, 2, time.Second)
	result, err := p.Fetch(context.Background(), srv.URL, "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}
	const wantHash = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if result.Hash != wantHash {
		t.Errorf("Hash = %q, want %q", result.Hash, wantHash)
	}
}

func TestFetchBatchRespectsConcurrencyBound(t *testing.T) {
	var active int32
	var maxActive int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&active, 1)
		for {
			old := atomic.LoadInt32(&maxActive)
			if n <= old || atomic.CompareAndSwapInt32(&maxActive, old, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	p := NewPool(1, 1, time.Second)
	items := []BatchItem{
		{URL: srv.URL, DocID: "1"},
		{URL: srv.URL, DocID: "2"},
		{URL: srv.URL, DocID: "3"},
	}
	out := p.FetchBatch(context.Background(), items)

	if got := atomic.LoadInt32(&maxActive); got != 1 {
		t.Errorf("max concurrent in-flight = %d, want 1", got)
	}
	for i, item := range out {
		if item.DocID != items[i].DocID {
			t.Errorf("result %d out of order: got doc_id %s, want %s", i, item.DocID, items[i].DocID)
		}
		if item.Err != nil {
			t.Errorf("result %d unexpected error: %v", i, item.Err)
		}
	}
}

func TestFetchRetriesTransientErrorThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	p := NewPool(1, 2, time.Second)
	result, err := p.Fetch(context.Background(), srv.URL, "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected eventual success")
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
