package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDiscoverFeedExtractsDocIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(`<rss><channel>
			<item><link>https://r/Document/42</link></item>
			<item><link>https://r/Document/43</link></item>
			<item><link></link></item>
		</channel></rss>`))
	}))
	defer srv.Close()

	m := NewMonitor(srv.URL, srv.Client())
	tuples, err := m.DiscoverFeed(context.Background())
	if err != nil {
		t.Fatalf("DiscoverFeed: %v", err)
	}
	if len(tuples) != 2 {
		t.Fatalf("got %d tuples, want 2", len(tuples))
	}
	if tuples[0].DocID != "42" || tuples[1].DocID != "43" {
		t.Errorf("unexpected doc_ids: %+v", tuples)
	}
}

func TestDiscoverFeedTolerantToMalformedXML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not xml at all <<<`))
	}))
	defer srv.Close()

	m := NewMonitor(srv.URL, srv.Client())
	tuples, err := m.DiscoverFeed(context.Background())
	if err != nil {
		t.Fatalf("expected tolerant nil error, got %v", err)
	}
	if tuples != nil {
		t.Errorf("expected no tuples from malformed feed, got %v", tuples)
	}
}

func TestDiscoverSearchPageExtractsDocumentAndCaseLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="/Document/100">doc</a>
			<a href="/Case/200">case</a>
			<a href="/About">irrelevant</a>
		</body></html>`))
	}))
	defer srv.Close()

	m := NewMonitor(srv.URL, srv.Client())
	tuples, err := m.DiscoverSearchPage(context.Background(), "2026-07-01", "2026-07-30")
	if err != nil {
		t.Fatalf("DiscoverSearchPage: %v", err)
	}
	if len(tuples) != 2 {
		t.Fatalf("got %d tuples, want 2: %+v", len(tuples), tuples)
	}
}

func TestLastNDaysFormatsWindow(t *testing.T) {
	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	from, to := LastNDays(now, 1)
	if from != "2026-07-29" || to != "2026-07-30" {
		t.Errorf("LastNDays = (%s, %s), want (2026-07-29, 2026-07-30)", from, to)
	}
}
