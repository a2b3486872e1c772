// Package discovery is the Change Monitor from spec §4.7: a periodic
// discovery loop (feed + search-page scraping) and a reconciliation
// loop (hash re-check of existing versions).
package discovery

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"courtregistry-ingest/internal/ids"
	"courtregistry-ingest/internal/model"
)

// Tuple is the discovery unit the Coordinator consumes, per spec §4:
// "(doc_id, url, hash_hint)". ExistingDocumentRef is set only when a
// reconciliation cycle re-queues a tuple for a Document already on
// record (spec §4.8: reconciliation re-processing attaches the new
// version to the existing Document rather than creating another one).
type Tuple struct {
	DocID               string
	URL                 string
	HashHint            string
	ExistingDocumentRef *model.ID
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Link string `xml:"link"`
}

// Monitor polls the upstream registry's syndication feed and search
// page. It tolerates absent or malformed items without aborting the
// cycle (spec §6's "must tolerate absent or malformed items").
type Monitor struct {
	baseURL string
	client  *http.Client
}

func NewMonitor(baseURL string, client *http.Client) *Monitor {
	return &Monitor{baseURL: baseURL, client: client}
}

// DiscoverFeed fetches {base}/RSS and extracts a Tuple per <item><link>.
func (m *Monitor) DiscoverFeed(ctx context.Context) ([]Tuple, error) {
	body, err := m.get(ctx, m.baseURL+"/RSS")
	if err != nil {
		return nil, fmt.Errorf("discovery: fetch feed: %w", err)
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		// Malformed feed: tolerate, return nothing rather than abort
		// the whole discovery cycle.
		return nil, nil
	}

	var tuples []Tuple
	for _, item := range feed.Channel.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		docID := ids.DocIDFromURL(link)
		if docID == "" {
			continue
		}
		tuples = append(tuples, Tuple{DocID: docID, URL: link})
	}
	return tuples, nil
}

// DiscoverSearchPage fetches {base}/Search?date_from=...&date_to=...
// and extracts a Tuple per anchor whose href references a Document or
// Case, per spec §6.
func (m *Monitor) DiscoverSearchPage(ctx context.Context, dateFrom, dateTo string) ([]Tuple, error) {
	url := fmt.Sprintf("%s/Search?date_from=%s&date_to=%s", m.baseURL, dateFrom, dateTo)
	body, err := m.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("discovery: fetch search page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil
	}

	var tuples []Tuple
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		if !strings.Contains(href, "/Document/") && !strings.Contains(href, "/Case/") {
			return
		}
		docID := ids.DocIDFromURL(href)
		if docID == "" {
			// Case links carry no /Document/ token; key them by the
			// token after /Case/ instead.
			if _, rest, ok := strings.Cut(href, "/Case/"); ok {
				if end := strings.IndexAny(rest, "/?#"); end >= 0 {
					rest = rest[:end]
				}
				docID = rest
			}
		}
		if docID == "" {
			return
		}
		tuples = append(tuples, Tuple{DocID: docID, URL: href})
	})
	return tuples, nil
}

func (m *Monitor) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// LastNDays formats the [now-n, now] window as date_from/date_to per
// spec §4.7's "search page for the last 24h".
func LastNDays(now time.Time, n int) (string, string) {
	from := now.AddDate(0, 0, -n).Format("2006-01-02")
	to := now.Format("2006-01-02")
	return from, to
}
