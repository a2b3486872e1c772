package coordinator

import (
	"testing"

	"courtregistry-ingest/internal/blobstore"
	"courtregistry-ingest/internal/parser"
)

func TestParseStatusReflectsConfidence(t *testing.T) {
	if got := parseStatus(parser.Result{Confidence: 0}); got != "empty" {
		t.Errorf("parseStatus(confidence=0) = %q, want empty", got)
	}
	if got := parseStatus(parser.Result{Confidence: 0.6}); got != "success" {
		t.Errorf("parseStatus(confidence=0.6) = %q, want success", got)
	}
}

func TestExtForContentTypeMapsPDFAndFallsBackToHTML(t *testing.T) {
	if got := extForContentType("application/pdf"); got != blobstore.ExtPDF {
		t.Errorf("extForContentType(pdf) = %v, want %v", got, blobstore.ExtPDF)
	}
	if got := extForContentType("text/html"); got != blobstore.ExtHTML {
		t.Errorf("extForContentType(html) = %v, want %v", got, blobstore.ExtHTML)
	}
	if got := extForContentType("application/octet-stream"); got != blobstore.ExtHTML {
		t.Errorf("extForContentType(unknown) = %v, want fallback %v", got, blobstore.ExtHTML)
	}
}
