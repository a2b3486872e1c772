package parser

import "testing"

func TestParseHTMLExtractsCoreFields(t *testing.T) {
	html := `<html><body>
		<p>Шевченківський районний суд міста Києва</p>
		<p>Суддя: Іванов І.І.</p>
		<p>Справа № 123/456/2024, дата рішення 01.01.2024</p>
		<p>FACTS</p>
		<p>The parties entered into a contract on 01.01.2023.</p>
		<p>DECISION</p>
		<p>Позов задоволено, ст. 625 ЦКУ.</p>
	</body></html>`

	r := Parse([]byte(html), "text/html; charset=utf-8")

	if r.CaseNumber != "123/456/2024" {
		t.Errorf("CaseNumber = %q, want 123/456/2024", r.CaseNumber)
	}
	if r.Date != "01.01.2024" {
		t.Errorf("Date = %q, want 01.01.2024", r.Date)
	}
	if r.Court == "" {
		t.Errorf("Court not extracted")
	}
	if r.Judge == "" {
		t.Errorf("Judge not extracted")
	}
	if r.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", r.Confidence)
	}
	if len(r.LawReferences) == 0 {
		t.Errorf("expected at least one law reference")
	}
	if len(r.Sections) == 0 {
		t.Errorf("expected at least one section")
	}
}

func TestParseUnknownContentTypeReturnsEmpty(t *testing.T) {
	r := Parse([]byte("whatever"), "application/octet-stream")
	if r.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", r.Confidence)
	}
	if r.Court != "" || r.Judge != "" || r.Date != "" {
		t.Errorf("expected all core fields null, got %+v", r)
	}
}

func TestParseMalformedHTMLReturnsZeroConfidence(t *testing.T) {
	r := Parse([]byte("<html><body></body></html>"), "text/html")
	if r.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0 (no court/judge/date found)", r.Confidence)
	}
}

func TestConfidenceWeights(t *testing.T) {
	cases := []struct {
		court, judge, date string
		want               float64
	}{
		{"", "", "", 0},
		{"c", "", "", 0.3},
		{"", "j", "", 0.3},
		{"", "", "d", 0.4},
		{"c", "j", "", 0.6},
		{"c", "j", "d", 1.0},
	}
	for _, c := range cases {
		got := confidence(c.court, c.judge, c.date)
		if got != c.want {
			t.Errorf("confidence(%q,%q,%q) = %v, want %v", c.court, c.judge, c.date, got, c.want)
		}
	}
}

func TestSectionsAreDenselyOrdered(t *testing.T) {
	blocks := []string{"intro text", "FACTS", "fact one", "DECISION", "granted"}
	sections := splitSections(blocks)
	for i, s := range sections {
		if s.OrderIndex != i {
			t.Errorf("section %d has OrderIndex %d", i, s.OrderIndex)
		}
	}
}
