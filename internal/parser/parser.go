// Package parser extracts structured fields and ordered sections from
// raw fetched bytes, generalizing unified-rag-service's
// createSemanticChunks pattern-extraction style onto content-type
// dispatched decoders.
package parser

import (
	"strings"

	"courtregistry-ingest/internal/model"
)

const ParserVersion = "1"

// Parties groups extracted party names by side, per spec §4.5's
// "parties {plaintiff[], defendant[]}".
type Parties struct {
	Plaintiff []string `json:"plaintiff"`
	Defendant []string `json:"defendant"`
}

// Result is the tolerant, never-erroring structured record spec §4.5
// describes: any missing field is left at its zero value rather than
// failing the parse.
type Result struct {
	Court         string                  `json:"court"`
	Judge         string                  `json:"judge"`
	Date          string                  `json:"date"`
	CaseNumber    string                  `json:"case_number"`
	Parties       Parties                 `json:"parties"`
	LawReferences []string                `json:"law_references"`
	Decision      string                  `json:"decision"`
	Amounts       []string                `json:"amounts"`
	TextBlocks    []string                `json:"text_blocks"`
	Confidence    float64                 `json:"confidence"`
	ParserVersion string                  `json:"parser_version"`
	Sections      []model.DocumentSection `json:"-"`
}

// Empty returns the all-null, zero-confidence result spec §4.5/§7
// describe for malformed or unrecognized content: "a fully empty
// structure (with confidence = 0.0) is returned", never an error.
func Empty() Result {
	return Result{ParserVersion: ParserVersion}
}

// Parse dispatches by content type. Anything outside text/html and
// application/pdf yields Empty(), per spec §4.5.
func Parse(data []byte, contentType string) Result {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	ct, _, _ = strings.Cut(ct, ";")

	var blocks []string
	switch ct {
	case "text/html":
		blocks = parseHTML(data)
	case "application/pdf":
		blocks = parsePDF(data)
	default:
		return Empty()
	}

	return fromTextBlocks(blocks)
}

func fromTextBlocks(blocks []string) Result {
	r := Empty()
	r.TextBlocks = blocks
	fullText := strings.Join(blocks, "\n")

	r.CaseNumber = extractCaseNumber(fullText)
	r.Court = extractCourt(blocks)
	r.Judge = extractJudge(blocks)
	r.Date = extractDate(fullText)
	r.Amounts = extractAmounts(fullText)
	r.LawReferences = extractLawReferences(fullText)
	r.Parties = extractParties(blocks)
	r.Decision = extractDecision(blocks)
	r.Sections = splitSections(blocks)
	r.Confidence = confidence(r.Court, r.Judge, r.Date)

	return r
}

// confidence mirrors original_source/services/parser.py's
// _calculate_confidence exactly: 0.3 for court, 0.3 for judge, 0.4 for
// date, capped at 1.0.
func confidence(court, judge, date string) float64 {
	var score float64
	if court != "" {
		score += 0.3
	}
	if judge != "" {
		score += 0.3
	}
	if date != "" {
		score += 0.4
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
