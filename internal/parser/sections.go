package parser

import (
	"strings"

	"courtregistry-ingest/internal/model"
)

// sectionKeyword identifies which boundary keyword, if any, a block's
// leading words match. The English keys (FACTS, CLAIMS, ARGUMENTS,
// LAW_REFERENCES, COURT_REASONING, DECISION) are
// original_source/services/parser.py's own section_types list,
// verbatim; the Ukrainian keys are a supplemental addition for
// documents whose markup never surfaces the English labels (the
// original has no Ukrainian equivalents to follow here). The table is
// kept separate from the splitter so it can be swapped out if
// upstream markup conventions drift (spec's Open Question about
// section-boundary stability).
var sectionKeywords = map[string]model.SectionType{
	"FACTS":           model.SectionFacts,
	"ОБСТАВИНИ":       model.SectionFacts,
	"CLAIMS":          model.SectionClaims,
	"ПОЗОВНІ ВИМОГИ":  model.SectionClaims,
	"ARGUMENTS":       model.SectionArguments,
	"АРГУМЕНТИ":       model.SectionArguments,
	"LAW_REFERENCES":  model.SectionLawReferences,
	"ПРАВОВЕ ОБГРУНТУВАННЯ": model.SectionLawReferences,
	"COURT_REASONING": model.SectionCourtReasoning,
	"МОТИВУВАЛЬНА ЧАСТИНА":  model.SectionCourtReasoning,
	"DECISION":        model.SectionDecision,
	"РЕЗОЛЮТИВНА ЧАСТИНА": model.SectionDecision,
}

// DecisionKeyword is the SectionType of a DECISION section.
// extractDecision does not use it; it matches decisionKeywords.
const DecisionKeyword = model.SectionDecision

// sectionKeyword returns the SectionType a block's opening text
// matches, or "" if the block is plain body text.
func sectionKeyword(block string) model.SectionType {
	upper := strings.ToUpper(strings.TrimSpace(block))
	for keyword, sectionType := range sectionKeywords {
		if strings.HasPrefix(upper, keyword) {
			return sectionType
		}
	}
	return ""
}

// splitSections groups blocks into ordered DocumentSection records.
// A block whose text matches a boundary keyword starts a new section;
// everything before the first boundary keyword (or all of it, if none
// match) becomes a single SectionText("TEXT") section, per spec §4.5's
// tolerant-parsing requirement that unmatched content is never dropped.
func splitSections(blocks []string) []model.DocumentSection {
	if len(blocks) == 0 {
		return nil
	}

	type group struct {
		sectionType model.SectionType
		lines       []string
	}
	var groups []group
	current := group{sectionType: model.SectionText}

	for _, b := range blocks {
		if st := sectionKeyword(b); st != "" {
			if len(current.lines) > 0 {
				groups = append(groups, current)
			}
			current = group{sectionType: st}
			continue
		}
		current.lines = append(current.lines, b)
	}
	if len(current.lines) > 0 {
		groups = append(groups, current)
	}

	sections := make([]model.DocumentSection, len(groups))
	for i, g := range groups {
		sections[i] = model.DocumentSection{
			SectionType: g.sectionType,
			OrderIndex:  i,
			Text:        strings.Join(g.lines, "\n"),
		}
	}
	return sections
}
