package parser

import (
	"regexp"
	"strings"
)

// Patterns follow original_source/services/parser.py's
// _extract_case_number/_extract_court_name/_extract_judge_name/
// _extract_date/_extract_law_references/_extract_amounts verbatim,
// translated to RE2 syntax (no lookaround needed). The judge patterns
// add the Ukrainian letters І, Ї, Є, Ґ (and lower case) to their
// Cyrillic character classes so names such as "Іванов І.І." match.
// Each is tried in the original's declared order; the first pattern
// with a match wins.
var (
	caseNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)справа\s*№?\s*(\d+[/-]\d+[/-]\d+)`),
		regexp.MustCompile(`(?i)case\s*№?\s*(\d+[/-]\d+[/-]\d+)`),
		regexp.MustCompile(`(?i)№\s*(\d+[/-]\d+[/-]\d+)`),
	}
	courtNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`([А-Яа-я]+ський\s+[А-Яа-я]+\s+суд)`),
		regexp.MustCompile(`(Суд\s+[А-Яа-я]+)`),
	}
	judgeNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`Суддя[:\s]+([А-ЯІЇЄҐа-яіїєґ]+\s+[А-ЯІЇЄҐ]\.[А-ЯІЇЄҐ]\.)`),
		regexp.MustCompile(`Judge[:\s]+([А-ЯІЇЄҐа-яіїєґ]+\s+[А-ЯІЇЄҐ]\.[А-ЯІЇЄҐ]\.)`),
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{2}\.\d{2}\.\d{4})`),
		regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
	}
	lawRefPatterns = []*regexp.Regexp{
		regexp.MustCompile(`ст\.\s*(\d+)\s+([А-Я]+)`),
		regexp.MustCompile(`стаття\s+(\d+)\s+([А-Я]+)`),
	}
	amountRe = regexp.MustCompile(`(\d+[.,]?\d*)\s*(грн|UAH|USD|EUR)`)

	plaintiffRe = regexp.MustCompile(`(?i)^(plaintiff|позивач)\s*[:\-]?\s*(.+)`)
	defendantRe = regexp.MustCompile(`(?i)^(defendant|відповідач)\s*[:\-]?\s*(.+)`)
)

// extractCaseNumber mirrors _extract_case_number: try each pattern in
// order, return the first match's capture group.
func extractCaseNumber(text string) string {
	for _, re := range caseNumberPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractCourt mirrors _extract_court_name's structural
// "<adjective>ський <adjective> суд" / "Суд <adjective>" patterns,
// rather than a bare substring match on "суд"/"court".
func extractCourt(blocks []string) string {
	text := strings.Join(blocks, "\n")
	for _, re := range courtNamePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractJudge mirrors _extract_judge_name's "Суддя: Іванов І.І." /
// "Judge: ..." label pattern.
func extractJudge(blocks []string) string {
	text := strings.Join(blocks, "\n")
	for _, re := range judgeNamePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// extractDate mirrors _extract_date: the first pattern (DD.MM.YYYY)
// that has any match wins; only if it has none does ISO YYYY-MM-DD
// get tried, and only the first occurrence is returned.
func extractDate(text string) string {
	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractAmounts mirrors _extract_amounts's "<value> грн|UAH|USD|EUR" pattern.
func extractAmounts(text string) []string {
	matches := amountRe.FindAllString(text, -1)
	return dedupe(matches)
}

// extractLawReferences mirrors _extract_law_references: "ст. 625 ЦКУ"
// / "стаття 123 ККУ" patterns, re-assembled as "<code> <number>" and
// deduplicated (the original's `list(set(refs))`).
func extractLawReferences(text string) []string {
	var refs []string
	for _, re := range lawRefPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			refs = append(refs, m[2]+" "+m[1])
		}
	}
	return dedupe(refs)
}

// extractParties: original_source/services/parser.py's
// _extract_parties is itself an unimplemented placeholder ("would
// need more sophisticated parsing") returning empty plaintiff/
// defendant lists unconditionally. There is no original pattern to
// follow here, so this label scan is a supplemental addition (not a
// claim of grounding): lines starting with "plaintiff"/"позивач" or
// "defendant"/"відповідач" contribute their remainder as a party name.
func extractParties(blocks []string) Parties {
	var p Parties
	for _, b := range blocks {
		if m := plaintiffRe.FindStringSubmatch(b); m != nil {
			p.Plaintiff = append(p.Plaintiff, strings.TrimSpace(m[2]))
			continue
		}
		if m := defendantRe.FindStringSubmatch(b); m != nil {
			p.Defendant = append(p.Defendant, strings.TrimSpace(m[2]))
		}
	}
	return p
}

// decisionKeywords mirrors _extract_decision's keyword list exactly.
var decisionKeywords = []string{"резолютивна", "рішення", "decision", "resolution"}

// extractDecision mirrors _extract_decision: scan lines, start
// collecting once any decision keyword appears as a substring
// (case-insensitive), and stop once more than 20 lines are collected
// (so the section holds at most 21 lines).
func extractDecision(blocks []string) string {
	var decisionLines []string
	inDecision := false
	for _, line := range blocks {
		lower := strings.ToLower(line)
		for _, kw := range decisionKeywords {
			if strings.Contains(lower, kw) {
				inDecision = true
				break
			}
		}
		if inDecision {
			decisionLines = append(decisionLines, line)
			if len(decisionLines) > 20 {
				break
			}
		}
	}
	if len(decisionLines) == 0 {
		return ""
	}
	return strings.Join(decisionLines, "\n")
}

func dedupe(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
