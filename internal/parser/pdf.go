package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// parsePDF extracts plain text page by page, per spec §4.5's "PDF
// path extracts text page-by-page then falls through to the same
// text-pattern extractors".
func parsePDF(data []byte) []string {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil
	}

	var blocks []string
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil && err != io.EOF {
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			blocks = append(blocks, splitLines(text)...)
		}
	}
	return blocks
}
