package parser

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseHTML strips script/style and returns the body's block-level
// text nodes in document order, one string per block.
func parseHTML(data []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	doc.Find("script, style, noscript").Remove()

	var blocks []string
	doc.Find("body p, body div, body li, body td, body h1, body h2, body h3").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		blocks = append(blocks, text)
	})

	if len(blocks) == 0 {
		if text := strings.TrimSpace(doc.Find("body").Text()); text != "" {
			blocks = splitLines(text)
		}
	}
	return blocks
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
