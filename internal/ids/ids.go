// Package ids mints the 128-bit opaque identifiers used throughout the
// data model (spec §3: "all identifiers are 128-bit opaque values").
package ids

import "github.com/google/uuid"

// New mints a fresh random (v4) 128-bit identifier.
func New() uuid.UUID {
	return uuid.New()
}

// Parse validates and parses a textual identifier.
func Parse(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// DocIDFromURL derives the registry's doc_id from a /Document/{id} URL
// path, per spec §4.7: "URL→doc_id extraction uses a deterministic
// rule (token after /Document/)".
func DocIDFromURL(url string) string {
	const marker = "/Document/"
	idx := indexOf(url, marker)
	if idx < 0 {
		return ""
	}
	rest := url[idx+len(marker):]
	for i, c := range rest {
		if c == '/' || c == '?' || c == '#' {
			return rest[:i]
		}
	}
	return rest
}

func indexOf(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if s[i:i+n] == substr {
			return i
		}
	}
	return -1
}
