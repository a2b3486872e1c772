package embedding

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer wraps tiktoken-go's cl100k_base encoding, the encoding the
// embedding providers this system targets were trained against.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

func NewTokenizer() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("embedding: load cl100k_base encoding: %w", err)
	}
	return &Tokenizer{enc: enc}, nil
}

// CountTokens returns the token length of text under cl100k_base.
func (t *Tokenizer) CountTokens(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Chunk slices text into windows of at most maxTokens tokens each,
// decoding every window back to text. Per spec.md §8's round-trip
// law, concatenating the decoded chunks reconstructs the original
// text modulo the tokenizer's own whitespace normalization.
func (t *Tokenizer) Chunk(text string, maxTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = 1
	}
	tokens := t.enc.Encode(text, nil, nil)
	if len(tokens) == 0 {
		return nil
	}

	var chunks []string
	for start := 0; start < len(tokens); start += maxTokens {
		end := start + maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, t.enc.Decode(tokens[start:end]))
	}
	return chunks
}
