package embedding

import (
	"context"
	"fmt"

	"courtregistry-ingest/internal/model"
)

// Chunker turns one section's text into embedded EmbeddingChunk rows,
// tokenizing with Tokenizer and filling vectors from Provider in a
// single batch call per section.
type Chunker struct {
	tokenizer *Tokenizer
	provider  Provider
	maxTokens int
}

func NewChunker(tokenizer *Tokenizer, provider Provider, maxTokens int) *Chunker {
	return &Chunker{tokenizer: tokenizer, provider: provider, maxTokens: maxTokens}
}

// ChunkAndEmbed splits text into token-bounded windows and embeds all
// of them in one request. If the provider fails, no chunks are
// returned — the caller's transaction never sees a partial section.
func (c *Chunker) ChunkAndEmbed(ctx context.Context, text string) ([]model.EmbeddingChunk, error) {
	texts := c.tokenizer.Chunk(text, c.maxTokens)
	if len(texts) == 0 {
		return nil, nil
	}

	vectors, err := c.provider.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding: embed batch: %w", err)
	}

	chunks := make([]model.EmbeddingChunk, len(texts))
	for i, t := range texts {
		chunks[i] = model.EmbeddingChunk{
			ChunkIndex: i,
			Text:       t,
			Vector:     vectors[i],
			TokenCount: c.tokenizer.CountTokens(t),
		}
	}
	return chunks, nil
}
