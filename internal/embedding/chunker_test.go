package embedding

import (
	"context"
	"strings"
	"testing"

	"courtregistry-ingest/internal/model"
)

type fakeProvider struct {
	dim int
}

func (f fakeProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, f.dim)
		vec[0] = float32(i)
		out[i] = vec
	}
	return out, nil
}

func TestChunkAndEmbedProducesDenseIndices(t *testing.T) {
	tok, err := NewTokenizer()
	if err != nil {
		t.Fatalf("NewTokenizer: %v", err)
	}
	c := NewChunker(tok, fakeProvider{dim: model.EmbeddingVectorDim}, 8)

	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 20)
	chunks, err := c.ChunkAndEmbed(context.Background(), text)
	if err != nil {
		t.Fatalf("ChunkAndEmbed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks for long text, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.ChunkIndex != i {
			t.Errorf("chunk %d has ChunkIndex %d", i, ch.ChunkIndex)
		}
		if len(ch.Vector) != model.EmbeddingVectorDim {
			t.Errorf("chunk %d vector dim = %d, want %d", i, len(ch.Vector), model.EmbeddingVectorDim)
		}
		if ch.TokenCount == 0 {
			t.Errorf("chunk %d has zero token count", i)
		}
	}
}

func TestTokenizerChunkRoundTripReconstructsText(t *testing.T) {
	tok, err := NewTokenizer()
	if err != nil {
		t.Fatalf("NewTokenizer: %v", err)
	}
	text := "The court finds in favor of the plaintiff under Civil Code article 625."
	chunks := tok.Chunk(text, 4)

	var rebuilt strings.Builder
	for _, c := range chunks {
		rebuilt.WriteString(c)
	}
	if got := rebuilt.String(); got != text {
		t.Errorf("round-trip text = %q, want %q", got, text)
	}
}

func TestTokenizerChunkEmptyTextYieldsNoChunks(t *testing.T) {
	tok, err := NewTokenizer()
	if err != nil {
		t.Fatalf("NewTokenizer: %v", err)
	}
	if chunks := tok.Chunk("", 8); chunks != nil {
		t.Errorf("expected nil chunks for empty text, got %v", chunks)
	}
}
