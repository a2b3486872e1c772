// Package embedding turns section text into fixed-dimension vectors,
// generalizing unified-rag-service's generateEmbeddingViaOllama and
// legal-gateway/worker.go's multi-model fallback loop onto a batch
// interface.
package embedding

import "context"

// Provider embeds a batch of texts in one round trip. Implementations
// fail the whole batch atomically: a partial batch is never returned.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
