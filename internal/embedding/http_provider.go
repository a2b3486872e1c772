package embedding

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"courtregistry-ingest/internal/model"
	"courtregistry-ingest/internal/xjson"
)

// HTTPProvider posts a JSON batch to an Ollama-style embeddings
// endpoint, the same shape as generateEmbeddingViaOllama but extended
// to a batch request/response so one HTTP round trip covers an entire
// section's chunks.
type HTTPProvider struct {
	endpoint string
	model    string
	client   *http.Client
}

func NewHTTPProvider(endpoint, modelName string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		endpoint: endpoint,
		model:    modelName,
		client:   &http.Client{Timeout: timeout},
	}
}

type embedRequest struct {
	Model  string   `json:"model"`
	Inputs []string `json:"inputs"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed posts the whole batch in one request and fails it atomically:
// a non-2xx response, a malformed body, a short result slice, or any
// vector whose dimensionality doesn't match model.EmbeddingVectorDim
// all return an error for the entire batch, never a partial result.
func (p *HTTPProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := xjson.Marshal(embedRequest{Model: p.model, Inputs: texts})
	if err != nil {
		return nil, fmt.Errorf("embedding: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embedding: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embedding: provider returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("embedding: read response: %w", err)
	}
	var out embedResponse
	if err := xjson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("embedding: decode response: %w", err)
	}

	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding: provider returned %d vectors for %d inputs", len(out.Embeddings), len(texts))
	}
	for i, vec := range out.Embeddings {
		if len(vec) != model.EmbeddingVectorDim {
			return nil, fmt.Errorf("embedding: vector %d has dim %d, want %d", i, len(vec), model.EmbeddingVectorDim)
		}
	}
	return out.Embeddings, nil
}
