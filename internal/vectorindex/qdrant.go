// Package vectorindex is a minimal REST client to Qdrant holding the
// complaint similarity index. Point ids are the stringified relational
// complaint surrogate ids; payloads duplicate enough metadata to render a
// match without a join.
package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"complaintflow/internal/models"
)

const defaultTopK = 5

type Match struct {
	ID       string               `json:"id"`
	Score    float64              `json:"score"`
	Metadata models.IndexMetadata `json:"metadata"`
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

type Index struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

func New(cfg Config) *Index {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Index{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the cosine-distance collection if it does not
// exist. Qdrant answers 200 for an existing collection with the same schema.
func (i *Index) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid embedding dimension %d", dimension)
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return i.send(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s", i.url, i.collection), body, nil)
}

// Upsert replaces any existing point for id. No payload merge: the new
// metadata overwrites the old in full.
func (i *Index) Upsert(ctx context.Context, id string, vector []float32, metadata models.IndexMetadata) error {
	body := map[string]any{
		"points": []map[string]any{{
			"id":     pointID(id),
			"vector": vector,
			"payload": map[string]any{
				"text":     metadata.Text,
				"summary":  metadata.Summary,
				"category": metadata.Category,
				"product":  metadata.Product,
				"company":  metadata.Company,
			},
		}},
	}
	if err := i.send(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s/points?wait=true", i.url, i.collection), body, nil); err != nil {
		return fmt.Errorf("upsert point %s: %w", id, err)
	}
	return nil
}

// Query returns up to topK matches ordered by descending similarity. topK at
// or below zero falls back to 5.
func (i *Index) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = defaultTopK
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      json.Number    `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := i.send(ctx, http.MethodPost, fmt.Sprintf("%s/collections/%s/points/search", i.url, i.collection), req, &resp); err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	matches := make([]Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		matches = append(matches, Match{
			ID:       r.ID.String(),
			Score:    r.Score,
			Metadata: payloadMetadata(r.Payload),
		})
	}
	return matches, nil
}

func (i *Index) send(ctx context.Context, method, url string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if i.apiKey != "" {
		req.Header.Set("api-key", i.apiKey)
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant %s %s failed: %s: %s", method, url, resp.Status, string(raw))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Qdrant point ids are integers or UUIDs. Complaint surrogate ids are
// numeric, so parse them back to numbers on the wire.
func pointID(id string) any {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return n
	}
	return id
}

func payloadMetadata(payload map[string]any) models.IndexMetadata {
	str := func(k string) string {
		if v, ok := payload[k].(string); ok {
			return v
		}
		return ""
	}
	return models.IndexMetadata{
		Text:     str("text"),
		Summary:  str("summary"),
		Category: str("category"),
		Product:  str("product"),
		Company:  str("company"),
	}
}
