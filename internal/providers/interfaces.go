package providers

import (
	"context"
	"fmt"
	"strings"
)

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

// GenerateRequest is a single chat-completion call. Temperature and MaxTokens
// are sent as given; enrichment operations pin temperature to 0.
type GenerateRequest struct {
	Operation   string  `json:"operation"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

type EmbedRequest struct {
	Operation string   `json:"operation"`
	Inputs    []string `json:"inputs"`
	Dimension int      `json:"dimension"`
}

type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error)
}

type EmbeddingProvider interface {
	Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error)
}

func NewLLM(name string, dim int) (LLMProvider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mock":
		return NewMockProvider(dim), nil
	case "openai":
		return NewOpenAIProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", name)
	}
}

func NewEmbedder(name string, dim int) (EmbeddingProvider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mock":
		return NewMockProvider(dim), nil
	case "openai":
		return NewOpenAIProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", name)
	}
}
