// Package enrich wraps the LLM provider behind the three enrichment
// operations the ingestion pipeline needs: complaint classification,
// category generation, and narrative summarization.
package enrich

import (
	"context"
	"fmt"
	"strings"

	"complaintflow/internal/providers"
)

const (
	// Sentinels substituted for missing input so the provider always
	// receives a non-empty prompt body. One per operation.
	classifySentinel   = "Unidentifiable"
	categorizeSentinel = "No complaint text available"
	summarizeSentinel  = "No summary"

	classifyPrompt   = "Is the following text a complaint? Answer in 'Yes' or 'No'"
	categorizePrompt = "Create a category based on the issue, but if possible and applicable, use the categories already created. It should be less than 5 words"
	summarizePrompt  = "Summarize this complaint in detail and be very specific, complete all sentences, and the answer must be anywhere between 1 to 3 sentences."

	classifyMaxTokens   = 5
	categorizeMaxTokens = 20
)

type Enricher struct {
	llm              providers.LLMProvider
	summaryMaxTokens int
}

func New(llm providers.LLMProvider, summaryMaxTokens int) *Enricher {
	if summaryMaxTokens <= 0 {
		summaryMaxTokens = 125
	}
	return &Enricher{llm: llm, summaryMaxTokens: summaryMaxTokens}
}

// Classify answers whether the text reads as a complaint, "Yes" or "No".
func (e *Enricher) Classify(ctx context.Context, narrative string) (string, error) {
	return e.generate(ctx, "classify", classifyPrompt, orSentinel(narrative, classifySentinel), classifyMaxTokens)
}

// Categorize produces a short free-text category label from the issue text.
func (e *Enricher) Categorize(ctx context.Context, issue string) (string, error) {
	return e.generate(ctx, "categorize", categorizePrompt, orSentinel(issue, categorizeSentinel), categorizeMaxTokens)
}

// Summarize produces a 1-3 sentence summary of the complaint narrative.
func (e *Enricher) Summarize(ctx context.Context, narrative string) (string, error) {
	return e.generate(ctx, "summarize", summarizePrompt, orSentinel(narrative, summarizeSentinel), e.summaryMaxTokens)
}

func (e *Enricher) generate(ctx context.Context, op, instruction, text string, maxTokens int) (string, error) {
	resp, _, err := e.llm.Generate(ctx, providers.GenerateRequest{
		Operation:   op,
		Prompt:      instruction + "\n\n" + text,
		MaxTokens:   maxTokens,
		Temperature: 0.0,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func orSentinel(s, sentinel string) string {
	if strings.TrimSpace(s) == "" {
		return sentinel
	}
	return s
}
