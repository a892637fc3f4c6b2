package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"complaintflow/internal/providers"

	"github.com/stretchr/testify/require"
)

type captureLLM struct {
	last providers.GenerateRequest
	text string
	err  error
}

func (c *captureLLM) Generate(_ context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
	c.last = req
	return providers.GenerateResponse{Text: c.text}, providers.ProviderInfo{Name: "capture"}, c.err
}

func TestSummarizeBuildsPromptFromNarrative(t *testing.T) {
	llm := &captureLLM{text: " A concise summary. "}
	e := New(llm, 125)

	got, err := e.Summarize(context.Background(), "The company keeps reporting me late.")
	require.NoError(t, err)
	require.Equal(t, "A concise summary.", got)
	require.Contains(t, llm.last.Prompt, "The company keeps reporting me late.")
	require.True(t, strings.HasPrefix(llm.last.Prompt, "Summarize this complaint"))
	require.Equal(t, 125, llm.last.MaxTokens)
	require.Equal(t, float32(0), llm.last.Temperature)
}

func TestEmptyInputSubstitutesSentinels(t *testing.T) {
	llm := &captureLLM{text: "No"}
	e := New(llm, 0)

	_, err := e.Classify(context.Background(), "   ")
	require.NoError(t, err)
	require.Contains(t, llm.last.Prompt, "Unidentifiable")

	_, err = e.Categorize(context.Background(), "")
	require.NoError(t, err)
	require.Contains(t, llm.last.Prompt, "No complaint text available")

	_, err = e.Summarize(context.Background(), "")
	require.NoError(t, err)
	require.Contains(t, llm.last.Prompt, "No summary")
	require.Equal(t, 125, llm.last.MaxTokens)
}

func TestProviderFailurePropagates(t *testing.T) {
	llm := &captureLLM{err: errors.New("429 rate limited")}
	e := New(llm, 125)

	_, err := e.Categorize(context.Background(), "Billing problem")
	require.Error(t, err)
	require.Contains(t, err.Error(), "categorize")
}
