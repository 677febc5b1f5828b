package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/llm"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/llm/llmtest"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/metrics"
)

func TestInstrumentedCountsSuccessAndError(t *testing.T) {
	fake := &llmtest.Fake{}
	c := llm.Instrument(fake, "fake", "test-model", false)

	okBefore := testutil.ToFloat64(metrics.GenerationRequests.WithLabelValues("fake", "test-model", "success"))
	errBefore := testutil.ToFloat64(metrics.GenerationRequests.WithLabelValues("fake", "test-model", "error"))

	text, err := c.Complete(context.Background(), "sys", []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "Narration 1.", text)

	fake.Respond = func(int, llmtest.Call) (string, error) {
		return "", llm.ErrGenerationFailed
	}
	_, err = c.Complete(context.Background(), "sys", nil)
	assert.True(t, errors.Is(err, llm.ErrGenerationFailed))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.GenerationRequests.WithLabelValues("fake", "test-model", "success")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(metrics.GenerationRequests.WithLabelValues("fake", "test-model", "error")))
}

func TestInstrumentedPassesThroughCall(t *testing.T) {
	fake := &llmtest.Fake{}
	c := llm.Instrument(fake, "", "", false)

	msgs := []llm.Message{
		{Role: llm.RoleAssistant, Content: "earlier"},
		{Role: llm.RoleUser, Content: "now"},
	}
	_, err := c.Complete(context.Background(), "be the GM", msgs)
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "be the GM", calls[0].System)
	assert.Equal(t, msgs, calls[0].Messages)
	assert.Equal(t, "now", calls[0].Prompt())
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := llm.New(context.Background(), llm.Options{Provider: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestNewRequiresKeys(t *testing.T) {
	_, err := llm.New(context.Background(), llm.Options{Provider: llm.ProviderOpenAI})
	assert.ErrorIs(t, err, llm.ErrGenerationFailed)

	_, err = llm.New(context.Background(), llm.Options{Provider: llm.ProviderGemini})
	assert.ErrorIs(t, err, llm.ErrGenerationFailed)
}

func TestNewOllamaNeedsNoKey(t *testing.T) {
	c, err := llm.New(context.Background(), llm.Options{Provider: llm.ProviderOllama, OllamaHost: "http://127.0.0.1:11434/v1"})
	require.NoError(t, err)
	assert.NoError(t, llm.Close(c))
}

func TestClientFunc(t *testing.T) {
	var got string
	c := llm.ClientFunc(func(_ context.Context, system string, _ []llm.Message) (string, error) {
		got = system
		return "ok", nil
	})
	text, err := c.Complete(context.Background(), "sys", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, "sys", got)
}
