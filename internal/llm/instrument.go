package llm

import (
	"context"
	"sync"
	"time"

	"github.com/pkoukk/tiktoken-go"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/metrics"
)

const tokenEncoding = "cl100k_base"

// Instrumented records request counts, latency and (optionally) token
// estimates for every call to the wrapped client.
type Instrumented struct {
	next        Client
	provider    string
	model       string
	countTokens bool

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

// Instrument wraps a client with metrics.
func Instrument(next Client, provider, model string, countTokens bool) *Instrumented {
	if provider == "" {
		provider = "unknown"
	}
	return &Instrumented{next: next, provider: provider, model: model, countTokens: countTokens}
}

func (c *Instrumented) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	start := time.Now()
	text, err := c.next.Complete(ctx, system, messages)
	metrics.GenerationDuration.WithLabelValues(c.provider, c.model).Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.GenerationRequests.WithLabelValues(c.provider, c.model, status).Inc()

	if err == nil && c.countTokens {
		if prompt, completion, ok := c.estimateTokens(system, messages, text); ok {
			metrics.GenerationTokens.WithLabelValues(c.provider, "prompt").Observe(float64(prompt))
			metrics.GenerationTokens.WithLabelValues(c.provider, "completion").Observe(float64(completion))
		}
	}
	return text, err
}

// Close closes the wrapped client when it holds resources.
func (c *Instrumented) Close() error {
	return Close(c.next)
}

func (c *Instrumented) estimateTokens(system string, messages []Message, reply string) (int, int, bool) {
	c.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tokenEncoding)
		if err == nil {
			c.enc = enc
		}
	})
	if c.enc == nil {
		return 0, 0, false
	}
	prompt := len(c.enc.Encode(system, nil, nil))
	for _, m := range messages {
		prompt += len(c.enc.Encode(m.Content, nil, nil))
	}
	return prompt, len(c.enc.Encode(reply, nil, nil)), true
}
