// Package llm is the text-generation client the simulator talks to.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrGenerationFailed wraps every provider failure.
var ErrGenerationFailed = errors.New("text generation failed")

// Role is the chat role of a message as seen by the model.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    Role
	Content string
}

// Client completes a conversation under a system instruction.
type Client interface {
	Complete(ctx context.Context, system string, messages []Message) (string, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, system string, messages []Message) (string, error)

func (f ClientFunc) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	return f(ctx, system, messages)
}

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Options selects and configures a provider.
type Options struct {
	Provider      string
	Model         string
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OllamaHost    string
	Timeout       time.Duration
	CountTokens   bool
}

// Closer is implemented by clients holding connections.
type Closer interface {
	Close() error
}

// New builds the configured provider wrapped with instrumentation.
func New(ctx context.Context, opts Options) (Client, error) {
	var (
		base Client
		err  error
	)
	switch strings.ToLower(opts.Provider) {
	case ProviderGemini, "":
		base, err = NewGemini(ctx, opts.GeminiAPIKey, opts.Model)
	case ProviderOpenAI:
		base, err = NewOpenAI(opts.OpenAIAPIKey, opts.OpenAIBaseURL, opts.Model)
	case ProviderOllama:
		base, err = NewOllama(opts.OllamaHost, opts.Model, opts.Timeout)
	default:
		return nil, fmt.Errorf("unknown provider %q", opts.Provider)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(base, opts.Provider, opts.Model, opts.CountTokens), nil
}

// Close releases the client if it holds resources.
func Close(c Client) error {
	if closer, ok := c.(Closer); ok {
		return closer.Close()
	}
	return nil
}

// lastUserTurn splits a conversation into history and the final user turn.
// When the conversation does not end on a user turn, a short nudge is sent instead.
func lastUserTurn(messages []Message) ([]Message, string) {
	if n := len(messages); n > 0 && messages[n-1].Role == RoleUser {
		return messages[:n-1], messages[n-1].Content
	}
	return messages, "Continue."
}
