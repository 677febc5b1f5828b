// Package llmtest provides a scripted text-generation client for tests.
package llmtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/llm"
)

// Call is one recorded request.
type Call struct {
	System   string
	Messages []llm.Message
}

// Prompt returns the final message of the call, which is the request itself.
func (c Call) Prompt() string {
	if len(c.Messages) == 0 {
		return ""
	}
	return c.Messages[len(c.Messages)-1].Content
}

// Fake answers every call through Respond. With Respond unset it returns
// a numbered placeholder line.
type Fake struct {
	Respond func(n int, call Call) (string, error)

	mu    sync.Mutex
	calls []Call
}

func (f *Fake) Complete(_ context.Context, system string, messages []llm.Message) (string, error) {
	f.mu.Lock()
	call := Call{System: system, Messages: append([]llm.Message(nil), messages...)}
	f.calls = append(f.calls, call)
	n := len(f.calls)
	f.mu.Unlock()

	if f.Respond != nil {
		return f.Respond(n, call)
	}
	return fmt.Sprintf("Narration %d.", n), nil
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsContaining returns recorded calls whose prompt contains substr.
func (f *Fake) CallsContaining(substr string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if strings.Contains(c.Prompt(), substr) {
			out = append(out, c)
		}
	}
	return out
}
