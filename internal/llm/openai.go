package llm

import (
	"context"
	"fmt"
	"strings"

	openaigo "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openaigo.GPT4oMini

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client *openaigo.Client
	model  string
}

func NewOpenAI(apiKey, baseURL, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing OPENAI_API_KEY", ErrGenerationFailed)
	}
	cfg := openaigo.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAI{client: openaigo.NewClientWithConfig(cfg), model: model}, nil
}

func (c *OpenAI) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	req := openaigo.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]openaigo.ChatCompletionMessage, 0, len(messages)+1),
	}
	if system != "" {
		req.Messages = append(req.Messages, openaigo.ChatCompletionMessage{
			Role:    openaigo.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, m := range messages {
		role := openaigo.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openaigo.ChatMessageRoleAssistant
		}
		req.Messages = append(req.Messages, openaigo.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
