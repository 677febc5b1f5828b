package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/llm"
)

// Mock llm.Client
type Client struct {
	mock.Mock
}

func (m *Client) Complete(ctx context.Context, system string, messages []llm.Message) (string, error) {
	args := m.Called(ctx, system, messages)
	return args.String(0), args.Error(1)
}
