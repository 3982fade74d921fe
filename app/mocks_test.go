package app

import (
	"context"

	"rxcheck/ports"

	"github.com/stretchr/testify/mock"
)

// MockLLMClient is a testify mock of ports.LLMClient
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) ChatCompletion(ctx context.Context, req ports.ChatRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockLLMClient) ChatCompletionWithUsage(ctx context.Context, req ports.ChatRequest) (*ports.LLMResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*ports.LLMResponse)
	return resp, args.Error(1)
}
