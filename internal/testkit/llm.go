package testkit

import (
	"context"
	"sync"

	"rxcheck/ports"
)

// RecordingLLM is a ports.LLMClient that returns a fixed response and keeps
// every request it received.
type RecordingLLM struct {
	mu       sync.Mutex
	Response string
	Error    error
	Usage    *ports.UsageData
	Requests []ports.ChatRequest
}

// NewRecordingLLM creates a client answering with response
func NewRecordingLLM(response string) *RecordingLLM {
	return &RecordingLLM{Response: response}
}

// ChatCompletion implements ports.LLMClient
func (l *RecordingLLM) ChatCompletion(ctx context.Context, req ports.ChatRequest) (string, error) {
	resp, err := l.ChatCompletionWithUsage(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// ChatCompletionWithUsage implements ports.LLMClient
func (l *RecordingLLM) ChatCompletionWithUsage(ctx context.Context, req ports.ChatRequest) (*ports.LLMResponse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Requests = append(l.Requests, req)
	if l.Error != nil {
		return nil, l.Error
	}
	return &ports.LLMResponse{Content: l.Response, Usage: l.Usage}, nil
}

// Calls returns the number of requests received
func (l *RecordingLLM) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Requests)
}

// LastRequest returns the most recent request, or the zero value
func (l *RecordingLLM) LastRequest() ports.ChatRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.Requests) == 0 {
		return ports.ChatRequest{}
	}
	return l.Requests[len(l.Requests)-1]
}
