package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"rxcheck/adapters/llm/heuristic"
	"rxcheck/domain/core"
	"rxcheck/models"
	"rxcheck/ports"
)

// NewClient creates an LLM client based on config. A missing credential for
// the network provider is a configuration error, reported before first use.
func NewClient(config *models.AIConfig) (ports.LLMClient, error) {
	switch config.Provider {
	case models.ProviderHeuristic:
		return heuristic.NewDiagnostician(), nil
	case models.ProviderOpenAI, "":
		return NewOpenAIClient(config)
	default:
		return nil, fmt.Errorf("unsupported diagnostic provider %q", config.Provider)
	}
}

// OpenAIClient implements ports.LLMClient for the OpenAI chat completions API
type OpenAIClient struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	httpClient  *http.Client
}

// NewOpenAIClient validates the credential and builds the client
func NewOpenAIClient(config *models.AIConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(config.OpenAIKey) == "" {
		return nil, core.ErrMissingCredential
	}

	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIClient{
		APIKey:      config.OpenAIKey,
		BaseURL:     baseURL,
		Timeout:     config.Timeout,
		Temperature: config.Temperature,
		httpClient:  &http.Client{Timeout: config.Timeout},
	}, nil
}

// ChatCompletion implements ports.LLMClient
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req ports.ChatRequest) (string, error) {
	resp, err := c.ChatCompletionWithUsage(ctx, req)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// ChatCompletionWithUsage implements ports.LLMClient
func (c *OpenAIClient) ChatCompletionWithUsage(ctx context.Context, req ports.ChatRequest) (*ports.LLMResponse, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, fmt.Errorf("missing model")
	}

	// Chat Completions API: one system + one user message. Temperature is
	// always sent so a configured 0 is not replaced by the API default.
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type reqBody struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens,omitempty"`
	}
	body := reqBody{
		Model: req.Model,
		Messages: []msg{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Temperature: c.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	log.Printf("[LLMClient] Sending request to %s - promptLength=%d", req.Model, len(req.UserPrompt))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai http %d: %s", resp.StatusCode, string(respRaw))
	}

	type choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	type respBody struct {
		Model   string          `json:"model"`
		Choices []choice        `json:"choices"`
		Usage   ports.UsageData `json:"usage"`
	}
	var decoded respBody
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("openai response missing choices")
	}

	usage := decoded.Usage
	usage.Provider = models.ProviderOpenAI
	usage.Model = decoded.Model
	if usage.Model == "" {
		usage.Model = req.Model
	}

	return &ports.LLMResponse{
		Content: decoded.Choices[0].Message.Content,
		Usage:   &usage,
	}, nil
}
