// Package llm provides LLM client interfaces and implementations.
package llm

import (
	"context"
)

// ChatMessage represents a role-tagged turn sent to the provider.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest represents a single-shot completion request. System is
// carried separately because Anthropic takes it outside the message list.
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderOpenRouter Provider = "openrouter"
	ProviderAnthropic  Provider = "anthropic"
)

// Options configures client construction.
type Options struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
}

// NewClient creates a new LLM client for the given provider.
func NewClient(provider Provider, opts Options) (Client, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(opts)
	case ProviderOpenRouter:
		return NewOpenRouterClient(opts)
	default:
		return NewOpenAIClient(opts)
	}
}
