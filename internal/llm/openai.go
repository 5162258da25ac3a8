package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenRouter exposes an OpenAI-compatible API, so one client serves both
// providers with a different base URL and default model.
const defaultOpenRouterModel = "meta-llama/llama-3.2-3b-instruct:free"

// OpenAIClient is the OpenAI-compatible LLM client.
type OpenAIClient struct {
	client       *openai.Client
	name         string
	defaultModel string
}

// NewOpenAIClient creates a client against the OpenAI API.
func NewOpenAIClient(opts Options) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := opts.DefaultModel
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIClient{
		client:       openai.NewClient(opts.APIKey),
		name:         string(ProviderOpenAI),
		defaultModel: model,
	}, nil
}

// NewOpenRouterClient creates a client against the OpenRouter API.
func NewOpenRouterClient(opts Options) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, errors.New("OpenRouter API key is required")
	}

	config := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}

	model := opts.DefaultModel
	if model == "" {
		model = defaultOpenRouterModel
	}

	return &OpenAIClient{
		client:       openai.NewClientWithConfig(config),
		name:         string(ProviderOpenRouter),
		defaultModel: model,
	}, nil
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string {
	return c.name
}

// Complete sends a completion request.
func (c *OpenAIClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return nil, err
	}

	var content, stopReason string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		stopReason = string(resp.Choices[0].FinishReason)
	}

	return &CompletionResponse{
		Content:    content,
		Model:      resp.Model,
		TokensIn:   resp.Usage.PromptTokens,
		TokensOut:  resp.Usage.CompletionTokens,
		StopReason: stopReason,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
