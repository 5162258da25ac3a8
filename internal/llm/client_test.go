package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientProviderSelection(t *testing.T) {
	client, err := NewClient(ProviderOpenAI, Options{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, string(ProviderOpenAI), client.Name())

	client, err = NewClient(ProviderOpenRouter, Options{APIKey: "key", BaseURL: "https://openrouter.ai/api/v1"})
	require.NoError(t, err)
	assert.Equal(t, string(ProviderOpenRouter), client.Name())

	client, err = NewClient(ProviderAnthropic, Options{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, string(ProviderAnthropic), client.Name())

	// Unknown providers fall back to OpenAI.
	client, err = NewClient(Provider("something-else"), Options{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, string(ProviderOpenAI), client.Name())
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	for _, provider := range []Provider{ProviderOpenAI, ProviderOpenRouter, ProviderAnthropic} {
		_, err := NewClient(provider, Options{})
		assert.Error(t, err, "provider %s", provider)
	}
}

func TestDefaultModels(t *testing.T) {
	openaiClient, err := NewOpenAIClient(Options{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, defaultOpenAIModel, openaiClient.defaultModel)

	routerClient, err := NewOpenRouterClient(Options{APIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, defaultOpenRouterModel, routerClient.defaultModel)

	custom, err := NewOpenAIClient(Options{APIKey: "key", DefaultModel: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", custom.defaultModel)
}
