// Package agent provides the LLM client factory and mock client.
package agent

import (
	"fmt"

	"midpoint/pkg/agent/internal/llmimpl/anthropic"
	"midpoint/pkg/agent/internal/llmimpl/google"
	"midpoint/pkg/agent/internal/llmimpl/ollama"
	"midpoint/pkg/agent/internal/llmimpl/openaiofficial"
	"midpoint/pkg/agent/llm"
)

// Provider identifiers accepted by NewLLMClient.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
	ProviderOllama    = "ollama"
)

// ClientOptions carries the explicit credentials and endpoint configuration
// for client construction. Credentials are always passed in; nothing is read
// from the environment here.
type ClientOptions struct {
	APIKey string
	Model  string
	// Host is the server URL for self-hosted providers (ollama).
	Host string
}

// NewLLMClient creates an LLM client for the named provider.
func NewLLMClient(provider string, opts ClientOptions) (llm.LLMClient, error) {
	switch provider {
	case ProviderAnthropic:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider requires an API key")
		}
		return anthropic.NewClaudeClientWithModel(opts.APIKey, opts.Model), nil
	case ProviderOpenAI:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openaiofficial.NewOfficialClientWithModel(opts.APIKey, opts.Model), nil
	case ProviderGoogle:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("google provider requires an API key")
		}
		return google.NewGeminiClientWithModel(opts.APIKey, opts.Model), nil
	case ProviderOllama:
		host := opts.Host
		if host == "" {
			host = "http://localhost:11434"
		}
		return ollama.NewClientWithModel(host, opts.Model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", provider)
	}
}
