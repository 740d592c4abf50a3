// Package llm resolves which model provider to call and talks to it over the
// OpenAI-compatible chat completions API.
package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/jd-analyser/internal/config"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is the hosted OpenAI API.
	ProviderOpenAI Provider = "openai"
	// ProviderOllama is a local Ollama server speaking the OpenAI protocol.
	ProviderOllama Provider = "ollama"
	// ProviderMock serves the canned extraction without a network call.
	// Honoured only outside production.
	ProviderMock Provider = "mock"
)

const (
	// DefaultOpenAIBaseURL is used whenever the OpenAI provider is selected.
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// ProductionModel is the only model used in production mode.
	ProductionModel = "gpt-4o-mini"
	// ollamaAPIKey is the placeholder credential Ollama accepts.
	ollamaAPIKey = "ollama"
)

// ModelConfig is the resolved provider, endpoint, credential and model for
// one extraction call.
type ModelConfig struct {
	Provider Provider
	BaseURL  string
	APIKey   string
	Model    string
}

// String omits the credential.
func (c ModelConfig) String() string {
	return fmt.Sprintf("%s/%s", c.Provider, c.Model)
}

// ConfigurationError reports a missing required environment variable. It is
// an operator error and is surfaced as-is rather than folded into the
// generic analysis failure.
type ConfigurationError struct {
	Variable string
	Message  string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// SelectedProvider returns the normalized DEV_AI_PROVIDER value. Empty
// selects ollama.
func SelectedProvider(env config.Env) Provider {
	p := Provider(strings.ToLower(strings.TrimSpace(env.DevProvider)))
	if p == "" {
		return ProviderOllama
	}
	return p
}

// IsOffline reports whether the canned extraction should be served instead
// of calling a provider. Production is never offline, and FORCE_AI_IN_DEV
// disables the mock provider.
func IsOffline(env config.Env) bool {
	if env.IsProduction() || env.ForceAIInDev {
		return false
	}
	return SelectedProvider(env) == ProviderMock
}

// ResolveModelConfig selects the provider settings for the current mode.
//
//	production                 -> openai, gpt-4o-mini
//	development, openai        -> openai, LOCAL_DEV_AI_MODEL or gpt-4o-mini; key required
//	development, anything else -> ollama, LOCAL_DEV_AI_MODEL required
func ResolveModelConfig(env config.Env) (ModelConfig, error) {
	if env.IsProduction() {
		return ModelConfig{
			Provider: ProviderOpenAI,
			BaseURL:  DefaultOpenAIBaseURL,
			APIKey:   env.OpenAIAPIKey,
			Model:    ProductionModel,
		}, nil
	}

	model := strings.TrimSpace(env.LocalDevModel)

	if SelectedProvider(env) == ProviderOpenAI {
		if strings.TrimSpace(env.OpenAIAPIKey) == "" {
			return ModelConfig{}, &ConfigurationError{
				Variable: "OPENAI_API_KEY",
				Message:  "OPENAI_API_KEY is required for DEV_AI_PROVIDER=openai",
			}
		}
		if model == "" {
			model = ProductionModel
		}
		return ModelConfig{
			Provider: ProviderOpenAI,
			BaseURL:  DefaultOpenAIBaseURL,
			APIKey:   env.OpenAIAPIKey,
			Model:    model,
		}, nil
	}

	if model == "" {
		return ModelConfig{}, &ConfigurationError{
			Variable: "LOCAL_DEV_AI_MODEL",
			Message:  "LOCAL_DEV_AI_MODEL environment variable is not set",
		}
	}

	baseURL := strings.TrimSpace(env.OllamaBaseURL)
	if baseURL == "" {
		baseURL = config.DefaultOllamaBaseURL
	}
	return ModelConfig{
		Provider: ProviderOllama,
		BaseURL:  baseURL,
		APIKey:   ollamaAPIKey,
		Model:    model,
	}, nil
}
