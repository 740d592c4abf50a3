package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-analyser/internal/config"
)

func TestResolveModelConfig(t *testing.T) {
	tests := []struct {
		name string
		env  config.Env
		want ModelConfig
	}{
		{
			name: "production ignores dev settings",
			env: config.Env{
				AppEnv:        "production",
				DevProvider:   "ollama",
				OpenAIAPIKey:  "sk-prod",
				LocalDevModel: "mistral:latest",
			},
			want: ModelConfig{Provider: ProviderOpenAI, BaseURL: DefaultOpenAIBaseURL, APIKey: "sk-prod", Model: "gpt-4o-mini"},
		},
		{
			name: "production without key still resolves",
			env:  config.Env{AppEnv: "production"},
			want: ModelConfig{Provider: ProviderOpenAI, BaseURL: DefaultOpenAIBaseURL, Model: "gpt-4o-mini"},
		},
		{
			name: "dev openai default model",
			env:  config.Env{DevProvider: "openai", OpenAIAPIKey: "sk-dev"},
			want: ModelConfig{Provider: ProviderOpenAI, BaseURL: DefaultOpenAIBaseURL, APIKey: "sk-dev", Model: "gpt-4o-mini"},
		},
		{
			name: "dev openai model override",
			env:  config.Env{DevProvider: " OpenAI ", OpenAIAPIKey: "sk-dev", LocalDevModel: "gpt-4.1-mini"},
			want: ModelConfig{Provider: ProviderOpenAI, BaseURL: DefaultOpenAIBaseURL, APIKey: "sk-dev", Model: "gpt-4.1-mini"},
		},
		{
			name: "dev ollama",
			env:  config.Env{DevProvider: "ollama", OllamaBaseURL: "http://gpu-box:11434/v1", LocalDevModel: "mistral:latest"},
			want: ModelConfig{Provider: ProviderOllama, BaseURL: "http://gpu-box:11434/v1", APIKey: "ollama", Model: "mistral:latest"},
		},
		{
			name: "dev default provider is ollama",
			env:  config.Env{LocalDevModel: "llama3"},
			want: ModelConfig{Provider: ProviderOllama, BaseURL: config.DefaultOllamaBaseURL, APIKey: "ollama", Model: "llama3"},
		},
		{
			name: "unknown provider treated as ollama",
			env:  config.Env{DevProvider: "anthropic", LocalDevModel: "llama3"},
			want: ModelConfig{Provider: ProviderOllama, BaseURL: config.DefaultOllamaBaseURL, APIKey: "ollama", Model: "llama3"},
		},
		{
			name: "forced mock resolves as ollama",
			env:  config.Env{DevProvider: "mock", ForceAIInDev: true, LocalDevModel: "llama3"},
			want: ModelConfig{Provider: ProviderOllama, BaseURL: config.DefaultOllamaBaseURL, APIKey: "ollama", Model: "llama3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveModelConfig(tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveModelConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		env      config.Env
		variable string
		message  string
	}{
		{
			name:     "dev openai without key",
			env:      config.Env{DevProvider: "openai", LocalDevModel: "gpt-4o-mini"},
			variable: "OPENAI_API_KEY",
			message:  "OPENAI_API_KEY is required for DEV_AI_PROVIDER=openai",
		},
		{
			name:     "dev ollama without model",
			env:      config.Env{DevProvider: "ollama"},
			variable: "LOCAL_DEV_AI_MODEL",
			message:  "LOCAL_DEV_AI_MODEL environment variable is not set",
		},
		{
			name:     "blank model",
			env:      config.Env{LocalDevModel: "   "},
			variable: "LOCAL_DEV_AI_MODEL",
			message:  "LOCAL_DEV_AI_MODEL environment variable is not set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveModelConfig(tt.env)
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.variable, cfgErr.Variable)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestIsOffline(t *testing.T) {
	tests := []struct {
		name string
		env  config.Env
		want bool
	}{
		{name: "dev mock", env: config.Env{DevProvider: "mock"}, want: true},
		{name: "dev mock mixed case", env: config.Env{DevProvider: " Mock "}, want: true},
		{name: "dev mock forced", env: config.Env{DevProvider: "mock", ForceAIInDev: true}, want: false},
		{name: "production mock", env: config.Env{AppEnv: "production", DevProvider: "mock"}, want: false},
		{name: "dev ollama", env: config.Env{DevProvider: "ollama"}, want: false},
		{name: "dev default", env: config.Env{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOffline(tt.env))
		})
	}
}

func TestModelConfig_StringHidesKey(t *testing.T) {
	cfg := ModelConfig{Provider: ProviderOpenAI, APIKey: "sk-secret", Model: "gpt-4o-mini"}
	assert.Equal(t, "openai/gpt-4o-mini", cfg.String())
	assert.NotContains(t, cfg.String(), "sk-secret")
}
