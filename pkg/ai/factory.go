package ai

import (
	"fmt"
	"os"
	"strings"

	"github.com/felixgeelhaar/roadmapper/pkg/domain/ai"
)

// Environment variables consulted by the factory.
const (
	EnvProvider     = "ROADMAPPER_AI_PROVIDER"
	EnvModel        = "ROADMAPPER_AI_MODEL"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvOpenAIURL    = "OPENAI_BASE_URL"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvOllamaHost   = "OLLAMA_HOST"
)

// Providers lists the names NewProvider accepts.
func Providers() []string {
	return []string{"ollama", "openai", "anthropic", "gemini", "mock"}
}

func NewProvider(providerName string, modelName string) (ai.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(providerName)) {
	case "ollama", "":
		return NewOllamaProviderWithClient(modelName, os.Getenv(EnvOllamaHost), nil), nil
	case "mock":
		return &MockProvider{Model: modelName}, nil
	case "openai":
		return NewOpenAIProviderWithClient(modelName, os.Getenv(EnvOpenAIKey), os.Getenv(EnvOpenAIURL), nil), nil
	case "anthropic":
		return NewAnthropicProvider(modelName, os.Getenv(EnvAnthropicKey)), nil
	case "gemini":
		return NewGeminiProvider(modelName, os.Getenv(EnvGeminiKey)), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", providerName)
	}
}

// GetDefaultProvider applies environment overrides before building the provider.
func GetDefaultProvider(providerName, modelName string) (ai.Provider, error) {
	if env := os.Getenv(EnvProvider); env != "" {
		providerName = env
	}
	if env := os.Getenv(EnvModel); env != "" {
		modelName = env
	}
	return NewProvider(providerName, modelName)
}
