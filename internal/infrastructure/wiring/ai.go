package wiring

import (
	"github.com/felixgeelhaar/roadmapper/internal/infrastructure/config"
	infraai "github.com/felixgeelhaar/roadmapper/pkg/ai"
	domainai "github.com/felixgeelhaar/roadmapper/pkg/domain/ai"
)

// LoadAIProvider builds the configured backend wrapped with retry and timeout.
func LoadAIProvider(cfg config.AIConfig) (domainai.Provider, error) {
	providerName := "ollama"
	modelName := "llama3"
	resilienceConfig := infraai.DefaultResilienceConfig()

	if cfg.Provider != "" {
		providerName = cfg.Provider
	}
	if cfg.Model != "" {
		modelName = cfg.Model
	}
	if cfg.MaxRetries > 0 {
		resilienceConfig.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelayMs > 0 {
		resilienceConfig.RetryDelay = cfg.RetryDelay()
	}
	if cfg.TimeoutSec > 0 {
		resilienceConfig.Timeout = cfg.Timeout()
	}

	baseProvider, err := infraai.GetDefaultProvider(providerName, modelName)
	if err != nil {
		return nil, err
	}

	return infraai.NewResilientProviderWithConfig(baseProvider, resilienceConfig), nil
}
