package cli

import (
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/roadmapper/internal/infrastructure/wiring"
)

func loadServices() (*wiring.AppServices, error) {
	services, err := wiring.BuildAppServices(configPath, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to build services: %w", err)
	}
	if services.ProviderErr != nil {
		fmt.Printf("Warning: %v\n", services.ProviderErr)
	}
	return services, nil
}
