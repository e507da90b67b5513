package wiring

import (
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/roadmapper/internal/infrastructure/config"
	"github.com/felixgeelhaar/roadmapper/internal/infrastructure/webhook"
	"github.com/felixgeelhaar/roadmapper/pkg/ai"
	"github.com/felixgeelhaar/roadmapper/pkg/application"
	"github.com/felixgeelhaar/roadmapper/pkg/domain/board"
	domainai "github.com/felixgeelhaar/roadmapper/pkg/domain/ai"
	"github.com/felixgeelhaar/roadmapper/pkg/domain/events"
)

// AppServices bundles everything the CLI and the dashboard need.
type AppServices struct {
	ConfigPath string
	Config     *config.Config
	Board      *application.BoardService
	Client     *application.SuggestionClient
	Publisher  *events.Publisher
	Provider   domainai.Provider
	Notifier   *webhook.Notifier
	Logger     *slog.Logger

	// ProviderErr is set when the configured provider could not be built
	// and the default backend is used instead.
	ProviderErr error
}

// BuildAppServices loads the config at path and wires the board service.
func BuildAppServices(path string, logger *slog.Logger) (*AppServices, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	provider, err := LoadAIProvider(cfg.AI)
	var loadErr error
	if err != nil {
		loadErr = fmt.Errorf("AI provider config fallback: %w", err)
		logger.Warn("falling back to default AI provider", "error", err)
		fallback, fallbackErr := ai.GetDefaultProvider("ollama", "llama3")
		if fallbackErr != nil {
			return nil, fmt.Errorf("fallback AI provider failed: %w", fallbackErr)
		}
		provider = ai.NewResilientProvider(fallback)
	}

	b, err := board.New(cfg.BoardLanes())
	if err != nil {
		return nil, fmt.Errorf("build board: %w", err)
	}

	publisher := events.NewPublisher(logger)
	var notifier *webhook.Notifier
	if hooks := cfg.Notifications.Webhooks; len(hooks) > 0 {
		var deadLetter *webhook.DeadLetterStore
		if cfg.Notifications.DeadLetterFile != "" {
			deadLetter = webhook.NewDeadLetterStore(cfg.Notifications.DeadLetterFile)
		}
		notifier = webhook.NewNotifier(hooks, deadLetter, logger)
		notifier.Attach(publisher)
	}
	client := application.NewSuggestionClient(provider, logger)
	svc, err := application.NewBoardService(b, client, publisher, logger)
	if err != nil {
		return nil, err
	}

	return &AppServices{
		ConfigPath:  path,
		Config:      cfg,
		Board:       svc,
		Client:      client,
		Publisher:   publisher,
		Provider:    provider,
		Notifier:    notifier,
		Logger:      logger,
		ProviderErr: loadErr,
	}, nil
}

// ReloadProvider re-reads the config file and swaps the suggestion backend.
// The board itself is not reseeded.
func (s *AppServices) ReloadProvider() error {
	cfg, err := config.Load(s.ConfigPath)
	if err != nil {
		return err
	}
	provider, err := LoadAIProvider(cfg.AI)
	if err != nil {
		return err
	}
	s.Config.AI = cfg.AI
	s.Provider = provider
	s.Client.SetProvider(provider)
	s.Logger.Info("AI provider reloaded", "provider", provider.ID())
	return nil
}
