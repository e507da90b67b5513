package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/felixgeelhaar/roadmapper/pkg/domain/ai"
	"github.com/felixgeelhaar/roadmapper/pkg/domain/board"
)

// ErrMalformedSuggestion indicates the generator answered with something other
// than a {task, lane} document.
var ErrMalformedSuggestion = errors.New("malformed suggestion")

const suggestionSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["task", "lane"],
  "properties": {
    "task": { "type": "string", "minLength": 1 },
    "lane": { "type": "string", "minLength": 1 }
  }
}`

var suggestionSchemaLoader = gojsonschema.NewStringLoader(suggestionSchemaJSON)

const suggestionSystemPrompt = "You are a product manager maintaining a roadmap board. You return a single JSON object with the keys \"task\" and \"lane\" and nothing else."

// Suggester proposes a task for a board snapshot.
type Suggester interface {
	Suggest(ctx context.Context, snap board.Snapshot) (board.Suggestion, error)
}

// SuggestionClient turns board snapshots into prompts and generator answers
// into suggestions.
type SuggestionClient struct {
	mu       sync.RWMutex
	provider ai.Provider
	logger   *slog.Logger
}

// NewSuggestionClient creates a client backed by provider.
func NewSuggestionClient(provider ai.Provider, logger *slog.Logger) *SuggestionClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &SuggestionClient{provider: provider, logger: logger}
}

// SetProvider swaps the backend, e.g. after a configuration reload.
func (c *SuggestionClient) SetProvider(provider ai.Provider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.provider = provider
}

// ProviderID names the active backend.
func (c *SuggestionClient) ProviderID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.provider == nil {
		return ""
	}
	return c.provider.ID()
}

// Suggest asks the generator for one task and the title of its lane.
func (c *SuggestionClient) Suggest(ctx context.Context, snap board.Snapshot) (board.Suggestion, error) {
	c.mu.RLock()
	provider := c.provider
	c.mu.RUnlock()
	if provider == nil {
		return board.Suggestion{}, fmt.Errorf("no AI provider configured")
	}

	resp, err := provider.Complete(ctx, ai.CompletionRequest{
		Prompt:      BuildSuggestionPrompt(snap),
		System:      suggestionSystemPrompt,
		Temperature: 0.7,
		MaxTokens:   256,
		JSON:        true,
	})
	if err != nil {
		return board.Suggestion{}, fmt.Errorf("AI suggestion failed: %w", err)
	}

	c.logger.Debug("suggestion completed",
		"provider", provider.ID(),
		"model", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)

	return ParseSuggestion(resp.Text)
}

// BuildSuggestionPrompt renders the snapshot the way the generator expects it.
func BuildSuggestionPrompt(snap board.Snapshot) string {
	var b strings.Builder
	b.WriteString("Given the following lanes and tasks in a roadmap, suggest a logical next task and the lane it should be added to. Consider the current task, if provided.\n\n")
	b.WriteString("Lanes:\n")
	for _, l := range snap.Lanes {
		fmt.Fprintf(&b, "  Lane Name: %s\n", l.Name)
		b.WriteString("  Tasks:\n")
		for _, t := range l.Tasks {
			fmt.Fprintf(&b, "    - %s\n", t)
		}
	}
	fmt.Fprintf(&b, "\nCurrent Task: %s\n\n", snap.CurrentTask)
	b.WriteString("Suggest a task that would be a logical next step and the lane it belongs in.\n")
	b.WriteString("The lane MUST be one of the lane names above, copied exactly.\n\n")
	b.WriteString("Return ONLY a JSON object with no surrounding text, no markdown, and no code fences.\n")
	b.WriteString("Format:\n{\"task\": \"<task description>\", \"lane\": \"<lane name>\"}\n")
	return b.String()
}

// ParseSuggestion extracts and validates a {task, lane} object from generator output.
func ParseSuggestion(text string) (board.Suggestion, error) {
	clean := extractJSONPayload(text)
	if clean == "" {
		return board.Suggestion{}, fmt.Errorf("%w: empty response", ErrMalformedSuggestion)
	}

	result, err := gojsonschema.Validate(suggestionSchemaLoader, gojsonschema.NewStringLoader(clean))
	if err != nil {
		return board.Suggestion{}, fmt.Errorf("%w: %v", ErrMalformedSuggestion, err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return board.Suggestion{}, fmt.Errorf("%w: %s", ErrMalformedSuggestion, strings.Join(issues, "; "))
	}

	var s board.Suggestion
	if err := json.Unmarshal([]byte(clean), &s); err != nil {
		return board.Suggestion{}, fmt.Errorf("%w: %v", ErrMalformedSuggestion, err)
	}
	s.Task = strings.TrimSpace(s.Task)
	if s.Task == "" {
		return board.Suggestion{}, fmt.Errorf("%w: blank task", ErrMalformedSuggestion)
	}
	return s, nil
}

func extractJSONPayload(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start == -1 || end <= start {
		return clean
	}
	return strings.TrimSpace(clean[start : end+1])
}
