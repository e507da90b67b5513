package ai

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/felixgeelhaar/roadmapper/pkg/domain/ai"
)

// MockProvider answers without a network call. With no Text set it proposes a
// follow-up task for the first lane named in the prompt.
type MockProvider struct {
	Model string
	Text  string
	Err   error

	mu    sync.Mutex
	calls []ai.CompletionRequest
}

func (p *MockProvider) ID() string {
	return "mock:" + p.Model
}

func (p *MockProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Err != nil {
		return nil, p.Err
	}

	text := p.Text
	if text == "" {
		text = cannedSuggestion(req.Prompt)
	}
	return &ai.CompletionResponse{
		Text:  text,
		Model: p.Model,
		Usage: ai.TokenUsage{
			InputTokens:  len(req.Prompt) / 4,
			OutputTokens: len(text) / 4,
		},
	}, nil
}

// Calls returns the requests received so far.
func (p *MockProvider) Calls() []ai.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ai.CompletionRequest(nil), p.calls...)
}

func cannedSuggestion(prompt string) string {
	lane := "Planning"
	for _, line := range strings.Split(prompt, "\n") {
		if name, ok := strings.CutPrefix(strings.TrimSpace(line), "Lane Name:"); ok {
			lane = strings.TrimSpace(name)
			break
		}
	}
	out, _ := json.Marshal(map[string]string{
		"task": "Review open items in " + lane,
		"lane": lane,
	})
	return string(out)
}
