package ai

import (
	"context"
	"testing"
)

// staticProvider implements the Provider interface for testing.
type staticProvider struct {
	last CompletionRequest
}

func (p *staticProvider) ID() string { return "static:test" }

func (p *staticProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	p.last = req
	return &CompletionResponse{
		Text:  `{"task":"x","lane":"y"}`,
		Model: "test",
		Usage: TokenUsage{InputTokens: 12, OutputTokens: 30},
	}, nil
}

func TestProvider_PassesJSONMode(t *testing.T) {
	var p Provider = &staticProvider{}
	resp, err := p.Complete(context.Background(), CompletionRequest{Prompt: "suggest", JSON: true})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !p.(*staticProvider).last.JSON {
		t.Error("JSON flag not forwarded")
	}
	if resp.Usage.Total() != 42 {
		t.Errorf("Total() = %d, want 42", resp.Usage.Total())
	}
}

func TestTokenUsage_TotalZero(t *testing.T) {
	if (TokenUsage{}).Total() != 0 {
		t.Error("zero usage should total 0")
	}
}
