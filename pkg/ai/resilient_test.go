package ai_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	infraAI "github.com/felixgeelhaar/roadmapper/pkg/ai"
	"github.com/felixgeelhaar/roadmapper/pkg/domain/ai"
)

type FaultyProvider struct {
	attempts atomic.Int32
	maxFail  int32
}

func (f *FaultyProvider) ID() string { return "faulty" }
func (f *FaultyProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	n := f.attempts.Add(1)
	if f.maxFail < 0 || n <= f.maxFail {
		return nil, errors.New("transient error")
	}
	return &ai.CompletionResponse{Text: "success"}, nil
}

// StatusProvider always fails with the given HTTP status.
type StatusProvider struct {
	code  int
	calls atomic.Int32
}

func (s *StatusProvider) ID() string { return "status" }
func (s *StatusProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	s.calls.Add(1)
	return nil, fmt.Errorf("complete: %w", &infraAI.StatusError{Provider: "test", Status: http.StatusText(s.code), Code: s.code})
}

// SlowOnceProvider stalls on the first call only.
type SlowOnceProvider struct {
	calls atomic.Int32
}

func (s *SlowOnceProvider) ID() string { return "slow-once" }
func (s *SlowOnceProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if s.calls.Add(1) == 1 {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &ai.CompletionResponse{Text: "second try"}, nil
}

type SlowProvider struct{}

func (s *SlowProvider) ID() string { return "slow" }
func (s *SlowProvider) Complete(ctx context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(500 * time.Millisecond):
		return &ai.CompletionResponse{Text: "too late"}, nil
	}
}

func TestResilientProvider_ID_Delegates(t *testing.T) {
	p := infraAI.NewResilientProvider(&infraAI.MockProvider{Model: "test-model"})
	if p.ID() != "mock:test-model" {
		t.Errorf("expected ID 'mock:test-model', got %q", p.ID())
	}
}

func TestResilienceConfig_Defaults(t *testing.T) {
	cfg := infraAI.DefaultResilienceConfig()
	if cfg.MaxRetries != 1 {
		t.Errorf("expected MaxRetries 1, got %d", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 500*time.Millisecond {
		t.Errorf("expected RetryDelay 500ms, got %v", cfg.RetryDelay)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("expected Timeout 60s, got %v", cfg.Timeout)
	}
}

func TestResilientProviderWithConfig_ZeroValuesUseDefaults(t *testing.T) {
	p := infraAI.NewResilientProviderWithConfig(&infraAI.MockProvider{}, infraAI.ResilienceConfig{})
	if p.Config() != infraAI.DefaultResilienceConfig() {
		t.Errorf("expected defaults, got %+v", p.Config())
	}

	p = infraAI.NewResilientProviderWithConfig(&infraAI.MockProvider{}, infraAI.ResilienceConfig{MaxRetries: -1})
	if p.Config().MaxRetries != 0 {
		t.Errorf("expected retries disabled, got %d", p.Config().MaxRetries)
	}
}

func TestResilientProvider_RetriesUntilSuccess(t *testing.T) {
	faulty := &FaultyProvider{maxFail: 3}
	p := infraAI.NewResilientProviderWithConfig(faulty, infraAI.ResilienceConfig{
		MaxRetries: 5,
		RetryDelay: time.Millisecond,
		Timeout:    5 * time.Second,
	})

	resp, err := p.Complete(context.Background(), ai.CompletionRequest{})
	if err != nil {
		t.Fatalf("expected success after retries, got: %v", err)
	}
	if resp.Text != "success" {
		t.Errorf("expected success response, got %q", resp.Text)
	}
	if got := faulty.attempts.Load(); got != 4 {
		t.Errorf("expected 4 attempts, got %d", got)
	}
}

func TestResilientProvider_GivesUp(t *testing.T) {
	faulty := &FaultyProvider{maxFail: -1}
	p := infraAI.NewResilientProviderWithConfig(faulty, infraAI.ResilienceConfig{
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		Timeout:    5 * time.Second,
	})

	if _, err := p.Complete(context.Background(), ai.CompletionRequest{}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := faulty.attempts.Load(); got < 2 {
		t.Errorf("expected at least one retry, got %d attempts", got)
	}
}

func TestResilientProvider_Timeout(t *testing.T) {
	p := infraAI.NewResilientProviderWithConfig(&SlowProvider{}, infraAI.ResilienceConfig{
		MaxRetries: -1,
		Timeout:    20 * time.Millisecond,
	})

	if _, err := p.Complete(context.Background(), ai.CompletionRequest{}); err == nil {
		t.Error("expected timeout error")
	}
}

func TestResilientProvider_StatusClassification(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		wantCalls int32
	}{
		{"unauthorized", http.StatusUnauthorized, 1},
		{"forbidden", http.StatusForbidden, 1},
		{"bad request", http.StatusBadRequest, 1},
		{"rate limited", http.StatusTooManyRequests, 4},
		{"server error", http.StatusBadGateway, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &StatusProvider{code: tt.code}
			p := infraAI.NewResilientProviderWithConfig(inner, infraAI.ResilienceConfig{
				MaxRetries: 3,
				RetryDelay: time.Millisecond,
				Timeout:    5 * time.Second,
			})

			_, err := p.Complete(context.Background(), ai.CompletionRequest{})
			var statusErr *infraAI.StatusError
			if !errors.As(err, &statusErr) || statusErr.Code != tt.code {
				t.Fatalf("expected status %d error, got %v", tt.code, err)
			}
			if got := inner.calls.Load(); got != tt.wantCalls {
				t.Errorf("expected %d calls, got %d", tt.wantCalls, got)
			}
		})
	}
}

func TestResilientProvider_TimeoutPerAttempt(t *testing.T) {
	inner := &SlowOnceProvider{}
	p := infraAI.NewResilientProviderWithConfig(inner, infraAI.ResilienceConfig{
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		Timeout:    50 * time.Millisecond,
	})

	resp, err := p.Complete(context.Background(), ai.CompletionRequest{})
	if err != nil {
		t.Fatalf("expected the retry to succeed, got %v", err)
	}
	if resp.Text != "second try" || inner.calls.Load() != 2 {
		t.Errorf("unexpected result %q after %d calls", resp.Text, inner.calls.Load())
	}
}
