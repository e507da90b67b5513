package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	infraAI "github.com/felixgeelhaar/roadmapper/pkg/ai"
	"github.com/felixgeelhaar/roadmapper/pkg/domain/ai"
)

func TestOpenAIProvider_Complete_Success(t *testing.T) {
	var receivedBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected Bearer test-key, got %s", r.Header.Get("Authorization"))
		}
		json.NewDecoder(r.Body).Decode(&receivedBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": `{"task":"x","lane":"y"}`}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5},
		})
	}))
	defer server.Close()

	p := infraAI.NewOpenAIProviderWithClient("gpt-4", "test-key", server.URL, server.Client())
	resp, err := p.Complete(context.Background(), ai.CompletionRequest{
		Prompt:      "Hello",
		System:      "Be brief",
		Temperature: 0.4,
		JSON:        true,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Text != `{"task":"x","lane":"y"}` {
		t.Errorf("unexpected text %q", resp.Text)
	}
	if resp.Usage.InputTokens != 10 || resp.Usage.OutputTokens != 5 {
		t.Errorf("unexpected usage %+v", resp.Usage)
	}

	messages := receivedBody["messages"].([]interface{})
	if len(messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(messages))
	}
	if messages[0].(map[string]interface{})["role"] != "system" {
		t.Errorf("expected system message first, got %v", messages[0])
	}
	format, ok := receivedBody["response_format"].(map[string]interface{})
	if !ok || format["type"] != "json_object" {
		t.Errorf("expected json_object response format, got %v", receivedBody["response_format"])
	}
	if _, ok := receivedBody["temperature"]; !ok {
		t.Error("expected temperature in request")
	}
}

func TestOpenAIProvider_Complete_NoAPIKey(t *testing.T) {
	p := infraAI.NewOpenAIProvider("gpt-4", "")
	if _, err := p.Complete(context.Background(), ai.CompletionRequest{Prompt: "Hello"}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestOpenAIProvider_Complete_StatusError(t *testing.T) {
	tests := []struct {
		code      int
		temporary bool
	}{
		{http.StatusInternalServerError, true},
		{http.StatusTooManyRequests, true},
		{http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer server.Close()

			p := infraAI.NewOpenAIProviderWithClient("gpt-4", "test-key", server.URL, server.Client())
			_, err := p.Complete(context.Background(), ai.CompletionRequest{Prompt: "Hello"})

			var statusErr *infraAI.StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected StatusError, got %v", err)
			}
			if statusErr.Code != tt.code || statusErr.Temporary() != tt.temporary {
				t.Errorf("unexpected status error %+v", statusErr)
			}
		})
	}
}

func TestOpenAIProvider_Complete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	p := infraAI.NewOpenAIProviderWithClient("gpt-4", "test-key", server.URL, server.Client())
	if _, err := p.Complete(context.Background(), ai.CompletionRequest{Prompt: "Hello"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestOpenAIProvider_Complete_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	p := infraAI.NewOpenAIProviderWithClient("gpt-4", "test-key", server.URL, server.Client())
	if _, err := p.Complete(context.Background(), ai.CompletionRequest{Prompt: "Hello"}); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestOpenAIProvider_DefaultModel(t *testing.T) {
	p := infraAI.NewOpenAIProvider("", "test-key")
	if p.ID() != "openai:gpt-4o-mini" {
		t.Errorf("expected default model gpt-4o-mini, got %s", p.ID())
	}
}
