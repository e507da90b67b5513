package wiring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	infraai "github.com/felixgeelhaar/roadmapper/pkg/ai"
)

func TestBuildAppServices_Defaults(t *testing.T) {
	t.Setenv(infraai.EnvProvider, "mock")
	t.Setenv(infraai.EnvModel, "test")

	services, err := BuildAppServices(filepath.Join(t.TempDir(), "board.yaml"), nil)
	if err != nil {
		t.Fatalf("BuildAppServices failed: %v", err)
	}
	if len(services.Board.Lanes()) != 5 {
		t.Errorf("expected default lanes, got %d", len(services.Board.Lanes()))
	}
	if services.Client.ProviderID() != "mock:test" {
		t.Errorf("unexpected provider %s", services.Client.ProviderID())
	}
	if services.Notifier != nil {
		t.Error("expected no notifier without webhooks")
	}

	res, err := services.Board.Suggest(context.Background(), "")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if res.Lane.ID != "planning" {
		t.Errorf("expected canned suggestion for first lane, got %s", res.Lane.ID)
	}
}

func TestBuildAppServices_FallbackProvider(t *testing.T) {
	t.Setenv(infraai.EnvProvider, "")
	t.Setenv(infraai.EnvModel, "")
	path := filepath.Join(t.TempDir(), "board.yaml")
	if err := os.WriteFile(path, []byte("ai:\n  provider: skynet\n"), 0600); err != nil {
		t.Fatal(err)
	}

	services, err := BuildAppServices(path, nil)
	if err != nil {
		t.Fatalf("BuildAppServices failed: %v", err)
	}
	if services.ProviderErr == nil {
		t.Error("expected provider fallback to be reported")
	}
	if services.Client.ProviderID() != "ollama:llama3" {
		t.Errorf("expected ollama fallback, got %s", services.Client.ProviderID())
	}
}

func TestBuildAppServices_InvalidBoard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	data := "lanes:\n  - id: a\n    tasks:\n      - id: t1\n        content: x\n  - id: b\n    tasks:\n      - id: t1\n        content: y\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := BuildAppServices(path, nil); err == nil {
		t.Error("expected duplicate task IDs to fail")
	}
}

func TestBuildAppServices_Webhooks(t *testing.T) {
	t.Setenv(infraai.EnvProvider, "mock")
	var received atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "board.yaml")
	data := "notifications:\n  webhooks:\n    - name: test\n      url: " + server.URL + "\n      events: [task.added]\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	services, err := BuildAppServices(path, nil)
	if err != nil {
		t.Fatalf("BuildAppServices failed: %v", err)
	}
	if services.Notifier == nil {
		t.Fatal("expected notifier")
	}
	if _, err := services.Board.AddTask("planning", "Hook me"); err != nil {
		t.Fatal(err)
	}
	services.Notifier.Wait()
	if received.Load() != 1 {
		t.Errorf("expected 1 webhook delivery, got %d", received.Load())
	}
}

func TestReloadProvider(t *testing.T) {
	t.Setenv(infraai.EnvProvider, "")
	t.Setenv(infraai.EnvModel, "")
	path := filepath.Join(t.TempDir(), "board.yaml")
	if err := os.WriteFile(path, []byte("ai:\n  provider: mock\n  model: first\n"), 0600); err != nil {
		t.Fatal(err)
	}

	services, err := BuildAppServices(path, nil)
	if err != nil {
		t.Fatalf("BuildAppServices failed: %v", err)
	}
	if _, err := services.Board.AddTask("planning", "Kept across reload"); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte("ai:\n  provider: mock\n  model: second\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := services.ReloadProvider(); err != nil {
		t.Fatalf("ReloadProvider failed: %v", err)
	}
	if services.Client.ProviderID() != "mock:second" {
		t.Errorf("expected reloaded provider, got %s", services.Client.ProviderID())
	}
	if n := len(services.Board.Lanes()[0].Tasks); n != 3 {
		t.Errorf("reload should not reseed the board, planning has %d tasks", n)
	}

	if err := os.WriteFile(path, []byte("ai:\n  provider: skynet\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := services.ReloadProvider(); err == nil {
		t.Error("expected error for unknown provider")
	}
	if services.Client.ProviderID() != "mock:second" {
		t.Error("failed reload must keep the previous provider")
	}
}
