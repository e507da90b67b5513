package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	infraai "github.com/felixgeelhaar/roadmapper/pkg/ai"
)

// runCLI executes the root command with args and returns combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args...)
}

// runCLIContext is runCLI with a context that commands such as serve observe.
func runCLIContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	RootCmd.SetOut(buf)
	RootCmd.SetErr(buf)
	RootCmd.SilenceErrors = true
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

// withMockProvider points the provider factory at the canned mock backend.
func withMockProvider(t *testing.T) {
	t.Helper()
	t.Setenv(infraai.EnvProvider, "mock")
	t.Setenv(infraai.EnvModel, "test")
}

func tempConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "board.yaml")
}
