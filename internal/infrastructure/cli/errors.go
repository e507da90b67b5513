package cli

import (
	"errors"
	"fmt"
	"net/http"

	infraai "github.com/felixgeelhaar/roadmapper/pkg/ai"
	"github.com/felixgeelhaar/roadmapper/pkg/application"
	"github.com/felixgeelhaar/roadmapper/pkg/domain/board"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var laneErr *board.LaneError
	if errors.As(err, &laneErr) {
		return NewCLIError(
			fmt.Sprintf("no lane %q", laneErr.Ref),
			"Run 'roadmapper lanes' to list lane IDs and titles",
			err,
		)
	}

	var statusErr *infraai.StatusError
	if errors.As(err, &statusErr) {
		hint := "Check that the AI provider is reachable and retry"
		if statusErr.Code == http.StatusUnauthorized || statusErr.Code == http.StatusForbidden {
			hint = fmt.Sprintf("Check the API key for %s (e.g. %s, %s, %s)",
				statusErr.Provider, infraai.EnvOpenAIKey, infraai.EnvAnthropicKey, infraai.EnvGeminiKey)
		}
		return NewCLIError("AI provider request failed", hint, err)
	}

	switch {
	case errors.Is(err, board.ErrLaneNotFound):
		return NewCLIError("lane not found", "Run 'roadmapper lanes' to list lane IDs and titles", err)
	case errors.Is(err, board.ErrTaskNotFound):
		return NewCLIError("task not found in lane", "Run 'roadmapper lanes' to see which lane holds each task", err)
	case errors.Is(err, board.ErrEmptyContent):
		return NewCLIError("task content is empty", "Provide non-blank text for the task", err)
	case errors.Is(err, board.ErrDuplicateLane), errors.Is(err, board.ErrDuplicateTask):
		return NewCLIError("invalid board definition", "Lane and task IDs in board.yaml must be unique", err)
	case errors.Is(err, board.ErrSuggestionInFlight):
		return NewCLIError("a suggestion is already being generated", "Wait for it to finish, then retry", err)
	case errors.Is(err, application.ErrMalformedSuggestion):
		return NewCLIError("the AI provider returned an unreadable suggestion", "Retry, or pick another model with "+infraai.EnvModel, err)
	}

	return err
}
