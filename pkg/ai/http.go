// Package ai implements the text-generation backends behind task suggestions.
package ai

import (
	"fmt"
	"net/http"
)

// StatusError is returned when a backend answers with a non-200 status.
type StatusError struct {
	Provider string
	Status   string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned status: %s", e.Provider, e.Status)
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

func clientOrDefault(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}
