package issues

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Errors a Source may return. All of them abort a run before any browser
// session is opened.
var (
	ErrMissingCredential = errors.New("issue tracker credential is not set")
	ErrAuthFailed        = errors.New("issue tracker authentication failed")
	ErrMalformedResponse = errors.New("issue tracker returned a malformed response")
	ErrNoResults         = errors.New("no recent issues found")
)

// APIError is an unexpected HTTP status from the issue tracker.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("issue tracker API error: %d - %s", e.Status, e.Body)
}

// Source produces the task description for a run.
type Source interface {
	FetchRecentSummary(ctx context.Context) (string, error)
}

const summaryPrefix = "Daily Standup, Retro, Planning, Refinement, Code Reviews, help to team, and work on the tickets "

// RenderSummary formats issue keys into the task description entered
// for every day.
func RenderSummary(keys []string) (string, error) {
	if len(keys) == 0 {
		return "", ErrNoResults
	}
	return summaryPrefix + strings.Join(keys, ", "), nil
}
