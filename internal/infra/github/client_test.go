package github

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"work_hours_logger/internal/domain/issues"
	"work_hours_logger/internal/infra/config"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestClient(url string) *Client {
	c := NewClient(config.GitHubConfig{Token: "ghp_x", Owner: "acme", Repo: "api"}, quietLogger()).WithEndpoint(url)
	c.now = func() time.Time { return time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC) }
	return c
}

func TestSearchQuery(t *testing.T) {
	got := newTestClient("").SearchQuery()
	want := "repo:acme/api is:issue assignee:@me updated:>=2025-01-05 sort:updated-desc"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFetchRecentSummary(t *testing.T) {
	var auth string
	var body struct {
		Variables map[string]interface{} `json:"variables"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&body)
		io.WriteString(w, `{"data":{"search":{"nodes":[{"number":12},{"number":9},{}]}}}`)
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).FetchRecentSummary(context.Background())
	if err != nil {
		t.Fatalf("FetchRecentSummary failed: %v", err)
	}
	if !strings.HasSuffix(got, "work on the tickets api#12, api#9") {
		t.Errorf("unexpected summary %q", got)
	}
	if auth != "Bearer ghp_x" {
		t.Errorf("unexpected auth header %q", auth)
	}
	if q, _ := body.Variables["q"].(string); !strings.Contains(q, "repo:acme/api") {
		t.Errorf("unexpected query variable %v", body.Variables)
	}
}

func TestFetchRecentSummary_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"Bad credentials"}`, func(err error) bool { return errors.Is(err, issues.ErrAuthFailed) }},
		{"bad gateway", http.StatusBadGateway, `oops`, func(err error) bool {
			var apiErr *issues.APIError
			return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadGateway
		}},
		{"no results", http.StatusOK, `{"data":{"search":{"nodes":[]}}}`, func(err error) bool { return errors.Is(err, issues.ErrNoResults) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).FetchRecentSummary(context.Background())
			if err == nil || !tt.check(err) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestFetchRecentSummary_MissingToken(t *testing.T) {
	c := NewClient(config.GitHubConfig{Owner: "acme", Repo: "api"}, quietLogger())
	if _, err := c.FetchRecentSummary(context.Background()); !errors.Is(err, issues.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}
