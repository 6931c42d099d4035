// Package jira fetches recently updated issues from a Jira server and
// renders them as the day's task description.
package jira

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"work_hours_logger/internal/domain/issues"
	"work_hours_logger/internal/infra/config"

	jiralib "github.com/andygrunwald/go-jira"
	"github.com/sirupsen/logrus"
)

const (
	searchTimeout = 30 * time.Second
	maxResults    = 10
)

// Client implements issues.Source against the Jira REST search API.
type Client struct {
	cfg    config.JiraConfig
	http   *http.Client
	logger *logrus.Entry
}

func NewClient(cfg config.JiraConfig, logger *logrus.Entry) *Client {
	return &Client{cfg: cfg, logger: logger}
}

// WithHTTPClient overrides the underlying HTTP client; the basic auth
// transport is layered on top of its transport.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// JQL returns the search issued for the configured project and assignee.
func (c *Client) JQL() string {
	return fmt.Sprintf(`project = %s AND assignee = "%s" AND updated >= -5d AND type IN standardIssueTypes()`, c.cfg.Project, c.cfg.Username)
}

func (c *Client) FetchRecentSummary(ctx context.Context) (string, error) {
	if err := c.validate(); err != nil {
		return "", err
	}

	tp := jiralib.BasicAuthTransport{Username: c.cfg.ServiceAccount, Password: c.cfg.APIToken}
	if c.http != nil {
		tp.Transport = c.http.Transport
	}
	httpClient := tp.Client()
	httpClient.Timeout = searchTimeout

	api, err := jiralib.NewClient(httpClient, c.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("failed to create jira client: %w", err)
	}

	c.logger.Info("Querying Jira for recent tickets...")
	found, resp, err := api.Issue.SearchWithContext(ctx, c.JQL(), &jiralib.SearchOptions{
		MaxResults: maxResults,
		Fields:     []string{"key", "summary"},
	})
	if err != nil {
		return "", c.classify(resp, err)
	}

	keys := make([]string, 0, len(found))
	for _, issue := range found {
		if issue.Key != "" {
			keys = append(keys, issue.Key)
		}
	}
	summary, err := issues.RenderSummary(keys)
	if err != nil {
		return "", fmt.Errorf("no recent tickets for %s in project %s (last 5 days): %w", c.cfg.Username, c.cfg.Project, err)
	}
	c.logger.WithField("tickets", strings.Join(keys, ", ")).Info("Found recent Jira tickets")
	return summary, nil
}

func (c *Client) validate() error {
	required := []struct{ name, value string }{
		{"JIRA_USERNAME", c.cfg.Username},
		{"JIRA_SVC_ACCOUNT", c.cfg.ServiceAccount},
		{"JIRA_API_TOKEN", c.cfg.APIToken},
		{"JIRA_URL", c.cfg.URL},
		{"JIRA_PROJECT", c.cfg.Project},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required but not set: %w", r.name, issues.ErrMissingCredential)
		}
	}
	return nil
}

// classify maps a failed search onto the issues error vocabulary.
func (c *Client) classify(resp *jiralib.Response, err error) error {
	if resp == nil || resp.Response == nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("jira request interrupted: %w", err)
		}
		return fmt.Errorf("failed to connect to jira API: %w", err)
	}
	switch status := resp.StatusCode; {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("check JIRA_SVC_ACCOUNT and JIRA_API_TOKEN: %w", issues.ErrAuthFailed)
	case status == http.StatusForbidden:
		return fmt.Errorf("access to project %s forbidden: %w", c.cfg.Project, issues.ErrAuthFailed)
	case status >= 200 && status < 300:
		return fmt.Errorf("%w: %v", issues.ErrMalformedResponse, err)
	default:
		return &issues.APIError{Status: status, Body: err.Error()}
	}
}
