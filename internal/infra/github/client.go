// Package github fetches recently updated GitHub issues assigned to the
// token owner through the GraphQL API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"work_hours_logger/internal/domain/issues"
	"work_hours_logger/internal/infra/config"

	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	lookback    = 5 * 24 * time.Hour
	maxResults  = 10
	callTimeout = 30 * time.Second
)

var statusPattern = regexp.MustCompile(`non-200 OK status code: (\d{3})`)

// Client implements issues.Source against GitHub.
type Client struct {
	cfg      config.GitHubConfig
	endpoint string
	now      func() time.Time
	logger   *logrus.Entry
}

func NewClient(cfg config.GitHubConfig, logger *logrus.Entry) *Client {
	return &Client{cfg: cfg, now: time.Now, logger: logger}
}

// WithEndpoint points the client at a GitHub Enterprise (or test) GraphQL URL.
func (c *Client) WithEndpoint(url string) *Client {
	c.endpoint = url
	return c
}

// SearchQuery is the issue search sent to GitHub.
func (c *Client) SearchQuery() string {
	since := c.now().Add(-lookback).Format("2006-01-02")
	return fmt.Sprintf("repo:%s/%s is:issue assignee:@me updated:>=%s sort:updated-desc", c.cfg.Owner, c.cfg.Repo, since)
}

func (c *Client) FetchRecentSummary(ctx context.Context) (string, error) {
	for _, r := range []struct{ name, value string }{
		{"GITHUB_TOKEN", c.cfg.Token},
		{"GITHUB_OWNER", c.cfg.Owner},
		{"GITHUB_REPO", c.cfg.Repo},
	} {
		if r.value == "" {
			return "", fmt.Errorf("%s is required but not set: %w", r.name, issues.ErrMissingCredential)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	var query struct {
		Search struct {
			Nodes []struct {
				Issue struct {
					Number int
				} `graphql:"... on Issue"`
			}
		} `graphql:"search(query: $q, type: ISSUE, first: $first)"`
	}
	variables := map[string]interface{}{
		"q":     githubv4.String(c.SearchQuery()),
		"first": githubv4.Int(maxResults),
	}

	c.logger.Info("Querying GitHub for recent issues...")
	if err := c.gql(ctx).Query(ctx, &query, variables); err != nil {
		return "", classify(err)
	}

	keys := make([]string, 0, len(query.Search.Nodes))
	for _, n := range query.Search.Nodes {
		if n.Issue.Number > 0 {
			keys = append(keys, fmt.Sprintf("%s#%d", c.cfg.Repo, n.Issue.Number))
		}
	}
	summary, err := issues.RenderSummary(keys)
	if err != nil {
		return "", fmt.Errorf("no recent issues in %s/%s (last 5 days): %w", c.cfg.Owner, c.cfg.Repo, err)
	}
	c.logger.WithField("issues", strings.Join(keys, ", ")).Info("Found recent GitHub issues")
	return summary, nil
}

func (c *Client) gql(ctx context.Context) *githubv4.Client {
	src := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: c.cfg.Token},
	)
	httpClient := oauth2.NewClient(ctx, src)
	if c.endpoint != "" {
		return githubv4.NewEnterpriseClient(c.endpoint, httpClient)
	}
	return githubv4.NewClient(httpClient)
}

// classify maps githubv4 errors, which only carry the status in their
// text, onto the issues error vocabulary.
func classify(err error) error {
	m := statusPattern.FindStringSubmatch(err.Error())
	if m == nil {
		if strings.Contains(err.Error(), "unexpected end of JSON") || strings.Contains(err.Error(), "invalid character") {
			return fmt.Errorf("%w: %v", issues.ErrMalformedResponse, err)
		}
		return fmt.Errorf("github query failed: %w", err)
	}
	status, _ := strconv.Atoi(m[1])
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("check GITHUB_TOKEN: %w", issues.ErrAuthFailed)
	default:
		return &issues.APIError{Status: status, Body: err.Error()}
	}
}
