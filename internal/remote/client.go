package remote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dsswift/git-commit-helper/internal/httpclient"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

const (
	// DefaultGitHubAPI is the GitHub REST endpoint.
	DefaultGitHubAPI = "https://api.github.com"

	defaultTimeout = 30 * time.Second
)

// Change is the description and diff of a remote change.
type Change struct {
	Target  *Target
	Message string
	Diff    string
}

// Client fetches remote changes.
type Client struct {
	http      *http.Client
	githubAPI string
	gerrit    *types.GerritConfig
	logger    *slog.Logger
}

// NewClient creates a client. gerrit may be nil.
func NewClient(gerrit *types.GerritConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:      httpclient.NewClient(defaultTimeout),
		githubAPI: DefaultGitHubAPI,
		gerrit:    gerrit,
		logger:    logger,
	}
}

// Fetch retrieves the message and diff for a review URL.
// The two requests run concurrently.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Change, error) {
	target, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	var fetchInfo, fetchDiff func(context.Context) (string, error)
	switch target.Kind {
	case GitHubPullRequest:
		fetchInfo = func(ctx context.Context) (string, error) { return c.pullRequestInfo(ctx, target) }
		fetchDiff = func(ctx context.Context) (string, error) { return c.githubDiff(ctx, target, "pulls") }
	case GitHubCommit:
		fetchInfo = func(ctx context.Context) (string, error) { return c.commitInfo(ctx, target) }
		fetchDiff = func(ctx context.Context) (string, error) { return c.githubDiff(ctx, target, "commits") }
	case GerritChange:
		fetchInfo = func(ctx context.Context) (string, error) { return c.gerritInfo(ctx, target) }
		fetchDiff = func(ctx context.Context) (string, error) { return c.gerritPatch(ctx, target) }
	}

	change := &Change{Target: target}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		msg, err := fetchInfo(gctx)
		change.Message = msg
		return err
	})
	g.Go(func() error {
		diff, err := fetchDiff(gctx)
		change.Diff = diff
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched remote change",
		slog.String("kind", string(target.Kind)),
		slog.Int("diff_chars", len(change.Diff)))
	return change, nil
}

// StatusError is returned when a remote answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("request to %s failed (status %d): %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("request to %s failed (status %d)", e.URL, e.StatusCode)
}

// get performs a GET request and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, url string, headers map[string]string, auth func(*http.Request)) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if auth != nil {
		auth(req)
	}

	c.logger.Debug("remote request", slog.String("url", url))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Body: truncateBody(body)}
	}
	return body, nil
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

// githubAuth adds a bearer token when GITHUB_TOKEN is set.
func githubAuth(req *http.Request) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
