package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type pullRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type commitResponse struct {
	Commit struct {
		Message string `json:"message"`
	} `json:"commit"`
}

func (c *Client) repoURL(t *Target, kind string) string {
	return fmt.Sprintf("%s/repos/%s/%s/%s/%s", c.githubAPI, t.Owner, t.Repo, kind, t.Ref)
}

func (c *Client) pullRequestInfo(ctx context.Context, t *Target) (string, error) {
	body, err := c.get(ctx, c.repoURL(t, "pulls"), map[string]string{
		"Accept": "application/vnd.github.v3+json",
	}, githubAuth)
	if err != nil {
		return "", err
	}

	var pr pullRequest
	if err := json.Unmarshal(body, &pr); err != nil {
		return "", fmt.Errorf("failed to parse pull request: %w", err)
	}

	msg := strings.TrimSpace(pr.Title)
	if desc := strings.TrimSpace(pr.Body); desc != "" {
		msg += "\n\n" + desc
	}
	return msg, nil
}

func (c *Client) commitInfo(ctx context.Context, t *Target) (string, error) {
	body, err := c.get(ctx, c.repoURL(t, "commits"), map[string]string{
		"Accept": "application/vnd.github.v3+json",
	}, githubAuth)
	if err != nil {
		return "", err
	}

	var commit commitResponse
	if err := json.Unmarshal(body, &commit); err != nil {
		return "", fmt.Errorf("failed to parse commit: %w", err)
	}
	return strings.TrimSpace(commit.Commit.Message), nil
}

// githubDiff asks the REST API for the diff media type of a PR or commit.
func (c *Client) githubDiff(ctx context.Context, t *Target, kind string) (string, error) {
	body, err := c.get(ctx, c.repoURL(t, kind), map[string]string{
		"Accept": "application/vnd.github.v3.diff",
	}, githubAuth)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
