// Package remote fetches change descriptions and diffs from GitHub and Gerrit.
package remote

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind identifies the type of remote change.
type Kind string

const (
	GitHubPullRequest Kind = "github-pr"
	GitHubCommit      Kind = "github-commit"
	GerritChange      Kind = "gerrit"
)

// Target is a parsed review URL.
type Target struct {
	Kind Kind

	// GitHub
	Owner string
	Repo  string
	// Ref is the PR number or the commit SHA.
	Ref string

	// Gerrit
	BaseURL  string
	Project  string
	ChangeID string
}

// Host returns the host the change is fetched from.
func (t *Target) Host() string {
	if t.Kind == GerritChange {
		if u, err := url.Parse(t.BaseURL); err == nil {
			return u.Host
		}
		return t.BaseURL
	}
	return "github.com"
}

// InvalidURLError is returned for URLs that are neither GitHub nor Gerrit changes.
type InvalidURLError struct {
	URL    string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid review URL %q: %s", e.URL, e.Reason)
}

// ParseURL recognises GitHub pull request and commit links and Gerrit
// change links of the form https://host/c/<project>/+/<id>.
func ParseURL(raw string) (*Target, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &InvalidURLError{URL: raw, Reason: "must be an absolute http(s) URL"}
	}

	if strings.EqualFold(u.Hostname(), "github.com") {
		return parseGitHub(raw, u)
	}
	if strings.Contains(u.Path, "/+/") {
		return parseGerrit(raw, u)
	}
	return nil, &InvalidURLError{URL: raw, Reason: "must be a GitHub or Gerrit link"}
}

func parseGitHub(raw string, u *url.URL) (*Target, error) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 4 || parts[0] == "" || parts[1] == "" || parts[3] == "" {
		return nil, &InvalidURLError{URL: raw, Reason: "GitHub link must point to a pull request or a commit"}
	}

	t := &Target{Owner: parts[0], Repo: parts[1], Ref: parts[3]}
	switch parts[2] {
	case "pull":
		t.Kind = GitHubPullRequest
	case "commit":
		t.Kind = GitHubCommit
	default:
		return nil, &InvalidURLError{URL: raw, Reason: "GitHub link must point to a pull request or a commit"}
	}
	return t, nil
}

func parseGerrit(raw string, u *url.URL) (*Target, error) {
	prefix, rest, ok := strings.Cut(u.Path, "/c/")
	if !ok {
		return nil, &InvalidURLError{URL: raw, Reason: "Gerrit link must contain /c/<project>/+/<id>"}
	}
	project, change, ok := strings.Cut(rest, "/+/")
	project = strings.Trim(project, "/")
	changeID, _, _ := strings.Cut(change, "/")
	if !ok || project == "" || changeID == "" {
		return nil, &InvalidURLError{URL: raw, Reason: "Gerrit link must contain /c/<project>/+/<id>"}
	}

	return &Target{
		Kind:     GerritChange,
		BaseURL:  u.Scheme + "://" + u.Host + strings.TrimRight(prefix, "/"),
		Project:  project,
		ChangeID: changeID,
	}, nil
}
