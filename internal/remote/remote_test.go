package remote

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsswift/git-commit-helper/pkg/types"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Target
	}{
		{
			name: "pull request",
			url:  "https://github.com/acme/widgets/pull/42",
			want: Target{Kind: GitHubPullRequest, Owner: "acme", Repo: "widgets", Ref: "42"},
		},
		{
			name: "pull request files tab",
			url:  "https://github.com/acme/widgets/pull/42/files",
			want: Target{Kind: GitHubPullRequest, Owner: "acme", Repo: "widgets", Ref: "42"},
		},
		{
			name: "commit",
			url:  "https://github.com/acme/widgets/commit/abc123",
			want: Target{Kind: GitHubCommit, Owner: "acme", Repo: "widgets", Ref: "abc123"},
		},
		{
			name: "gerrit",
			url:  "https://gerrit.example.com/c/group/project/+/179042",
			want: Target{Kind: GerritChange, BaseURL: "https://gerrit.example.com", Project: "group/project", ChangeID: "179042"},
		},
		{
			name: "gerrit with prefix and patchset",
			url:  "https://review.example.com/gerrit/c/tools/+/17/3",
			want: Target{Kind: GerritChange, BaseURL: "https://review.example.com/gerrit", Project: "tools", ChangeID: "17"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseURL_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"not a url",
		"https://github.com/acme/widgets",
		"https://github.com/acme/widgets/issues/3",
		"https://gitlab.com/acme/widgets/-/merge_requests/1",
		"https://gerrit.example.com/+/123",
	} {
		_, err := ParseURL(raw)
		var invalid *InvalidURLError
		assert.ErrorAs(t, err, &invalid, raw)
	}
}

func TestTarget_Host(t *testing.T) {
	gh := &Target{Kind: GitHubCommit}
	assert.Equal(t, "github.com", gh.Host())

	gerrit := &Target{Kind: GerritChange, BaseURL: "https://gerrit.example.com:8443"}
	assert.Equal(t, "gerrit.example.com:8443", gerrit.Host())
}

func TestFetch_GitHubCommit(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "gh-token")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/commits/abc123", r.URL.Path)
		assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))

		if r.Header.Get("Accept") == "application/vnd.github.v3.diff" {
			w.Write([]byte("diff --git a/x b/x\n"))
			return
		}
		w.Write([]byte(`{"commit":{"message":"fix: handle nil\n\nDetails."}}`))
	}))
	defer server.Close()

	client := NewClient(nil, nil)
	client.githubAPI = server.URL

	change, err := client.Fetch(context.Background(), "https://github.com/acme/widgets/commit/abc123")
	require.NoError(t, err)
	assert.Equal(t, "fix: handle nil\n\nDetails.", change.Message)
	assert.Equal(t, "diff --git a/x b/x\n", change.Diff)
	assert.Equal(t, GitHubCommit, change.Target.Kind)
}

func TestFetch_GitHubPullRequest(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/pulls/7", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		if r.Header.Get("Accept") == "application/vnd.github.v3.diff" {
			w.Write([]byte("diff --git a/y b/y\n"))
			return
		}
		w.Write([]byte(`{"title":"Add widgets","body":"Adds more widgets.","diff_url":"ignored"}`))
	}))
	defer server.Close()

	client := NewClient(nil, nil)
	client.githubAPI = server.URL

	change, err := client.Fetch(context.Background(), "https://github.com/acme/widgets/pull/7")
	require.NoError(t, err)
	assert.Equal(t, "Add widgets\n\nAdds more widgets.", change.Message)
	assert.Equal(t, "diff --git a/y b/y\n", change.Diff)
}

func TestFetch_GitHubError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer server.Close()

	client := NewClient(nil, nil)
	client.githubAPI = server.URL

	_, err := client.Fetch(context.Background(), "https://github.com/acme/widgets/commit/nope")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "Not Found")
}

func TestFetch_Gerrit(t *testing.T) {
	patch := "diff --git a/main.c b/main.c\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer cfg-token", r.Header.Get("Authorization"))

		switch r.URL.EscapedPath() {
		case "/a/changes/group%2Fproject~123":
			w.Write([]byte(")]}'\n{\"subject\":\"Fix crash on start\"}"))
		case "/a/changes/group%2Fproject~123/revisions/current/patch":
			w.Write([]byte(base64.StdEncoding.EncodeToString([]byte(patch))))
		default:
			t.Errorf("unexpected path %s", r.URL.EscapedPath())
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(&types.GerritConfig{Token: "cfg-token", Username: "u", Password: "p"}, nil)

	change, err := client.Fetch(context.Background(), server.URL+"/c/group/project/+/123")
	require.NoError(t, err)
	assert.Equal(t, "Fix crash on start", change.Message)
	assert.Equal(t, patch, change.Diff)
}

func TestFetch_GerritBadPatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() == "/a/changes/p~1" {
			w.Write([]byte(")]}'\n{\"subject\":\"s\"}"))
			return
		}
		w.Write([]byte("!!not base64!!"))
	}))
	defer server.Close()

	_, err := NewClient(nil, nil).Fetch(context.Background(), server.URL+"/c/p/+/1")
	assert.ErrorContains(t, err, "decode")
}

func TestGerritAuth(t *testing.T) {
	newReq := func() *http.Request {
		req, _ := http.NewRequest(http.MethodGet, "http://gerrit/a/changes/x", nil)
		return req
	}

	t.Run("config basic", func(t *testing.T) {
		req := newReq()
		(&Client{gerrit: &types.GerritConfig{Username: "alice", Password: "pw"}}).gerritAuth(req)
		user, pass, ok := req.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "alice", user)
		assert.Equal(t, "pw", pass)
	})

	t.Run("env basic", func(t *testing.T) {
		t.Setenv("GERRIT_USERNAME", "bob")
		t.Setenv("GERRIT_PASSWORD", "secret")
		t.Setenv("GERRIT_TOKEN", "tok")
		req := newReq()
		(&Client{}).gerritAuth(req)
		user, _, ok := req.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "bob", user)
	})

	t.Run("env token", func(t *testing.T) {
		t.Setenv("GERRIT_USERNAME", "")
		t.Setenv("GERRIT_PASSWORD", "")
		t.Setenv("GERRIT_TOKEN", "tok")
		req := newReq()
		(&Client{}).gerritAuth(req)
		assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Setenv("GERRIT_USERNAME", "")
		t.Setenv("GERRIT_PASSWORD", "")
		t.Setenv("GERRIT_TOKEN", "")
		req := newReq()
		(&Client{}).gerritAuth(req)
		assert.Empty(t, req.Header.Get("Authorization"))
	})
}
