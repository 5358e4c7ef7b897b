package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// xssiPrefix guards every Gerrit JSON response.
const xssiPrefix = ")]}'"

type changeInfo struct {
	Subject string `json:"subject"`
}

func (t *Target) changePath() string {
	return fmt.Sprintf("%s/a/changes/%s~%s", t.BaseURL, strings.ReplaceAll(t.Project, "/", "%2F"), t.ChangeID)
}

func (c *Client) gerritInfo(ctx context.Context, t *Target) (string, error) {
	body, err := c.get(ctx, t.changePath(), map[string]string{
		"Accept": "application/json",
	}, c.gerritAuth)
	if err != nil {
		return "", err
	}

	body = bytes.TrimPrefix(bytes.TrimSpace(body), []byte(xssiPrefix))
	var info changeInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("failed to parse Gerrit change: %w", err)
	}
	return strings.TrimSpace(info.Subject), nil
}

func (c *Client) gerritPatch(ctx context.Context, t *Target) (string, error) {
	body, err := c.get(ctx, t.changePath()+"/revisions/current/patch", map[string]string{
		"Accept": "text/plain",
	}, c.gerritAuth)
	if err != nil {
		return "", err
	}

	encoded := strings.TrimSpace(string(body))
	if encoded == "" {
		return "", nil
	}
	patch, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode Gerrit patch: %w", err)
	}
	return string(patch), nil
}

// gerritAuth applies credentials from the config, then from the environment.
func (c *Client) gerritAuth(req *http.Request) {
	if g := c.gerrit; g != nil {
		if g.Token != "" {
			req.Header.Set("Authorization", "Bearer "+g.Token)
			return
		}
		if g.Username != "" && g.Password != "" {
			req.SetBasicAuth(g.Username, g.Password)
			return
		}
	}

	user, pass := os.Getenv("GERRIT_USERNAME"), os.Getenv("GERRIT_PASSWORD")
	if user != "" && pass != "" {
		req.SetBasicAuth(user, pass)
		return
	}
	if token := os.Getenv("GERRIT_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
