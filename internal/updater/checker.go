// Package updater checks GitHub for newer releases.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dsswift/git-commit-helper/internal/config"
	"github.com/dsswift/git-commit-helper/internal/httpclient"
)

const (
	// GitHubReleasesURL is the API endpoint for checking releases.
	GitHubReleasesURL = "https://api.github.com/repos/dsswift/git-commit-helper/releases/latest"

	// CacheFileName is the name of the version check cache file.
	CacheFileName = ".version-check"

	// CacheDuration is how long to cache version check results.
	CacheDuration = 24 * time.Hour

	// CheckTimeout is the timeout for the version check HTTP request.
	CheckTimeout = 5 * time.Second
)

// VersionInfo contains information about available versions.
type VersionInfo struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
	ReleaseURL      string
}

// VersionCache stores the cached version check result.
type VersionCache struct {
	CheckedAt     time.Time `json:"checked_at"`
	LatestVersion string    `json:"latest_version"`
	ReleaseURL    string    `json:"release_url"`
}

// GitHubRelease represents a GitHub release API response.
type GitHubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker looks up the latest release.
type Checker struct {
	url  string
	http *http.Client
}

// NewChecker creates a checker against the GitHub releases API.
func NewChecker() *Checker {
	return &Checker{url: GitHubReleasesURL, http: httpclient.NewClient(CheckTimeout)}
}

// WithURL points the checker at another releases endpoint.
func (c *Checker) WithURL(url string) *Checker {
	c.url = url
	return c
}

// Check reports whether a newer version is available, using the cached
// answer when it is younger than CacheDuration. Lookup failures are silent.
func (c *Checker) Check(ctx context.Context, currentVersion string) *VersionInfo {
	return c.check(ctx, currentVersion, true)
}

// CheckFresh is Check without the cache.
func (c *Checker) CheckFresh(ctx context.Context, currentVersion string) *VersionInfo {
	return c.check(ctx, currentVersion, false)
}

func (c *Checker) check(ctx context.Context, currentVersion string, useCache bool) *VersionInfo {
	info := &VersionInfo{CurrentVersion: currentVersion}

	// Don't check for dev builds
	if isDevBuild(currentVersion) {
		return info
	}

	if useCache {
		cached, err := loadCache()
		if err == nil && time.Since(cached.CheckedAt) < CacheDuration {
			info.LatestVersion = cached.LatestVersion
			info.ReleaseURL = cached.ReleaseURL
			info.UpdateAvailable = isNewerVersion(cached.LatestVersion, currentVersion)
			return info
		}
	}

	release, err := c.fetchLatestRelease(ctx)
	if err != nil {
		return info
	}

	_ = saveCache(&VersionCache{
		CheckedAt:     time.Now(),
		LatestVersion: release.TagName,
		ReleaseURL:    release.HTMLURL,
	})

	info.LatestVersion = release.TagName
	info.ReleaseURL = release.HTMLURL
	info.UpdateAvailable = isNewerVersion(release.TagName, currentVersion)
	return info
}

func isDevBuild(version string) bool {
	return version == "" || version == "dev" || strings.Contains(version, "-dirty")
}

func (c *Checker) fetchLatestRelease(ctx context.Context) (*GitHubRelease, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	if release.TagName == "" {
		return nil, fmt.Errorf("release has no tag")
	}
	return &release, nil
}

func loadCache() (*VersionCache, error) {
	cachePath, err := cachePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, err
	}

	var cache VersionCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, err
	}
	return &cache, nil
}

func saveCache(cache *VersionCache) error {
	cachePath, err := cachePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cachePath), 0700); err != nil {
		return err
	}

	data, err := json.Marshal(cache)
	if err != nil {
		return err
	}
	return os.WriteFile(cachePath, data, 0600)
}

func cachePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, CacheFileName), nil
}

// isNewerVersion reports whether latest is newer than current.
// A leading "v" is ignored and missing parts count as zero.
func isNewerVersion(latest, current string) bool {
	latestParts := strings.Split(strings.TrimPrefix(latest, "v"), ".")
	currentParts := strings.Split(strings.TrimPrefix(current, "v"), ".")

	maxLen := max(len(latestParts), len(currentParts))
	for i := 0; i < maxLen; i++ {
		var latestNum, currentNum int
		if i < len(latestParts) {
			fmt.Sscanf(latestParts[i], "%d", &latestNum)
		}
		if i < len(currentParts) {
			fmt.Sscanf(currentParts[i], "%d", &currentNum)
		}

		if latestNum != currentNum {
			return latestNum > currentNum
		}
	}
	return false
}

// FormatUpdateNotice returns the notice printed by the version command.
func FormatUpdateNotice(info *VersionInfo) string {
	if info == nil || !info.UpdateAvailable {
		return ""
	}
	return fmt.Sprintf("发现新版本: %s → %s\n下载地址: %s",
		info.CurrentVersion, info.LatestVersion, info.ReleaseURL)
}
