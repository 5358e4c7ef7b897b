package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsswift/git-commit-helper/internal/assert"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

const (
	// RepoConfigFile is the name of the optional repo-level override file.
	RepoConfigFile = ".git-commit-helper.json"
)

// LoadRepoConfig loads the repository overrides if the file exists.
// Returns an empty config (not an error) if the file doesn't exist - it's optional.
func LoadRepoConfig(gitRoot string) (*types.RepoConfig, error) {
	assert.NotEmptyString(gitRoot, "git root path cannot be empty")

	configPath := filepath.Join(gitRoot, RepoConfigFile)

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return &types.RepoConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read repo config: %w", err)
	}

	var repo types.RepoConfig
	if err := json.Unmarshal(data, &repo); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	if err := normalizeTypes(&repo); err != nil {
		return nil, err
	}

	switch repo.Language {
	case "", types.LanguageChinese, types.LanguageEnglish, types.LanguageBilingual:
	default:
		return nil, fmt.Errorf("invalid language %q in %s", repo.Language, RepoConfigFile)
	}

	return &repo, nil
}

// normalizeTypes lower-cases commit types and rejects duplicates.
func normalizeTypes(repo *types.RepoConfig) error {
	seen := make(map[string]bool)
	for i, t := range repo.CommitTypes {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			return fmt.Errorf("empty commit type in %s", RepoConfigFile)
		}
		if seen[t] {
			return fmt.Errorf("duplicate commit type: %s", t)
		}
		seen[t] = true
		repo.CommitTypes[i] = t
	}
	return nil
}

// ApplyRepoConfig layers repository overrides over the user config.
// The returned config is a copy; cfg is not modified.
func ApplyRepoConfig(cfg *types.Config, repo *types.RepoConfig) *types.Config {
	out := *cfg
	if repo == nil {
		return &out
	}
	if repo.Language != "" {
		out.Language = repo.Language
	}
	if repo.AIReview != nil {
		out.AIReview = *repo.AIReview
	}
	return &out
}
