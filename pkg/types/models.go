// Package types defines shared types for git-commit-helper.
package types

import (
	"fmt"
	"strings"
)

// ServiceKind identifies one AI chat-completion backend.
type ServiceKind string

const (
	DeepSeek ServiceKind = "DeepSeek"
	OpenAI   ServiceKind = "OpenAI"
	Claude   ServiceKind = "Claude"
	Copilot  ServiceKind = "Copilot"
	Gemini   ServiceKind = "Gemini"
	Grok     ServiceKind = "Grok"
	Qwen     ServiceKind = "Qwen"
)

// AllServiceKinds returns the supported services in menu order.
func AllServiceKinds() []ServiceKind {
	return []ServiceKind{DeepSeek, OpenAI, Claude, Copilot, Gemini, Grok, Qwen}
}

// ParseServiceKind matches a service name case-insensitively.
func ParseServiceKind(name string) (ServiceKind, error) {
	for _, k := range AllServiceKinds() {
		if strings.EqualFold(string(k), strings.TrimSpace(name)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown service %q", name)
}

// Language selects the language layout of generated commit messages.
type Language string

const (
	LanguageChinese   Language = "zh"
	LanguageEnglish   Language = "en"
	LanguageBilingual Language = "bilingual"
)

// DefaultCommitTypes returns the conventional commit types offered to the model.
func DefaultCommitTypes() []string {
	return []string{"feat", "fix", "docs", "style", "refactor", "test", "chore"}
}

// ServiceConfig is one configured AI service.
type ServiceConfig struct {
	Service     ServiceKind `json:"service" yaml:"service" validate:"required,oneof=DeepSeek OpenAI Claude Copilot Gemini Grok Qwen"`
	APIKey      string      `json:"api_key" yaml:"api_key" validate:"required"`
	APIEndpoint string      `json:"api_endpoint,omitempty" yaml:"api_endpoint,omitempty" validate:"omitempty,url"`
	Model       string      `json:"model,omitempty" yaml:"model,omitempty"`
}

// GerritConfig holds credentials for Gerrit REST calls.
// Token wins over username/password when both are set.
type GerritConfig struct {
	Token    string `json:"token,omitempty" yaml:"token,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// Config is the persisted tool configuration (config.json).
type Config struct {
	DefaultService  ServiceKind     `json:"default_service" yaml:"default_service" validate:"required"`
	Services        []ServiceConfig `json:"services" yaml:"services" validate:"dive"`
	TimeoutSeconds  int             `json:"timeout_seconds" yaml:"timeout_seconds" validate:"gte=1,lte=600"`
	MaxTokens       int             `json:"max_tokens" yaml:"max_tokens" validate:"gte=1,lte=1000000"`
	AIReview        bool            `json:"ai_review" yaml:"ai_review"`
	Language        Language        `json:"language,omitempty" yaml:"language,omitempty" validate:"omitempty,oneof=zh en bilingual"`
	MaxAutoFallback int             `json:"max_auto_fallback,omitempty" yaml:"max_auto_fallback,omitempty" validate:"gte=0"`
	Gerrit          *GerritConfig   `json:"gerrit,omitempty" yaml:"gerrit,omitempty"`
}

const (
	// DefaultTimeoutSeconds is the per-request timeout when none is configured.
	DefaultTimeoutSeconds = 20
	// DefaultMaxTokens is the completion budget when none is configured.
	DefaultMaxTokens = 2048
)

// NewConfig returns a config with defaults and no services.
func NewConfig() *Config {
	return &Config{
		DefaultService: OpenAI,
		TimeoutSeconds: DefaultTimeoutSeconds,
		MaxTokens:      DefaultMaxTokens,
		AIReview:       true,
		Language:       LanguageBilingual,
	}
}

// Service returns the first configured service of the given kind.
func (c *Config) Service(kind ServiceKind) (*ServiceConfig, bool) {
	for i := range c.Services {
		if c.Services[i].Service == kind {
			return &c.Services[i], true
		}
	}
	return nil, false
}

// DefaultServiceConfig returns the configuration of the default service.
func (c *Config) DefaultServiceConfig() (*ServiceConfig, bool) {
	return c.Service(c.DefaultService)
}

// AddService appends a service. When exactly one service already exists
// the new one becomes the default; the very first service is default too.
func (c *Config) AddService(svc ServiceConfig) {
	if len(c.Services) <= 1 {
		c.DefaultService = svc.Service
	}
	c.Services = append(c.Services, svc)
}

// ReplaceService overwrites the service at index i.
func (c *Config) ReplaceService(i int, svc ServiceConfig) error {
	if i < 0 || i >= len(c.Services) {
		return fmt.Errorf("invalid service index %d", i+1)
	}
	wasDefault := c.Services[i].Service == c.DefaultService
	c.Services[i] = svc
	if wasDefault {
		c.DefaultService = svc.Service
	}
	return nil
}

// RemoveService deletes the service at index i. Removing the default
// service promotes the first remaining one.
func (c *Config) RemoveService(i int) (ServiceConfig, error) {
	if i < 0 || i >= len(c.Services) {
		return ServiceConfig{}, fmt.Errorf("invalid service index %d", i+1)
	}
	removed := c.Services[i]
	c.Services = append(c.Services[:i], c.Services[i+1:]...)

	if removed.Service == c.DefaultService && len(c.Services) > 0 {
		c.DefaultService = c.Services[0].Service
	}
	return removed, nil
}

// SetDefault makes the service at index i the default.
func (c *Config) SetDefault(i int) error {
	if i < 0 || i >= len(c.Services) {
		return fmt.Errorf("invalid service index %d", i+1)
	}
	c.DefaultService = c.Services[i].Service
	return nil
}

// EffectiveLanguage returns the configured language or bilingual.
func (c *Config) EffectiveLanguage() Language {
	if c.Language == "" {
		return LanguageBilingual
	}
	return c.Language
}

// RepoConfig is the optional per-repository override file
// (.git-commit-helper.json at the repository root).
type RepoConfig struct {
	CommitTypes []string `json:"commit_types,omitempty"`
	Language    Language `json:"language,omitempty"`
	AIReview    *bool    `json:"ai_review,omitempty"`
}
