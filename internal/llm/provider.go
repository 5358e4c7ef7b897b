// Package llm provides the AI chat backends, the translation facade, and
// the retry and fallback logic that sits in front of them.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/dsswift/git-commit-helper/pkg/types"
)

// Provider is the interface for AI chat backends.
type Provider interface {
	// Chat sends a system and a user prompt and returns the reply text.
	Chat(ctx context.Context, system, user string) (string, error)

	// Name returns the provider name.
	Name() string

	// Model returns the model being used.
	Model() string

	// Endpoint returns the base URL requests are sent to.
	Endpoint() string
}

// Options are the request settings shared by every provider.
type Options struct {
	Timeout   time.Duration
	MaxTokens int
}

// DefaultOptions returns options matching the config defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:   types.DefaultTimeoutSeconds * time.Second,
		MaxTokens: types.DefaultMaxTokens,
	}
}

// OptionsFromConfig derives request options from the user config.
func OptionsFromConfig(cfg *types.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	if cfg.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.MaxTokens > 0 {
		opts.MaxTokens = cfg.MaxTokens
	}
	return opts
}

// Default endpoints and models per service.
const (
	DefaultDeepSeekEndpoint = "https://api.deepseek.com/v1"
	DefaultOpenAIEndpoint   = "https://api.openai.com/v1"
	DefaultClaudeEndpoint   = "https://api.anthropic.com/v1"
	DefaultGeminiEndpoint   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGrokEndpoint     = "https://api.x.ai/v1"
	DefaultQwenEndpoint     = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	DefaultCopilotEndpoint  = "https://api.githubcopilot.com"

	DefaultDeepSeekModel = "deepseek-chat"
	DefaultOpenAIModel   = "gpt-3.5-turbo"
	DefaultClaudeModel   = "claude-3-sonnet-20240229"
	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultGrokModel     = "grok-3-latest"
	DefaultQwenModel     = "qwen-plus"
	DefaultCopilotModel  = "copilot-chat"
)

// DefaultEndpoint returns the API base URL used when none is configured.
func DefaultEndpoint(kind types.ServiceKind) string {
	switch kind {
	case types.DeepSeek:
		return DefaultDeepSeekEndpoint
	case types.OpenAI:
		return DefaultOpenAIEndpoint
	case types.Claude:
		return DefaultClaudeEndpoint
	case types.Gemini:
		return DefaultGeminiEndpoint
	case types.Grok:
		return DefaultGrokEndpoint
	case types.Qwen:
		return DefaultQwenEndpoint
	case types.Copilot:
		return DefaultCopilotEndpoint
	}
	return ""
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(kind types.ServiceKind) string {
	switch kind {
	case types.DeepSeek:
		return DefaultDeepSeekModel
	case types.OpenAI:
		return DefaultOpenAIModel
	case types.Claude:
		return DefaultClaudeModel
	case types.Gemini:
		return DefaultGeminiModel
	case types.Grok:
		return DefaultGrokModel
	case types.Qwen:
		return DefaultQwenModel
	case types.Copilot:
		return DefaultCopilotModel
	}
	return ""
}

// NewProvider creates a provider for one configured service.
func NewProvider(svc *types.ServiceConfig, opts Options) (Provider, error) {
	if svc == nil {
		return nil, errors.New("service config is nil")
	}
	if strings.TrimSpace(svc.APIKey) == "" {
		return nil, &ProviderError{Provider: string(svc.Service), Message: "API key is not configured"}
	}
	defaults := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaults.MaxTokens
	}

	switch svc.Service {
	case types.DeepSeek, types.OpenAI, types.Grok, types.Qwen:
		return NewOpenAICompatProvider(svc.Service, svc.APIKey, svc.APIEndpoint, svc.Model, opts), nil
	case types.Claude:
		return NewAnthropicProvider(svc.APIKey, svc.APIEndpoint, svc.Model, opts), nil
	case types.Gemini:
		return NewGeminiProvider(svc.APIKey, svc.APIEndpoint, svc.Model, opts), nil
	case types.Copilot:
		return NewCopilotProvider(svc.APIKey, svc.APIEndpoint, svc.Model, opts), nil
	default:
		return nil, fmt.Errorf("unsupported service: %s", svc.Service)
	}
}

// hostOf returns the host part of an endpoint, or the endpoint itself.
func hostOf(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

// orDefault returns value, or def when value is blank.
func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimRight(strings.TrimSpace(value), "/")
}

// ProviderError wraps errors from LLM providers.
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when a request timed out and the user chose not to retry.
type TimeoutError struct {
	Provider string
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: request timed out", e.Provider)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// ErrAllProvidersFailed is returned when no configured service produced a result.
var ErrAllProvidersFailed = errors.New("all AI services failed")

// IsTimeout reports whether err was caused by a request timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
