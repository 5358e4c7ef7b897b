package llm

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dsswift/git-commit-helper/internal/assert"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

const anthropicAPIVersion = "2023-06-01"

// AnthropicProvider implements the Provider interface for Anthropic's Claude.
type AnthropicProvider struct {
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
	baseURL   string
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(apiKey, endpoint, model string, opts Options) *AnthropicProvider {
	assert.NotEmptyString(apiKey, "Claude API key is required")

	return &AnthropicProvider{
		apiKey:    apiKey,
		model:     orDefault(model, DefaultClaudeModel),
		maxTokens: opts.MaxTokens,
		baseURL:   orDefault(endpoint, DefaultClaudeEndpoint),
		client:    newHTTPClient(opts.Timeout),
	}
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return string(types.Claude)
}

// Model returns the model being used.
func (p *AnthropicProvider) Model() string {
	return p.model
}

// Endpoint returns the API base URL.
func (p *AnthropicProvider) Endpoint() string {
	return p.baseURL
}

// Chat sends a messages request to Anthropic and returns the first text block.
func (p *AnthropicProvider) Chat(ctx context.Context, system, user string) (string, error) {
	requestBody := anthropicRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		System:    system,
		Messages: []anthropicMessage{
			{Role: "user", Content: user},
		},
	}

	resp, err := doRequest(&llmRequest{
		ctx:      ctx,
		client:   p.client,
		method:   http.MethodPost,
		url:      p.baseURL + "/messages",
		headers:  p.headers(),
		body:     requestBody,
		provider: p.Name(),
	})
	if err != nil {
		return "", err
	}

	var anthropicResp anthropicResponse
	if err := json.Unmarshal(resp.Body, &anthropicResp); err != nil {
		return "", &ProviderError{Provider: p.Name(), Message: "failed to parse response", Err: err}
	}

	if len(anthropicResp.Content) == 0 {
		return "", &ProviderError{Provider: p.Name(), Message: "empty response from API"}
	}

	return processTextResponse(p.Name(), anthropicResp.Content[0].Text, anthropicResp.StopReason == "max_tokens")
}

func (p *AnthropicProvider) headers() map[string]string {
	return map[string]string{
		"Content-Type":      "application/json",
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicAPIVersion,
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content    []anthropicContent `json:"content"`
	Usage      anthropicUsage     `json:"usage"`
	StopReason string             `json:"stop_reason"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
