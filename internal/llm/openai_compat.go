package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dsswift/git-commit-helper/internal/assert"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

// OpenAICompatProvider talks to any service exposing the OpenAI chat
// completions API: DeepSeek, OpenAI, Grok and Qwen.
type OpenAICompatProvider struct {
	kind        types.ServiceKind
	model       string
	baseURL     string
	maxTokens   int
	temperature float32
	client      *openai.Client
}

// NewOpenAICompatProvider creates a provider for an OpenAI-compatible service.
func NewOpenAICompatProvider(kind types.ServiceKind, apiKey, endpoint, model string, opts Options) *OpenAICompatProvider {
	assert.NotEmptyString(apiKey, "%s API key is required", kind)

	p := &OpenAICompatProvider{
		kind:      kind,
		model:     orDefault(model, DefaultModel(kind)),
		baseURL:   orDefault(endpoint, DefaultEndpoint(kind)),
		maxTokens: opts.MaxTokens,
	}
	if kind == types.Qwen {
		p.temperature = 0.1
	}
	p.client = newOpenAIClient(apiKey, p.baseURL, newHTTPClient(opts.Timeout))
	return p
}

func newOpenAIClient(apiKey, baseURL string, httpClient *http.Client) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = httpClient
	return openai.NewClientWithConfig(cfg)
}

// Name returns the provider name.
func (p *OpenAICompatProvider) Name() string {
	return string(p.kind)
}

// Model returns the model being used.
func (p *OpenAICompatProvider) Model() string {
	return p.model
}

// Endpoint returns the API base URL.
func (p *OpenAICompatProvider) Endpoint() string {
	return p.baseURL
}

// Chat sends a chat completion request and returns the first choice.
func (p *OpenAICompatProvider) Chat(ctx context.Context, system, user string) (string, error) {
	return chatCompletion(ctx, p.client, p.Name(), openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    chatMessages(system, user),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	})
}

func chatMessages(system, user string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	return append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: user})
}

// chatCompletion runs one request through go-openai and maps its errors
// to ProviderError.
func chatCompletion(ctx context.Context, client *openai.Client, provider string, req openai.ChatCompletionRequest) (string, error) {
	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &ProviderError{
				Provider: provider,
				Message:  fmt.Sprintf("API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message),
				Err:      err,
			}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", &ProviderError{
				Provider: provider,
				Message:  fmt.Sprintf("API error (status %d)", reqErr.HTTPStatusCode),
				Err:      err,
			}
		}
		return "", &ProviderError{Provider: provider, Message: "request failed", Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: provider, Message: "empty response from API"}
	}

	choice := resp.Choices[0]
	return processTextResponse(provider, choice.Message.Content, choice.FinishReason == openai.FinishReasonLength)
}
