package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dsswift/git-commit-helper/internal/assert"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

// GeminiProvider implements the Provider interface for Google's Gemini.
type GeminiProvider struct {
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
	baseURL   string
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(apiKey, endpoint, model string, opts Options) *GeminiProvider {
	assert.NotEmptyString(apiKey, "Gemini API key is required")

	return &GeminiProvider{
		apiKey:    apiKey,
		model:     orDefault(model, DefaultGeminiModel),
		maxTokens: opts.MaxTokens,
		baseURL:   orDefault(endpoint, DefaultGeminiEndpoint),
		client:    newHTTPClient(opts.Timeout),
	}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return string(types.Gemini)
}

// Model returns the model being used.
func (p *GeminiProvider) Model() string {
	return p.model
}

// Endpoint returns the API base URL.
func (p *GeminiProvider) Endpoint() string {
	return p.baseURL
}

// Chat sends a generateContent request and returns the first candidate's text.
// Gemini has no system role here; both prompts go into one user part.
// The key travels in a header so transport errors never print it.
func (p *GeminiProvider) Chat(ctx context.Context, system, user string) (string, error) {
	prompt := user
	if system != "" {
		prompt = system + "\n\n" + user
	}

	requestBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: p.maxTokens,
		},
	}

	resp, err := doRequest(&llmRequest{
		ctx:      ctx,
		client:   p.client,
		method:   http.MethodPost,
		url:      p.requestURL(),
		headers:  map[string]string{"Content-Type": "application/json", "x-goog-api-key": p.apiKey},
		body:     requestBody,
		provider: p.Name(),
	})
	if err != nil {
		return "", err
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(resp.Body, &geminiResp); err != nil {
		return "", &ProviderError{Provider: p.Name(), Message: "failed to parse response", Err: err}
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{Provider: p.Name(), Message: "empty response from API"}
	}

	candidate := geminiResp.Candidates[0]
	return processTextResponse(p.Name(), candidate.Content.Parts[0].Text, candidate.FinishReason == "MAX_TOKENS")
}

func (p *GeminiProvider) requestURL() string {
	return fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, url.PathEscape(p.model))
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}
