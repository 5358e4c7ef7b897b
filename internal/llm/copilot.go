package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dsswift/git-commit-helper/internal/assert"
	"github.com/dsswift/git-commit-helper/internal/httpclient"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

const (
	copilotTokenURL      = "https://api.github.com/copilot_internal/v2/token"
	copilotEditorVersion = "git-commit-helper/1.0.0"
	copilotIntegrationID = "vscode-chat"
)

// CopilotProvider implements the Provider interface for GitHub Copilot chat.
// The configured key is a GitHub token that is exchanged for a short-lived
// Copilot token before chatting.
type CopilotProvider struct {
	githubToken string
	model       string
	maxTokens   int
	baseURL     string
	tokenURL    string
	timeout     time.Duration
	client      *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewCopilotProvider creates a new Copilot provider.
func NewCopilotProvider(githubToken, endpoint, model string, opts Options) *CopilotProvider {
	assert.NotEmptyString(githubToken, "Copilot GitHub token is required")

	return &CopilotProvider{
		githubToken: githubToken,
		model:       orDefault(model, DefaultCopilotModel),
		maxTokens:   opts.MaxTokens,
		baseURL:     orDefault(endpoint, DefaultCopilotEndpoint),
		tokenURL:    copilotTokenURL,
		timeout:     opts.Timeout,
		client:      newHTTPClient(opts.Timeout),
	}
}

// Name returns the provider name.
func (p *CopilotProvider) Name() string {
	return string(types.Copilot)
}

// Model returns the model being used.
func (p *CopilotProvider) Model() string {
	return p.model
}

// Endpoint returns the chat API base URL.
func (p *CopilotProvider) Endpoint() string {
	return p.baseURL
}

// Chat exchanges the GitHub token if needed and sends a chat completion.
func (p *CopilotProvider) Chat(ctx context.Context, system, user string) (string, error) {
	token, err := p.copilotToken(ctx)
	if err != nil {
		return "", err
	}

	httpClient := httpclient.NewClientWithHeaders(p.timeout, map[string]string{
		"Editor-Version":         copilotEditorVersion,
		"Copilot-Integration-Id": copilotIntegrationID,
	})
	client := newOpenAIClient(token, p.baseURL, httpClient)

	return chatCompletion(ctx, client, p.Name(), openai.ChatCompletionRequest{
		Model:     p.model,
		Messages:  chatMessages(system, user),
		MaxTokens: p.maxTokens,
	})
}

// copilotToken returns a cached Copilot token or fetches a new one.
func (p *CopilotProvider) copilotToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Add(time.Minute).Before(p.expiresAt) {
		return p.token, nil
	}

	resp, err := doRequest(&llmRequest{
		ctx:    ctx,
		client: p.client,
		method: http.MethodGet,
		url:    p.tokenURL,
		headers: map[string]string{
			"Authorization":  "token " + p.githubToken,
			"Accept":         "application/json",
			"Editor-Version": copilotEditorVersion,
		},
		provider: p.Name(),
	})
	if err != nil {
		return "", err
	}

	var tokenResp copilotTokenResponse
	if err := json.Unmarshal(resp.Body, &tokenResp); err != nil {
		return "", &ProviderError{Provider: p.Name(), Message: "failed to parse token response", Err: err}
	}
	if tokenResp.Token == "" {
		return "", &ProviderError{Provider: p.Name(), Message: "token exchange returned no token"}
	}

	p.token = tokenResp.Token
	p.expiresAt = time.Unix(tokenResp.ExpiresAt, 0)
	return p.token, nil
}

type copilotTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}
