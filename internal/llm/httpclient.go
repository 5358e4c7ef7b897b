package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dsswift/git-commit-helper/internal/httpclient"
)

// newHTTPClient creates an HTTP client using the shared transport.
func newHTTPClient(timeout time.Duration) *http.Client {
	return httpclient.NewClient(timeout)
}

// llmRequest describes an HTTP request to an LLM provider.
type llmRequest struct {
	ctx      context.Context
	client   *http.Client
	method   string
	url      string
	headers  map[string]string
	body     any
	provider string
}

// llmResponse contains the raw HTTP response from an LLM provider.
type llmResponse struct {
	StatusCode int
	Body       []byte
}

// doRequest marshals body, sends the HTTP request, reads the response, and checks status.
// A nil body sends no payload.
func doRequest(req *llmRequest) (*llmResponse, error) {
	var reader io.Reader
	if req.body != nil {
		bodyBytes, err := json.Marshal(req.body)
		if err != nil {
			return nil, &ProviderError{Provider: req.provider, Message: "failed to marshal request", Err: err}
		}
		reader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(req.ctx, req.method, req.url, reader)
	if err != nil {
		return nil, &ProviderError{Provider: req.provider, Message: "failed to create request", Err: err}
	}

	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := req.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: req.provider, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: req.provider, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{
			Provider: req.provider,
			Message:  fmt.Sprintf("API error (status %d): %s", resp.StatusCode, apiErrorMessage(respBody)),
		}
	}

	return &llmResponse{
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}, nil
}

// apiErrorMessage extracts error.message from a vendor error body,
// falling back to the raw body.
func apiErrorMessage(body []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return strings.TrimSpace(string(body))
}

// cleanContent strips markdown code fences from LLM response text.
func cleanContent(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		// Drop the opening fence together with its language tag.
		if i := strings.IndexByte(content, '\n'); i >= 0 {
			content = content[i+1:]
		} else {
			content = strings.TrimPrefix(content, "```")
		}
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	content = strings.TrimSpace(content)
	return content
}
