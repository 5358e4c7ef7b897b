package llm

import "log/slog"

// processTextResponse validates an LLM text response. An empty reply is an
// error; a reply cut off at the token limit is kept and logged.
func processTextResponse(provider, content string, truncated bool) (string, error) {
	if content == "" {
		return "", &ProviderError{Provider: provider, Message: "empty response from API"}
	}

	if truncated {
		slog.Warn("AI reply truncated at the max tokens limit", "provider", provider, "chars", len(content))
	}

	return content, nil
}
