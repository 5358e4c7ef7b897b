package llm

import (
	"context"
	"strings"

	"github.com/dsswift/git-commit-helper/internal/prompt"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

// Translator is a Provider that can also translate Chinese text to English.
type Translator interface {
	Provider

	// Translate returns the English translation of text.
	Translate(ctx context.Context, text string) (string, error)
}

// translator adds the translation prompt on top of a provider's Chat.
type translator struct {
	Provider
}

// NewTranslator wraps a provider with the default Translate implementation.
func NewTranslator(p Provider) Translator {
	if t, ok := p.(Translator); ok {
		return t
	}
	return &translator{Provider: p}
}

// NewTranslatorForService builds the translator for one configured service.
func NewTranslatorForService(svc *types.ServiceConfig, opts Options) (Translator, error) {
	p, err := NewProvider(svc, opts)
	if err != nil {
		return nil, err
	}
	return NewTranslator(p), nil
}

func (t *translator) Translate(ctx context.Context, text string) (string, error) {
	out, err := t.Chat(ctx, prompt.Translation(text), text)
	if err != nil {
		return "", err
	}
	return CleanReply(out), nil
}

// replyMarkers are prefixes some models put before plain text answers.
var replyMarkers = []string{"[NO_TRANSLATE]", "、、、plaintext", "plaintext"}

// CleanReply strips code fences and marker prefixes from a model reply.
func CleanReply(text string) string {
	text = cleanContent(text)
	for _, m := range replyMarkers {
		text = strings.TrimSpace(strings.TrimPrefix(text, m))
	}
	return text
}
