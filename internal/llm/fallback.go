package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dsswift/git-commit-helper/internal/assert"
	"github.com/dsswift/git-commit-helper/internal/config"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

// EnvNoTranslate disables translation; Translate returns its input.
const EnvNoTranslate = "GIT_COMMIT_HELPER_NO_TRANSLATE"

const (
	fallbackPrompt = "之前的尝试都失败了，是否要使用其他服务重试？"
	selectPrompt   = "请选择要使用的服务"
)

// Recorder receives AI call events for the execution log.
type Recorder interface {
	LogAIRequest(service, model, operation string)
	LogAIResponse(service string, duration time.Duration, chars int)
	LogAIFallback(from, to, reason string)
}

// TranslatorFactory builds a translator for a configured service.
type TranslatorFactory func(svc *types.ServiceConfig, opts Options) (Translator, error)

// Orchestrator sends requests to the default service and falls back to the
// other configured services when it fails.
type Orchestrator struct {
	cfg      *types.Config
	opts     Options
	asker    Asker
	retrier  *Retrier
	logger   *slog.Logger
	recorder Recorder
	factory  TranslatorFactory
	cache    map[types.ServiceKind]Translator
}

// NewOrchestrator creates an orchestrator over the services in cfg.
func NewOrchestrator(cfg *types.Config, asker Asker, progress Progress, logger *slog.Logger) *Orchestrator {
	assert.NotNil(cfg, "config cannot be nil")
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cfg:     cfg,
		opts:    OptionsFromConfig(cfg),
		asker:   asker,
		retrier: NewRetrier(asker, progress, logger),
		logger:  logger,
		factory: NewTranslatorForService,
		cache:   make(map[types.ServiceKind]Translator),
	}
}

// WithRecorder sets the execution log recorder.
func (o *Orchestrator) WithRecorder(r Recorder) *Orchestrator {
	o.recorder = r
	return o
}

// WithFactory replaces the translator factory.
func (o *Orchestrator) WithFactory(f TranslatorFactory) *Orchestrator {
	o.factory = f
	o.cache = make(map[types.ServiceKind]Translator)
	return o
}

// Translate translates text to English using the first service that succeeds.
func (o *Orchestrator) Translate(ctx context.Context, text string) (string, error) {
	if _, ok := os.LookupEnv(EnvNoTranslate); ok {
		return strings.TrimSpace(text), nil
	}
	return o.run(ctx, "translate", func(ctx context.Context, t Translator) (string, error) {
		return t.Translate(ctx, text)
	})
}

// Chat sends the prompts to the first service that succeeds.
func (o *Orchestrator) Chat(ctx context.Context, system, user string) (string, error) {
	return o.run(ctx, "chat", func(ctx context.Context, t Translator) (string, error) {
		return t.Chat(ctx, system, user)
	})
}

func (o *Orchestrator) run(ctx context.Context, op string, call func(context.Context, Translator) (string, error)) (string, error) {
	tried := make(map[types.ServiceKind]bool)
	var errs []error
	last := o.cfg.DefaultService

	attempt := func(kind types.ServiceKind) (string, bool) {
		tried[kind] = true
		out, err := o.attempt(ctx, kind, op, call)
		if err != nil {
			o.logger.Warn("AI service failed", "service", kind, "error", err)
			errs = append(errs, serviceError(kind, err))
			last = kind
			return "", false
		}
		return out, true
	}

	if out, ok := attempt(o.cfg.DefaultService); ok {
		return out, nil
	}

	auto := 0
	for _, svc := range o.cfg.Services {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if tried[svc.Service] {
			continue
		}
		if o.cfg.MaxAutoFallback > 0 && auto >= o.cfg.MaxAutoFallback {
			break
		}
		auto++
		o.recordFallback(last, svc.Service, errs)
		if out, ok := attempt(svc.Service); ok {
			return out, nil
		}
	}

	for o.asker != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		untried := o.untried(tried)
		if len(untried) == 0 {
			break
		}

		retry, err := o.asker.Confirm(fallbackPrompt, true)
		if err != nil {
			return "", err
		}
		if !retry {
			break
		}

		names := make([]string, len(untried))
		for i, k := range untried {
			names[i] = string(k)
		}
		idx, err := o.asker.Select(selectPrompt, names)
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(untried) {
			return "", fmt.Errorf("invalid service selection %d", idx)
		}

		o.recordFallback(last, untried[idx], errs)
		if out, ok := attempt(untried[idx]); ok {
			return out, nil
		}
	}

	return "", errors.Join(append([]error{ErrAllProvidersFailed}, errs...)...)
}

// attempt runs call against one service inside the retry loop.
func (o *Orchestrator) attempt(ctx context.Context, kind types.ServiceKind, op string, call func(context.Context, Translator) (string, error)) (string, error) {
	t, err := o.translator(kind)
	if err != nil {
		return "", err
	}

	o.logger.Debug("sending AI request", "service", kind, "model", t.Model(), "operation", op)
	if o.recorder != nil {
		o.recorder.LogAIRequest(string(kind), t.Model(), op)
	}

	start := time.Now()
	out, err := o.retrier.Do(ctx, t, func(ctx context.Context) (string, error) {
		return call(ctx, t)
	})
	if err != nil {
		return "", err
	}

	if o.recorder != nil {
		o.recorder.LogAIResponse(string(kind), time.Since(start), len(out))
	}
	return out, nil
}

func (o *Orchestrator) translator(kind types.ServiceKind) (Translator, error) {
	if t, ok := o.cache[kind]; ok {
		return t, nil
	}
	svc, ok := o.cfg.Service(kind)
	if !ok {
		return nil, &config.ServiceNotFoundError{Service: kind}
	}
	t, err := o.factory(svc, o.opts)
	if err != nil {
		return nil, err
	}
	o.cache[kind] = t
	return t, nil
}

// serviceError names the service in err unless the provider already did.
func serviceError(kind types.ServiceKind, err error) error {
	if strings.HasPrefix(err.Error(), string(kind)+":") {
		return err
	}
	return fmt.Errorf("%s: %w", kind, err)
}

// untried returns configured service kinds not yet attempted, in config order.
func (o *Orchestrator) untried(tried map[types.ServiceKind]bool) []types.ServiceKind {
	var out []types.ServiceKind
	seen := make(map[types.ServiceKind]bool)
	for _, svc := range o.cfg.Services {
		if tried[svc.Service] || seen[svc.Service] {
			continue
		}
		seen[svc.Service] = true
		out = append(out, svc.Service)
	}
	return out
}

func (o *Orchestrator) recordFallback(from, to types.ServiceKind, errs []error) {
	reason := ""
	if len(errs) > 0 {
		reason = errs[len(errs)-1].Error()
	}
	o.logger.Info("falling back to another AI service", "from", from, "to", to)
	if o.recorder != nil {
		o.recorder.LogAIFallback(string(from), string(to), reason)
	}
}
