package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// Asker asks the user yes/no and pick-one questions.
type Asker interface {
	// Confirm asks a yes/no question; def is the answer used without a terminal.
	Confirm(title string, def bool) (bool, error)

	// Select returns the index of the chosen option.
	Select(title string, options []string) (int, error)

	// Interactive reports whether a user can answer.
	Interactive() bool
}

// Progress shows activity while a request is in flight.
type Progress interface {
	// Start shows label and returns a function that stops the indicator.
	Start(label string) (stop func())
}

// NoProgress is a Progress that shows nothing.
type NoProgress struct{}

// Start implements Progress.
func (NoProgress) Start(string) func() { return func() {} }

const retryPrompt = "请求超时，是否重试？"

// Retrier runs provider calls, asking whether to retry after a timeout.
type Retrier struct {
	asker    Asker
	progress Progress
	logger   *slog.Logger
}

// NewRetrier creates a Retrier. A nil progress shows nothing.
func NewRetrier(asker Asker, progress Progress, logger *slog.Logger) *Retrier {
	if progress == nil {
		progress = NoProgress{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrier{asker: asker, progress: progress, logger: logger}
}

// ProgressLabel is the label shown while waiting for a provider.
func ProgressLabel(p Provider) string {
	return fmt.Sprintf("正在请求 %s 进行AI对话", hostOf(p.Endpoint()))
}

// Do calls fn until it succeeds, fails with a non-timeout error, or the
// user declines to retry. Without a terminal a timeout is retried once.
func (r *Retrier) Do(ctx context.Context, p Provider, fn func(context.Context) (string, error)) (string, error) {
	unattended := 0
	for attempt := 1; ; attempt++ {
		stop := r.progress.Start(ProgressLabel(p))
		out, err := fn(ctx)
		stop()

		if err == nil {
			return out, nil
		}
		if !IsTimeout(err) || ctx.Err() != nil {
			return "", err
		}

		r.logger.Warn("request timed out", "service", p.Name(), "attempt", attempt)

		if r.asker == nil {
			return "", &TimeoutError{Provider: p.Name(), Err: err}
		}
		if !r.asker.Interactive() {
			unattended++
			if unattended > 1 {
				return "", &TimeoutError{Provider: p.Name(), Err: err}
			}
		}

		retry, askErr := r.asker.Confirm(retryPrompt, true)
		if askErr != nil {
			return "", askErr
		}
		if !retry {
			return "", &TimeoutError{Provider: p.Name(), Err: err}
		}
	}
}
