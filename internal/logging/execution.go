// Package logging provides diagnostic logging and the per-run JSONL audit trail.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dsswift/git-commit-helper/internal/config"
)

// ExecutionLogger logs events for a single execution.
// A nil *ExecutionLogger is valid and drops every event.
type ExecutionLogger struct {
	mu          sync.Mutex
	executionID string
	file        *os.File
	startTime   time.Time
}

// LogEvent represents a single event in the execution log.
type LogEvent struct {
	Timestamp   time.Time `json:"ts"`
	Event       string    `json:"event"`
	ExecutionID string    `json:"execution_id,omitempty"`
	Data        any       `json:"data,omitempty"`
}

// ExecutionsDir returns the directory holding per-run logs.
func ExecutionsDir() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs", "executions"), nil
}

// NewExecutionLogger creates a new execution logger.
func NewExecutionLogger(executionID string) (*ExecutionLogger, error) {
	logsDir, err := ExecutionsDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(logsDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logPath := filepath.Join(logsDir, executionID+".jsonl")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &ExecutionLogger{
		executionID: executionID,
		file:        file,
		startTime:   time.Now(),
	}, nil
}

// ID returns the execution ID.
func (l *ExecutionLogger) ID() string {
	if l == nil {
		return ""
	}
	return l.executionID
}

// Log writes an event to the execution log.
func (l *ExecutionLogger) Log(event string, data any) {
	if l == nil || l.file == nil {
		return
	}

	jsonBytes, err := json.Marshal(LogEvent{
		Timestamp:   time.Now().UTC(),
		Event:       event,
		ExecutionID: l.executionID,
		Data:        data,
	})
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.file.Write(append(jsonBytes, '\n'))
}

// LogStart logs the start of execution.
func (l *ExecutionLogger) LogStart(version string, args []string) {
	l.Log("start", map[string]any{
		"version": version,
		"args":    args,
	})
}

// LogConfigLoaded logs the effective service setup.
func (l *ExecutionLogger) LogConfigLoaded(defaultService string, services int, hasRepoConfig bool) {
	l.Log("config_loaded", map[string]any{
		"default_service": defaultService,
		"services":        services,
		"has_repo_config": hasRepoConfig,
	})
}

// LogAIRequest logs an outgoing AI call. Prompt content is never recorded.
func (l *ExecutionLogger) LogAIRequest(service, model, operation string) {
	l.Log("ai_request", map[string]any{
		"service":   service,
		"model":     model,
		"operation": operation,
	})
}

// LogAIResponse logs a successful AI reply.
func (l *ExecutionLogger) LogAIResponse(service string, duration time.Duration, chars int) {
	l.Log("ai_response", map[string]any{
		"service":     service,
		"duration_ms": duration.Milliseconds(),
		"chars":       chars,
	})
}

// LogAIFallback logs a switch from one service to another.
func (l *ExecutionLogger) LogAIFallback(from, to, reason string) {
	l.Log("ai_fallback", map[string]any{
		"from":   from,
		"to":     to,
		"reason": reason,
	})
}

// LogReview logs a completed code review.
func (l *ExecutionLogger) LogReview(target string, reportChars int) {
	l.Log("review", map[string]any{
		"target":       target,
		"report_chars": reportChars,
	})
}

// LogCommit logs a created or amended commit.
func (l *ExecutionLogger) LogCommit(hash, title string, amend bool) {
	l.Log("commit", map[string]any{
		"hash":  hash,
		"title": title,
		"amend": amend,
	})
}

// LogError logs an error.
func (l *ExecutionLogger) LogError(err error) {
	if err == nil {
		return
	}
	l.Log("error", map[string]any{
		"message": err.Error(),
	})
}

// LogComplete logs execution completion.
func (l *ExecutionLogger) LogComplete(exitCode int) {
	if l == nil {
		return
	}
	l.Log("complete", map[string]any{
		"duration_ms": l.Duration().Milliseconds(),
		"exit_code":   exitCode,
	})
}

// Duration returns the time elapsed since the logger was created.
func (l *ExecutionLogger) Duration() time.Duration {
	if l == nil {
		return 0
	}
	return time.Since(l.startTime)
}

// Close closes the log file.
func (l *ExecutionLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// Path returns the path to the log file.
func (l *ExecutionLogger) Path() string {
	if l == nil || l.file == nil {
		return ""
	}
	return l.file.Name()
}
