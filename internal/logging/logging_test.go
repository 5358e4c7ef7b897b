package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dsswift/git-commit-helper/internal/config"
)

// useTempConfig points the config dir at a fresh temp dir and returns it.
func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, config.ConfigFile))
	return dir
}

func readEvents(t *testing.T, path string) []LogEvent {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	var events []LogEvent
	for _, line := range splitLines(content) {
		var ev LogEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			t.Fatalf("failed to parse log event %q: %v", line, err)
		}
		events = append(events, ev)
	}
	return events
}

func TestGenerateExecutionID(t *testing.T) {
	id1 := GenerateExecutionID()
	id2 := GenerateExecutionID()

	if !strings.HasPrefix(id1, "exec_") {
		t.Errorf("expected ID to start with 'exec_', got %q", id1)
	}
	if id1 == id2 {
		t.Error("expected unique IDs")
	}
	today := time.Now().Format("20060102")
	if !strings.Contains(id1, today) {
		t.Errorf("expected ID to contain today's date %s, got %q", today, id1)
	}
}

func TestExecutionLogger_Log(t *testing.T) {
	useTempConfig(t)

	logger, err := NewExecutionLogger("exec_test_123")
	if err != nil {
		t.Fatalf("NewExecutionLogger failed: %v", err)
	}

	logger.Log("test_event", map[string]string{"key": "value"})
	logger.LogStart("1.0.0", []string{"commit", "--dry-run"})
	logger.LogConfigLoaded("DeepSeek", 2, false)
	_ = logger.Close()

	events := readEvents(t, logger.Path())
	if len(events) != 3 {
		t.Fatalf("expected 3 log lines, got %d", len(events))
	}
	if events[0].Event != "test_event" {
		t.Errorf("expected event 'test_event', got %q", events[0].Event)
	}
	if events[1].ExecutionID != "exec_test_123" {
		t.Errorf("expected execution id on every event, got %q", events[1].ExecutionID)
	}
}

func TestExecutionLogger_Path(t *testing.T) {
	dir := useTempConfig(t)

	logger, err := NewExecutionLogger("exec_test_456")
	if err != nil {
		t.Fatalf("NewExecutionLogger failed: %v", err)
	}
	defer logger.Close() //nolint:errcheck // test cleanup

	want := filepath.Join(dir, "logs", "executions", "exec_test_456.jsonl")
	if logger.Path() != want {
		t.Errorf("expected path %q, got %q", want, logger.Path())
	}
	if logger.ID() != "exec_test_456" {
		t.Errorf("expected ID exec_test_456, got %q", logger.ID())
	}
}

func TestExecutionLogger_NilIsSafe(t *testing.T) {
	var logger *ExecutionLogger

	logger.LogStart("1.0.0", nil)
	logger.LogAIRequest("OpenAI", "gpt", "chat")
	logger.LogError(errors.New("boom"))
	logger.LogComplete(1)

	if logger.Path() != "" || logger.ID() != "" {
		t.Error("nil logger should report empty path and id")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
}

func TestExecutionLogger_AllLogMethods(t *testing.T) {
	useTempConfig(t)

	logger, err := NewExecutionLogger("exec_all_methods")
	if err != nil {
		t.Fatalf("NewExecutionLogger failed: %v", err)
	}

	logger.LogStart("1.0.0", []string{})
	logger.LogConfigLoaded("OpenAI", 1, true)
	logger.LogAIRequest("OpenAI", "gpt-4o", "chat")
	logger.LogAIResponse("OpenAI", 1500*time.Millisecond, 120)
	logger.LogAIFallback("OpenAI", "Claude", "timeout")
	logger.LogReview("staged", 80)
	logger.LogCommit("abc1234", "feat: add feature", false)
	logger.LogError(errors.New("test error"))
	logger.LogError(nil)
	logger.LogComplete(0)
	_ = logger.Close()

	events := readEvents(t, logger.Path())
	want := []string{"start", "config_loaded", "ai_request", "ai_response", "ai_fallback", "review", "commit", "error", "complete"}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i, name := range want {
		if events[i].Event != name {
			t.Errorf("event %d: expected %q, got %q", i, name, events[i].Event)
		}
	}

	data, ok := events[3].Data.(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %T", events[3].Data)
	}
	if data["duration_ms"] != float64(1500) {
		t.Errorf("expected duration_ms 1500, got %v", data["duration_ms"])
	}
}

func TestWriteRegistryEntry(t *testing.T) {
	dir := useTempConfig(t)

	entry := RegistryEntry{
		ExecutionID: "exec_test_789",
		Timestamp:   time.Now().Format(time.RFC3339),
		Version:     "1.0.0",
		Command:     "commit",
		CWD:         "/test/path",
		Args:        []string{"--dry-run"},
		DurationMS:  1234,
		CommitHash:  "abc1234",
	}
	if err := WriteRegistryEntry(entry); err != nil {
		t.Fatalf("WriteRegistryEntry failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "logs", registryFile))
	if err != nil {
		t.Fatalf("failed to read registry: %v", err)
	}

	var got RegistryEntry
	if err := json.Unmarshal(bytes.TrimSpace(content), &got); err != nil {
		t.Fatalf("failed to parse registry entry: %v", err)
	}
	if got.ExecutionID != entry.ExecutionID {
		t.Errorf("expected execution ID %q, got %q", entry.ExecutionID, got.ExecutionID)
	}
	if got.CommitHash != "abc1234" {
		t.Errorf("expected commit hash abc1234, got %q", got.CommitHash)
	}
}

func TestGetRecentExecutions(t *testing.T) {
	useTempConfig(t)

	for i := 1; i <= 5; i++ {
		_ = WriteRegistryEntry(RegistryEntry{
			ExecutionID: "exec_" + string(rune('0'+i)),
			Timestamp:   time.Now().Format(time.RFC3339),
		})
	}

	recent, err := GetRecentExecutions(3)
	if err != nil {
		t.Fatalf("GetRecentExecutions failed: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 recent executions, got %d", len(recent))
	}
	if recent[0].ExecutionID != "exec_3" {
		t.Errorf("expected first recent to be exec_3, got %q", recent[0].ExecutionID)
	}
}

func TestGetRecentExecutions_NoFile(t *testing.T) {
	useTempConfig(t)

	recent, err := GetRecentExecutions(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("expected empty result, got %v", recent)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := useTempConfig(t)

	execDir := filepath.Join(dir, "logs", "executions")
	_ = os.MkdirAll(execDir, 0700)

	oldFile := filepath.Join(execDir, "old_exec.jsonl")
	newFile := filepath.Join(execDir, "new_exec.jsonl")
	_ = os.WriteFile(oldFile, []byte("old"), 0600)
	_ = os.WriteFile(newFile, []byte("new"), 0600)

	oldTime := time.Now().AddDate(0, 0, -60)
	_ = os.Chtimes(oldFile, oldTime, oldTime)

	<-CleanupInBackground()

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("expected old file to be deleted")
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Error("expected new file to remain")
	}
}

func TestCleanupOldLogs_MissingDir(t *testing.T) {
	useTempConfig(t)

	if err := CleanupOldLogs(); err != nil {
		t.Errorf("expected no error for missing dir, got %v", err)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected int
	}{
		{"empty", []byte(""), 0},
		{"single line", []byte("line1"), 1},
		{"two lines", []byte("line1\nline2"), 2},
		{"trailing newline", []byte("line1\nline2\n"), 2},
		{"multiple newlines", []byte("line1\n\nline3"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(splitLines(tt.input)); got != tt.expected {
				t.Errorf("expected %d lines, got %d", tt.expected, got)
			}
		})
	}
}

func TestRegistryRotation(t *testing.T) {
	dir := t.TempDir()

	smallFile := filepath.Join(dir, "small.jsonl")
	_ = os.WriteFile(smallFile, []byte("small"), 0600)
	if shouldRotate(smallFile) {
		t.Error("should not rotate small file")
	}
	if shouldRotate(filepath.Join(dir, "nonexistent")) {
		t.Error("should not rotate non-existent file")
	}

	path := filepath.Join(dir, registryFile)
	_ = os.WriteFile(path, []byte("current"), 0600)
	_ = os.WriteFile(path+".1", []byte("first"), 0600)
	_ = os.WriteFile(path+".2", []byte("second"), 0600)

	rotateRegistry(path)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected current registry to be moved away")
	}
	if b, _ := os.ReadFile(path + ".1"); string(b) != "current" {
		t.Errorf("expected .1 to hold current, got %q", b)
	}
	if b, _ := os.ReadFile(path + ".2"); string(b) != "first" {
		t.Errorf("expected .2 to hold first, got %q", b)
	}
}

func TestLevels(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	if LevelFor(false) != slog.LevelInfo {
		t.Error("expected info by default")
	}
	if LevelFor(true) != slog.LevelDebug {
		t.Error("expected debug when forced")
	}
	t.Setenv(EnvLogLevel, "DEBUG")
	if LevelFor(false) != slog.LevelDebug {
		t.Error("expected debug from env")
	}
	if ParseLevel("warning") != slog.LevelWarn || ParseLevel("bogus") != slog.LevelInfo {
		t.Error("unexpected level mapping")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.LevelInfo, &buf)

	logger.Debug("hidden")
	logger.Info("shown", "service", "Qwen")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record should be filtered at info level")
	}
	if !strings.Contains(out, "service=Qwen") {
		t.Errorf("expected structured attribute, got %q", out)
	}
}
