package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dsswift/git-commit-helper/internal/config"
)

const (
	registryFile    = "tool_executions.jsonl"
	maxRegistrySize = 10 * 1024 * 1024 // 10MB
	registryBackups = 2
	retentionDays   = 30
)

// RegistryEntry represents a single execution in the registry.
type RegistryEntry struct {
	ExecutionID string   `json:"execution_id"`
	Timestamp   string   `json:"timestamp"`
	Version     string   `json:"version"`
	Command     string   `json:"command"`
	CWD         string   `json:"cwd"`
	Args        []string `json:"args"`
	GitRoot     string   `json:"git_root,omitempty"`
	DurationMS  int64    `json:"duration_ms"`
	ExitCode    int      `json:"exit_code"`
	CommitHash  string   `json:"commit_hash,omitempty"`
}

// GenerateExecutionID creates a unique execution ID.
func GenerateExecutionID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("exec_%s_%s", time.Now().Format("20060102_150405"), id[:12])
}

func registryPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs", registryFile), nil
}

// WriteRegistryEntry appends an entry to the tool_executions.jsonl file.
func WriteRegistryEntry(entry RegistryEntry) error {
	path, err := registryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	if shouldRotate(path) {
		rotateRegistry(path)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open registry file: %w", err)
	}
	defer file.Close()

	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	_, err = file.Write(append(jsonBytes, '\n'))
	return err
}

func shouldRotate(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() > maxRegistrySize
}

// rotateRegistry shifts path -> path.1 -> path.2, dropping the oldest backup.
func rotateRegistry(path string) {
	os.Remove(fmt.Sprintf("%s.%d", path, registryBackups))
	for i := registryBackups - 1; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("%s.%d", path, i+1))
	}
	os.Rename(path, path+".1")
}

// CleanupOldLogs removes execution logs older than the retention period.
func CleanupOldLogs() error {
	executionsDir, err := ExecutionsDir()
	if err != nil {
		return err
	}
	return cleanupDir(executionsDir, time.Now().AddDate(0, 0, -retentionDays))
}

func cleanupDir(dir string, cutoff time.Time) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(dir, entry.Name()))
		}
	}
	return nil
}

// CleanupInBackground runs CleanupOldLogs without blocking the caller.
// The returned channel is closed when cleanup finishes.
func CleanupInBackground() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = CleanupOldLogs()
	}()
	return done
}

// GetRecentExecutions returns the most recent N executions from the registry.
func GetRecentExecutions(count int) ([]RegistryEntry, error) {
	path, err := registryPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []RegistryEntry
	for _, line := range splitLines(data) {
		var entry RegistryEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	if count > 0 && len(entries) > count {
		entries = entries[len(entries)-count:]
	}
	return entries, nil
}

// splitLines splits data into non-empty lines.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}
