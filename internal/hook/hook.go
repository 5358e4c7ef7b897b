// Package hook installs the commit-msg hook that runs the helper.
package hook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsswift/git-commit-helper/internal/git"
)

const (
	// Name is the git hook the helper installs.
	Name = "commit-msg"
	// BackupName is where an existing hook is moved when it is kept.
	BackupName = "commit-msg.old"

	// marker is written into every generated script so a reinstall can
	// recognise its own hook.
	marker = "# installed by git-commit-helper"

	keepPrompt  = "是否保留已存在的 hook 功能？"
	orderPrompt = "请选择执行顺序"
)

// Order options for a chained hook.
var orderOptions = []string{
	"先执行翻译程序，再执行原 hook",
	"先执行原 hook，再执行翻译程序",
}

// Asker asks the questions needed when a hook already exists.
type Asker interface {
	Confirm(title string, def bool) (bool, error)
	Select(title string, options []string) (int, error)
}

// HookExistsError is returned when a hook is present and force is not set.
type HookExistsError struct {
	Path string
}

func (e *HookExistsError) Error() string {
	return fmt.Sprintf("hook already exists: %s (use --force to replace or chain it)", e.Path)
}

// Result describes what Install did.
type Result struct {
	Path string
	// Backup is the path of the kept previous hook, if any.
	Backup string
	// RunFirst is true when the helper runs before the kept hook.
	RunFirst bool
}

// Install writes the commit-msg hook for the repository at repoPath.
// binary is the absolute path of the helper executable.
func Install(repoPath string, force bool, asker Asker, binary string) (*Result, error) {
	if binary == "" {
		return nil, errors.New("binary path is required")
	}

	gitDir, err := git.GitDir(repoPath)
	if err != nil {
		return nil, err
	}

	hooksDir := filepath.Join(gitDir, "hooks")
	hookPath := filepath.Join(hooksDir, Name)
	result := &Result{Path: hookPath}

	if _, err := os.Stat(hookPath); err == nil {
		if !force {
			return nil, &HookExistsError{Path: hookPath}
		}
		if asker == nil {
			return nil, &HookExistsError{Path: hookPath}
		}
		if err := handleExisting(hookPath, binary, asker, result); err != nil {
			return nil, err
		}
	}

	content := Script(binary, result.Backup, result.RunFirst)

	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create hooks directory: %w", err)
	}
	if err := os.WriteFile(hookPath, []byte(content), 0755); err != nil {
		return nil, fmt.Errorf("failed to write hook: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(hookPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to make hook executable: %w", err)
	}

	return result, nil
}

func handleExisting(hookPath, binary string, asker Asker, result *Result) error {
	backup := filepath.Join(filepath.Dir(hookPath), BackupName)

	owned, err := isOwnHook(hookPath, binary)
	if err != nil {
		return err
	}
	if owned {
		// Reinstall: the user's hook, if any, is already the backup.
		if _, err := os.Stat(backup); err != nil {
			return nil
		}
		keep, err := asker.Confirm(keepPrompt, true)
		if err != nil {
			return err
		}
		if !keep {
			return os.Remove(backup)
		}
		return chooseOrder(backup, asker, result)
	}

	keep, err := asker.Confirm(keepPrompt, true)
	if err != nil {
		return err
	}
	if !keep {
		return os.Remove(hookPath)
	}

	if err := os.Rename(hookPath, backup); err != nil {
		return fmt.Errorf("failed to back up existing hook: %w", err)
	}
	return chooseOrder(backup, asker, result)
}

func chooseOrder(backup string, asker Asker, result *Result) error {
	result.Backup = backup

	choice, err := asker.Select(orderPrompt, orderOptions)
	if err != nil {
		return err
	}
	result.RunFirst = choice == 0
	return nil
}

// isOwnHook reports whether the hook at path was written by Install.
func isOwnHook(path, binary string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read existing hook: %w", err)
	}
	content := string(data)
	return strings.Contains(content, marker) || strings.Contains(content, shellQuote(binary)), nil
}

// Script renders the hook script. With an empty backup the helper runs alone.
func Script(binary, backup string, runFirst bool) string {
	bin := shellQuote(binary)
	if backup == "" {
		return fmt.Sprintf("#!/bin/sh\n%s\nexec %s \"$1\"\n", marker, bin)
	}

	old := shellQuote(backup)
	if runFirst {
		return fmt.Sprintf(`#!/bin/sh
%s
# git-commit-helper runs first and aborts the commit on failure
%s "$1" || exit $?

if [ -x %s ]; then
    exec %s "$1"
fi
`, marker, bin, old, old)
	}

	return fmt.Sprintf(`#!/bin/sh
%s
# the previous hook runs first and aborts the commit on failure
if [ -x %s ]; then
    %s "$1" || exit $?
fi

exec %s "$1"
`, marker, old, old, bin)
}

// shellQuote wraps s in double quotes for /bin/sh.
func shellQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
	return `"` + r.Replace(s) + `"`
}
