// git-commit-helper writes, translates and reviews git commit messages with AI services.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/dsswift/git-commit-helper/internal/git"
	"github.com/dsswift/git-commit-helper/internal/interactive"
	"github.com/dsswift/git-commit-helper/internal/logging"
	"github.com/dsswift/git-commit-helper/internal/updater"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	start := time.Now()
	a := newApp(Version, os.Stdout)

	// Logging is best effort; a nil execution logger drops events.
	executionID := logging.GenerateExecutionID()
	execLog, _ := logging.NewExecutionLogger(executionID)
	defer execLog.Close()
	a.exec = execLog

	execLog.LogStart(Version, args)
	logging.CleanupInBackground()

	versionCh := make(chan *updater.VersionInfo, 1)
	go func() {
		versionCh <- updater.NewChecker().Check(context.Background(), Version)
	}()

	root := newRootCmd(a)
	root.SetArgs(args)
	cmd, err := root.ExecuteC()

	exitCode := exitCodeFor(err)
	switch {
	case err == nil:
	case exitCode == 0:
		a.out.Final("🚫", "已取消")
	default:
		a.out.Error("执行失败", err)
		execLog.LogError(err)
	}

	cwd, _ := os.Getwd()
	gitRoot, _ := git.FindGitRoot(cwd)
	command := ""
	if cmd != nil {
		command = cmd.Name()
	}
	_ = logging.WriteRegistryEntry(logging.RegistryEntry{
		ExecutionID: executionID,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Version:     Version,
		Command:     command,
		CWD:         cwd,
		Args:        args,
		GitRoot:     gitRoot,
		DurationMS:  time.Since(start).Milliseconds(),
		ExitCode:    exitCode,
		CommitHash:  a.commitHash,
	})
	execLog.LogComplete(exitCode)

	// version prints its own fresh notice.
	if command != "version" {
		if notice := pendingNotice(versionCh); notice != "" {
			a.out.Plain(notice)
		}
	}

	return exitCode
}

// pendingNotice returns the update notice if the background check has
// already finished; it never waits.
func pendingNotice(ch <-chan *updater.VersionInfo) string {
	select {
	case info := <-ch:
		return updater.FormatUpdateNotice(info)
	default:
		return ""
	}
}

// exitCodeFor maps a command error to the process exit code. User
// cancellation is not a failure.
func exitCodeFor(err error) int {
	switch {
	case err == nil, errors.Is(err, interactive.ErrCancelled):
		return 0
	default:
		return 1
	}
}
