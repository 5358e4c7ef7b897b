package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dsswift/git-commit-helper/internal/config"
	"github.com/dsswift/git-commit-helper/internal/git"
	"github.com/dsswift/git-commit-helper/internal/interactive"
	"github.com/dsswift/git-commit-helper/internal/llm"
	"github.com/dsswift/git-commit-helper/internal/logging"
	"github.com/dsswift/git-commit-helper/internal/terminal"
	"github.com/dsswift/git-commit-helper/internal/workflow"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

const (
	missingConfigNotice = "未检测到有效的 AI 配置，需要先进行配置"
	setupPrompt         = "是否现在进行配置？"
)

// errNeedsConfig is returned when the user declines the setup wizard.
var errNeedsConfig = errors.New("请先运行 'git-commit-helper config' 进行配置")

// app carries the state shared by all commands of one run.
type app struct {
	version string
	out     *terminal.Printer
	logger  *slog.Logger
	exec    *logging.ExecutionLogger
	debug   bool

	asker    interactive.Asker
	progress llm.Progress
	editor   workflow.MessageEditor

	// hookPrompter opens the terminal when git redirected stdin; nil disables it.
	hookPrompter func() interactive.Asker

	// commitHash is the commit created by this run, for the registry.
	commitHash string
}

func newApp(version string, w io.Writer) *app {
	return &app{
		version:  version,
		out:      terminal.NewPrinter(w),
		logger:   logging.Discard(),
		asker:    interactive.NewPrompter(),
		progress: terminal.NewSpinner(),
		editor:   interactive.NewEditor(),

		hookPrompter: func() interactive.Asker { return interactive.NewHookPrompter() },
	}
}

// initLogging installs the diagnostic logger once flags are parsed.
func (a *app) initLogging() {
	a.logger = logging.NewLogger(logging.LevelFor(a.debug), os.Stderr)
	slog.SetDefault(a.logger)
}

// loadConfig loads the user config, offering the setup wizard when it is
// missing or invalid.
func (a *app) loadConfig() (*types.Config, error) {
	cfg, err := config.Load()
	if err == nil {
		return cfg, nil
	}

	a.out.Warning(err.Error())
	a.out.Plain(missingConfigNotice)
	if !a.asker.Interactive() {
		return nil, err
	}
	ok, aerr := a.asker.Confirm(setupPrompt, true)
	if aerr != nil {
		return nil, aerr
	}
	if !ok {
		return nil, errNeedsConfig
	}
	return a.setup()
}

// setup runs the configuration wizard and saves the result.
func (a *app) setup() (*types.Config, error) {
	cfg, err := config.LoadOrNew()
	if err != nil {
		a.logger.Warn("existing config unreadable, starting fresh", "error", err)
		cfg = types.NewConfig()
	}

	if err := interactive.RunSetup(a.asker, cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if err := a.saveConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) saveConfig(cfg *types.Config) error {
	if err := config.Save(cfg); err != nil {
		return err
	}
	path, _ := config.Path()
	a.out.Success(fmt.Sprintf("配置已保存到 %s", path))
	return nil
}

// repoConfig loads the user config with the overrides of the repository
// containing the working directory layered on top.
func (a *app) repoConfig() (*types.Config, *types.RepoConfig, string, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, "", err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, "", err
	}
	root, err := git.FindGitRoot(cwd)
	if err != nil {
		return nil, nil, "", fmt.Errorf("not a git repository: %w", err)
	}

	repo, err := config.LoadRepoConfig(root)
	if err != nil {
		return nil, nil, "", err
	}
	merged := config.ApplyRepoConfig(cfg, repo)
	a.exec.LogConfigLoaded(string(merged.DefaultService), len(merged.Services), len(repo.CommitTypes) > 0 || repo.Language != "" || repo.AIReview != nil)
	return merged, repo, root, nil
}

// orchestrator builds the fallback orchestrator for cfg.
func (a *app) orchestrator(cfg *types.Config) *llm.Orchestrator {
	return llm.NewOrchestrator(cfg, a.asker, a.progress, a.logger).WithRecorder(a.exec)
}
