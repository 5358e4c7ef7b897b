package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dsswift/git-commit-helper/internal/git"
	"github.com/dsswift/git-commit-helper/internal/review"
	"github.com/dsswift/git-commit-helper/internal/workflow"
)

func newRootCmd(a *app) *cobra.Command {
	var noReview bool

	root := &cobra.Command{
		Use:   "git-commit-helper [commit-msg-file]",
		Short: "AI powered git commit message helper",
		Long: `git-commit-helper writes, translates and reviews git commit messages
with AI services (DeepSeek, OpenAI, Claude, Gemini, Grok, Qwen, Copilot).

Installed as a commit-msg hook it is called with the message file path:
it reviews the staged changes and offers to translate a Chinese message
into a bilingual one.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.initLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.runHook(cmd, args[0], noReview)
		},
	}
	root.Flags().BoolVar(&noReview, "no-review", false, "skip the code review in hook mode")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newConfigCmd(a),
		newShowCmd(a),
		newInstallCmd(a),
		newServiceCmd(a),
		newListCmd(a),
		newTestCmd(a),
		newTranslateCmd(a),
		newCommitCmd(a),
		newAIReviewCmd(a),
		newReviewCmd(a),
		newVersionCmd(a),
	)
	return root
}

// runHook processes the message file git hands to the commit-msg hook.
func (a *app) runHook(cmd *cobra.Command, path string, noReview bool) error {
	// Git redirects the hook's stdin; questions go to the terminal instead.
	if !a.asker.Interactive() && a.hookPrompter != nil {
		if p := a.hookPrompter(); p.Interactive() {
			a.asker = p
		}
	}

	if os.Getenv(git.EnvSkipReview) != "" {
		a.logger.Debug("skip flag set, hook does nothing")
		return nil
	}

	cfg, _, root, err := a.repoConfig()
	if err != nil {
		return err
	}

	ai := a.orchestrator(cfg)
	deps := workflow.Deps{
		AI:       ai,
		Asker:    a.asker,
		Reviewer: review.NewReviewer(ai, nil, a.progress, a.logger),
		Printer:  a.out,
		Logger:   a.logger,
		Recorder: a.exec,
	}
	processor := workflow.NewHookProcessor(deps, git.NewCollector(root), cfg.AIReview && !noReview)
	return processor.ProcessCommitMsg(cmd.Context(), path)
}
