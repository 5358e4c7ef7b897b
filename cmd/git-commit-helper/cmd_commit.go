package main

import (
	"github.com/spf13/cobra"

	"github.com/dsswift/git-commit-helper/internal/review"
	"github.com/dsswift/git-commit-helper/internal/workflow"
)

func newCommitCmd(a *app) *cobra.Command {
	var f commitFlags

	cmd := &cobra.Command{
		Use:     "commit",
		Aliases: []string{"suggest"},
		Short:   "根据暂存的改动生成提交信息并提交",
		Long: `Generate a commit message for the staged changes with the default AI
service, preview it, then commit, edit or cancel.

Examples:
  git-commit-helper commit                  # staged changes
  git-commit-helper commit -a -t fix        # stage tracked files, force type fix
  git-commit-helper commit --amend          # rewrite the last commit message
  git-commit-helper commit --issues 12,34   # add Fixes: marks
  git-commit-helper commit --dry-run        # only print the message`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, repo, root, err := a.repoConfig()
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
			if a.asker.Interactive() {
				deps.Editor = a.editor
			}

			res, err := workflow.NewGenerator(root, deps).Run(cmd.Context(), workflow.Options{
				CommitType:      f.commitType,
				UserMessage:     f.message,
				AllowedTypes:    repo.CommitTypes,
				Issues:          f.issues,
				Language:        f.language(cfg),
				AutoAdd:         f.all,
				Amend:           f.amend,
				Review:          cfg.AIReview && !f.noReview,
				TestSuggestions: !f.noInfluence,
				LogField:        !f.noLog,
				DryRun:          f.dryRun,
			})
			if err != nil {
				return err
			}
			a.commitHash = res.Hash
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.commitType, "type", "t", "", "required commit type, e.g. feat or fix")
	fl.StringVarP(&f.message, "message", "m", "", "your description of the change")
	fl.BoolVarP(&f.all, "all", "a", false, "stage modified tracked files first (git add -u)")
	fl.BoolVar(&f.amend, "amend", false, "rewrite the message of the last commit")
	fl.StringSliceVar(&f.issues, "issues", nil, "issue references: #12, GitHub issue URLs or PMS links")
	fl.BoolVar(&f.onlyChinese, "only-chinese", false, "write the message in Chinese only")
	fl.BoolVar(&f.onlyEnglish, "only-english", false, "write the message in English only")
	fl.BoolVar(&f.noInfluence, "no-influence", false, "omit the Influence: test suggestions")
	fl.BoolVar(&f.noLog, "no-log", false, "omit the Log: line")
	fl.BoolVar(&f.noReview, "no-review", false, "skip the AI code review")
	fl.BoolVar(&f.dryRun, "dry-run", false, "print the message without committing")
	cmd.MarkFlagsMutuallyExclusive("only-chinese", "only-english")
	return cmd
}
