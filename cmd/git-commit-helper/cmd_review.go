package main

import (
	"github.com/spf13/cobra"

	"github.com/dsswift/git-commit-helper/internal/remote"
	"github.com/dsswift/git-commit-helper/internal/review"
)

func newReviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "review <url>",
		Short: "审查 GitHub PR、GitHub commit 或 Gerrit change",
		Long: `Fetch a remote change and review it with the default AI service.

Supported URLs:
  https://github.com/<owner>/<repo>/pull/<number>
  https://github.com/<owner>/<repo>/commit/<sha>
  https://<gerrit-host>/c/<project>/+/<change>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			ai := a.orchestrator(cfg)
			reviewer := review.NewReviewer(ai, remote.NewClient(cfg.Gerrit, a.logger), a.progress, a.logger)
			report, err := reviewer.Remote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.exec.LogReview(args[0], len(report))
			a.out.Plain(report)
			return nil
		},
	}
}
