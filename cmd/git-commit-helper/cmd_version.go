package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dsswift/git-commit-helper/internal/updater"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.out.Plain(fmt.Sprintf("git-commit-helper version %s", a.version))

			// Always check for updates (bypass cache)
			info := updater.NewChecker().CheckFresh(cmd.Context(), a.version)
			if notice := updater.FormatUpdateNotice(info); notice != "" {
				a.out.Plain(notice)
			}
			return nil
		},
	}
}
