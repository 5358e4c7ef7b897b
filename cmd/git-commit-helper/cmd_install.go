package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dsswift/git-commit-helper/internal/git"
	"github.com/dsswift/git-commit-helper/internal/hook"
)

func newInstallCmd(a *app) *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "将工具安装到 git 仓库的 commit-msg hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.loadConfig(); err != nil {
				return err
			}
			if path == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				path = cwd
			}
			root, err := git.FindGitRoot(path)
			if err != nil {
				return fmt.Errorf("%s 不是 git 仓库: %w", path, err)
			}

			binary, err := os.Executable()
			if err != nil {
				return fmt.Errorf("failed to locate executable: %w", err)
			}
			if resolved, err := filepath.EvalSymlinks(binary); err == nil {
				binary = resolved
			}

			res, err := hook.Install(root, force, a.asker, binary)
			if err != nil {
				return err
			}
			a.out.Success(fmt.Sprintf("已安装 commit-msg hook: %s", res.Path))
			if res.Backup != "" {
				order := "原 hook 先执行"
				if res.RunFirst {
					order = "翻译程序先执行"
				}
				a.out.Verbose(fmt.Sprintf("原 hook 已保存为 %s (%s)", res.Backup, order))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "git repository path (default: current directory)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing commit-msg hook")
	return cmd
}
