package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dsswift/git-commit-helper/internal/config"
	"github.com/dsswift/git-commit-helper/internal/interactive"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "配置 AI 服务",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.out.Step("⚙️", "配置 AI 服务")
			_, err := a.setup()
			return err
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	format := outputYAML

	cmd := &cobra.Command{
		Use:   "show",
		Short: "显示当前配置信息",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			path, _ := config.Path()
			a.out.Plain(fmt.Sprintf("配置文件路径: %s\n", path))
			return writeConfig(a.out.Writer(), cfg, format)
		},
	}
	cmd.Flags().VarP(&format, "output", "o", "output format: yaml or json")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出所有 AI 服务",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			a.out.Plain("已配置的 AI 服务列表:")
			for _, line := range serviceLines(cfg) {
				a.out.Plain(line)
			}
			return nil
		},
	}
}

func newAIReviewCmd(a *app) *cobra.Command {
	var enable, disable, status bool

	cmd := &cobra.Command{
		Use:   "ai-review",
		Short: "管理提交前的 AI 代码审查",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			switch {
			case enable, disable:
				cfg.AIReview = enable
				if err := a.saveConfig(cfg); err != nil {
					return err
				}
				a.out.Success(fmt.Sprintf("AI 代码审查%s", enabledLabel(cfg.AIReview)))
			default:
				a.out.Plain(fmt.Sprintf("AI 代码审查: %s", enabledLabel(cfg.AIReview)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&enable, "enable", false, "enable the review")
	cmd.Flags().BoolVar(&disable, "disable", false, "disable the review")
	cmd.Flags().BoolVar(&status, "status", false, "show whether the review is enabled")
	cmd.MarkFlagsMutuallyExclusive("enable", "disable", "status")
	return cmd
}

func newServiceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "管理 AI 服务配置",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add",
			Short: "添加新的 AI 服务",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return a.editServices(addService) },
		},
		&cobra.Command{
			Use:   "edit",
			Short: "修改已有的 AI 服务配置",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return a.editServices(editService) },
		},
		&cobra.Command{
			Use:   "remove",
			Short: "删除 AI 服务",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, args []string) error { return a.editServices(removeService) },
		},
		&cobra.Command{
			Use:   "set-default [service]",
			Short: "设置默认 AI 服务",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 1 {
					return a.editServices(setDefaultServiceByName(args[0]))
				}
				return a.editServices(setDefaultService)
			},
		},
	)
	return cmd
}

// serviceEdit changes cfg in place. changed is false when there is nothing to save.
type serviceEdit func(a *app, cfg *types.Config) (changed bool, err error)

// editServices loads (or starts) the config, applies edit and saves it.
func (a *app) editServices(edit serviceEdit) error {
	cfg, err := config.LoadOrNew()
	if err != nil {
		return err
	}
	changed, err := edit(a, cfg)
	if err != nil || !changed {
		return err
	}
	return a.saveConfig(cfg)
}

var errNoServices = errors.New("没有配置任何 AI 服务，请先添加服务")

func addService(a *app, cfg *types.Config) (bool, error) {
	svc, err := interactive.PromptService(a.asker, nil)
	if err != nil {
		return false, err
	}

	for i := range cfg.Services {
		if cfg.Services[i].Service != svc.Service {
			continue
		}
		ok, err := a.asker.Confirm(fmt.Sprintf("%s 已存在，是否覆盖？", svc.Service), false)
		if err != nil || !ok {
			return false, err
		}
		return true, cfg.ReplaceService(i, svc)
	}

	cfg.AddService(svc)
	a.out.Success(fmt.Sprintf("已添加 %s 服务", svc.Service))
	return true, nil
}

func editService(a *app, cfg *types.Config) (bool, error) {
	i, err := a.pickService(cfg, "请选择要修改的服务")
	if err != nil {
		return false, err
	}
	svc, err := interactive.PromptService(a.asker, &cfg.Services[i])
	if err != nil {
		return false, err
	}
	return true, cfg.ReplaceService(i, svc)
}

func removeService(a *app, cfg *types.Config) (bool, error) {
	i, err := a.pickService(cfg, "请选择要删除的服务")
	if err != nil {
		return false, err
	}
	ok, err := a.asker.Confirm(fmt.Sprintf("确定要删除 %s 吗？", cfg.Services[i].Service), false)
	if err != nil || !ok {
		return false, err
	}
	removed, err := cfg.RemoveService(i)
	if err != nil {
		return false, err
	}
	a.out.Success(fmt.Sprintf("已删除 %s 服务", removed.Service))
	return true, nil
}

func setDefaultService(a *app, cfg *types.Config) (bool, error) {
	i, err := a.pickService(cfg, "请选择默认的 AI 服务")
	if err != nil {
		return false, err
	}
	if err := cfg.SetDefault(i); err != nil {
		return false, err
	}
	a.out.Success(fmt.Sprintf("默认服务已设置为 %s", cfg.DefaultService))
	return true, nil
}

// setDefaultServiceByName makes the named service the default without prompting.
func setDefaultServiceByName(name string) serviceEdit {
	return func(a *app, cfg *types.Config) (bool, error) {
		kind, err := types.ParseServiceKind(name)
		if err != nil {
			return false, err
		}
		for i := range cfg.Services {
			if cfg.Services[i].Service != kind {
				continue
			}
			if err := cfg.SetDefault(i); err != nil {
				return false, err
			}
			a.out.Success(fmt.Sprintf("默认服务已设置为 %s", cfg.DefaultService))
			return true, nil
		}
		return false, &config.ServiceNotFoundError{Service: kind}
	}
}

func (a *app) pickService(cfg *types.Config, title string) (int, error) {
	if len(cfg.Services) == 0 {
		return 0, errNoServices
	}
	return a.asker.Select(title, interactive.ServiceNames(cfg))
}
