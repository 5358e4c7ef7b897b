package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dsswift/git-commit-helper/internal/interactive"
	"github.com/dsswift/git-commit-helper/internal/llm"
)

const defaultTestText = "这是一个测试消息。"

var testHints = []string{
	"1. API Key 是否正确",
	"2. API Endpoint 是否可访问",
	"3. 网络连接是否正常",
	"4. 使用 --debug 或设置 GIT_COMMIT_HELPER_LOG=debug 查看详细日志",
}

func newTestCmd(a *app) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "测试指定的 AI 服务",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			i, err := a.asker.Select("请选择要测试的 AI 服务", interactive.ServiceNames(cfg))
			if err != nil {
				return err
			}
			svc := &cfg.Services[i]

			a.out.Step("🧪", fmt.Sprintf("正在测试 %s 服务...", svc.Service))
			tr, err := llm.NewTranslatorForService(svc, llm.OptionsFromConfig(cfg))
			if err != nil {
				return err
			}

			retrier := llm.NewRetrier(a.asker, a.progress, a.logger)
			result, err := retrier.Do(cmd.Context(), tr, func(ctx context.Context) (string, error) {
				return tr.Translate(ctx, text)
			})
			if err != nil {
				a.out.Error("测试失败", err)
				a.out.Plain("\n请检查:")
				for _, h := range testHints {
					a.out.Plain(h)
				}
				return err
			}

			a.out.Block("测试结果:", fmt.Sprintf("原文: %s\n译文: %s", text, result))
			if strings.TrimSpace(result) == "" {
				a.out.Warning("收到空的翻译结果！")
			}
			a.out.Success("测试成功！")
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", defaultTestText, "Chinese text used for the test")
	return cmd
}

var errNoTranslateInput = errors.New("请提供要翻译的文件（-f）或文本内容（-t）")

func newTranslateCmd(a *app) *cobra.Command {
	var file, text string

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "翻译中文内容为英文",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := text
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", file, err)
				}
				content = string(data)
			}
			if strings.TrimSpace(content) == "" {
				return errNoTranslateInput
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			a.out.Step("🌐", fmt.Sprintf("正在使用 %s 服务进行翻译...", cfg.DefaultService))

			result, err := a.orchestrator(cfg).Translate(cmd.Context(), content)
			if err != nil {
				return err
			}
			a.out.Block("翻译结果:", fmt.Sprintf("原文: %s\n译文: %s", strings.TrimSpace(content), result))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "file to translate")
	cmd.Flags().StringVarP(&text, "text", "t", "", "text to translate")
	cmd.MarkFlagsMutuallyExclusive("file", "text")
	return cmd
}
