package interactive

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dsswift/git-commit-helper/internal/llm"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

// Language menu, in the order shown to the user.
var languageOptions = []struct {
	label string
	lang  types.Language
}{
	{"中英双语 (英文标题与正文，附中文原文)", types.LanguageBilingual},
	{"仅中文", types.LanguageChinese},
	{"仅英文", types.LanguageEnglish},
}

// ServiceNames returns "1. Kind" style labels for the configured services.
func ServiceNames(cfg *types.Config) []string {
	names := make([]string, len(cfg.Services))
	for i, s := range cfg.Services {
		label := string(s.Service)
		if s.Service == cfg.DefaultService {
			label += " (默认)"
		}
		names[i] = fmt.Sprintf("%d. %s", i+1, label)
	}
	return names
}

// PromptService asks for the settings of one service. When current is
// non-nil its kind is kept and blank answers keep its values.
func PromptService(a Asker, current *types.ServiceConfig) (types.ServiceConfig, error) {
	var svc types.ServiceConfig
	if current != nil {
		svc = *current
	} else {
		kinds := types.AllServiceKinds()
		labels := make([]string, len(kinds))
		for i, k := range kinds {
			labels[i] = string(k)
		}
		choice, err := a.Select("请选择要添加的 AI 服务", labels)
		if err != nil {
			return svc, err
		}
		svc.Service = kinds[choice]
	}

	keyTitle := "请输入 API Key"
	if svc.Service == types.Copilot {
		keyTitle = "请输入 GitHub Token"
	}
	required := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("不能为空")
		}
		return nil
	}
	var validate func(string) error
	if current == nil {
		validate = required
	} else {
		keyTitle += " (直接回车保留原值)"
	}
	key, err := a.Password(keyTitle, validate)
	if err != nil {
		return svc, err
	}
	if k := strings.TrimSpace(key); k != "" {
		svc.APIKey = k
	}

	endpoint, err := a.Input(
		fmt.Sprintf("请输入 API Endpoint (可选，直接回车使用默认值 %s)", llm.DefaultEndpoint(svc.Service)),
		svc.APIEndpoint, validateEndpoint)
	if err != nil {
		return svc, err
	}
	svc.APIEndpoint = strings.TrimSpace(endpoint)

	model, err := a.Input(
		fmt.Sprintf("请输入模型名称 (可选，直接回车使用默认值) [%s]", llm.DefaultModel(svc.Service)),
		svc.Model, nil)
	if err != nil {
		return svc, err
	}
	svc.Model = strings.TrimSpace(model)

	return svc, nil
}

func validateEndpoint(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("请输入完整的 URL，例如 https://api.example.com/v1")
	}
	return nil
}

// RunSetup walks the user through adding services and choosing defaults.
// Existing services are kept; adding a kind that is already configured
// replaces it.
func RunSetup(a Asker, cfg *types.Config) error {
	for {
		if len(cfg.Services) > 0 {
			more, err := a.Confirm("是否继续添加 AI 服务？", false)
			if err != nil {
				return err
			}
			if !more {
				break
			}
		}

		svc, err := PromptService(a, nil)
		if err != nil {
			return err
		}
		upsertService(cfg, svc)
	}

	if len(cfg.Services) > 1 {
		choice, err := a.Select("请选择默认的 AI 服务", ServiceNames(cfg))
		if err != nil {
			return err
		}
		if err := cfg.SetDefault(choice); err != nil {
			return err
		}
	}

	labels := make([]string, len(languageOptions))
	for i, o := range languageOptions {
		labels[i] = o.label
	}
	choice, err := a.Select("请选择提交信息的语言", labels)
	if err != nil {
		return err
	}
	cfg.Language = languageOptions[choice].lang

	review, err := a.Confirm("是否在提交前进行 AI 代码审查？", cfg.AIReview)
	if err != nil {
		return err
	}
	cfg.AIReview = review

	return nil
}

func upsertService(cfg *types.Config, svc types.ServiceConfig) {
	for i := range cfg.Services {
		if cfg.Services[i].Service == svc.Service {
			_ = cfg.ReplaceService(i, svc)
			return
		}
	}
	cfg.AddService(svc)
}
