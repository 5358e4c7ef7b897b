// Package prompt builds the system and user prompts sent to the AI services.
package prompt

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dsswift/git-commit-helper/pkg/types"
)

// TranslationWidth is the column width Chinese text is wrapped to before translation.
const TranslationWidth = 72

// CommitOptions controls the commit message prompt.
type CommitOptions struct {
	// Language selects the language of the generated message.
	// Bilingual generates Chinese; the English half is produced by translation.
	Language types.Language

	// CommitType, when set, must be used as the title type.
	CommitType string

	// AllowedTypes lists the types the model may choose from.
	AllowedTypes []string

	// UserMessage is the user's own description of the change.
	UserMessage string

	// TestSuggestions appends an Influence: section with test suggestions.
	TestSuggestions bool

	// TestsChanged notes that the change already touches test files.
	TestsChanged bool

	// RecentTitles are recent commit titles shown as a style reference.
	RecentTitles []string

	// LogField appends a Log: line describing the user visible change.
	LogField bool
}

var typeDescriptions = map[string]string{
	"feat":     "新功能",
	"fix":      "修复问题",
	"docs":     "文档变更",
	"style":    "代码格式调整",
	"refactor": "代码重构",
	"test":     "测试相关",
	"chore":    "构建或辅助工具变更",
	"perf":     "性能优化",
	"ci":       "持续集成配置变更",
	"build":    "构建系统变更",
	"revert":   "回退提交",
}

// Commit returns the system and user prompts for commit message generation.
// summary is an optional file summary placed before the diff.
func Commit(opts CommitOptions, summary, diff string) (system string, user string) {
	allowed := opts.AllowedTypes
	if len(allowed) == 0 {
		allowed = types.DefaultCommitTypes()
	}

	var sb strings.Builder
	if opts.UserMessage != "" {
		sb.WriteString("我将给你展示一些 git diff 的内容和用户的描述，请你帮我生成一个符合规范的 git commit 信息。")
		sb.WriteString("用户描述的内容是这次改动的重点，git diff 作为辅助参考。\n")
	} else {
		sb.WriteString("我将给你展示一些 git diff 的内容，请你帮我总结这些改动并生成一个符合规范的 git commit 信息。\n")
	}
	sb.WriteString("请使用纯文本格式，不要使用任何 markdown 或其他标记语言。\n\n")
	sb.WriteString("提交信息的格式要求：\n")
	sb.WriteString("1. 第一行为标题，简要说明改动内容\n")
	sb.WriteString("2. 标题要精简，不超过50个字符\n")
	sb.WriteString("3. 标题的格式为：type: message，其中type为改动类型，message为改动说明\n")
	if opts.CommitType != "" {
		fmt.Fprintf(&sb, "4. 必须使用 %s 作为type\n", opts.CommitType)
	} else {
		sb.WriteString("4. 根据改动内容自行判断使用以下类型之一：\n")
		for _, t := range allowed {
			if desc, ok := typeDescriptions[t]; ok {
				fmt.Fprintf(&sb, "   %s: %s\n", t, desc)
			} else {
				fmt.Fprintf(&sb, "   %s\n", t)
			}
		}
	}
	sb.WriteString("5. 标题之后空一行，再用简短的条目说明主要改动\n")

	n := 6
	if opts.TestSuggestions {
		fmt.Fprintf(&sb, "%d. 正文之后空一行，以 \"Influence:\" 开头的段落给出测试建议，说明需要验证的功能点", n)
		if opts.TestsChanged {
			sb.WriteString("；本次改动已包含测试文件，请说明这些测试覆盖了哪些功能")
		}
		sb.WriteString("\n")
		n++
	}
	if opts.LogField {
		fmt.Fprintf(&sb, "%d. 最后一行为 \"Log: \" 加一句面向用户的改动说明，没有用户可见改动时写 \"Log: 无\"\n", n)
		n++
	}
	fmt.Fprintf(&sb, "%d. %s\n", n, languageRule(opts.Language))
	sb.WriteString("\n注意：仅返回纯文本格式的提交信息，不要包含任何格式标记。")
	system = sb.String()

	var ub strings.Builder
	if opts.UserMessage != "" {
		fmt.Fprintf(&ub, "用户的描述：\n%s\n\n", opts.UserMessage)
	}
	if len(opts.RecentTitles) > 0 {
		ub.WriteString("仓库最近的提交标题（参考其风格）：\n")
		for _, title := range opts.RecentTitles {
			fmt.Fprintf(&ub, "- %s\n", title)
		}
		ub.WriteString("\n")
	}
	if summary != "" {
		fmt.Fprintf(&ub, "改动文件：\n%s\n\n", summary)
	}
	fmt.Fprintf(&ub, "改动内容：\n%s", diff)
	user = ub.String()

	return system, user
}

func languageRule(lang types.Language) string {
	if lang == types.LanguageEnglish {
		return "标题和正文全部使用英文书写，type 保持英文小写"
	}
	return "标题和正文使用中文书写，type 保持英文小写"
}

// Translation returns the system prompt that asks for a Chinese to English translation.
func Translation(text string) string {
	return fmt.Sprintf(`You are a professional translator. Please translate the following Chinese text to English.
Important rules:
1. Keep all English content, numbers, and English punctuation unchanged
2. Do not translate any content inside English double quotes
3. Preserve the case of all English words
4. Only return the English translation, DO NOT include the original Chinese text
5. Keep simple and concise, no need to rewrite or expand the content

Example response format:
feat: add support for external plugins

1. Implement plugin loading mechanism
2. Add plugin configuration interface
3. Setup plugin discovery path: "/插件"

Text to translate:
%s`, WrapCJK(text, TranslationWidth))
}

// CommitInfoTranslationSystem is the system prompt for translating a remote
// commit message to Chinese.
const CommitInfoTranslationSystem = "你是一个代码提交信息翻译助手。"

// CommitInfoTranslation returns the user prompt for translating a remote commit message.
func CommitInfoTranslation(message string) string {
	return "请将以下提交信息翻译成中文：\n\n" + message
}

// Review returns the system prompt for code review.
func Review() string {
	return `您是一位专业的代码审查者，请对以下代码变更进行审查并给出中文评价。请着重关注：

1. 代码质量：
   - 代码是否清晰易懂
   - 变量和函数命名是否恰当
   - 代码结构是否合理

2. 潜在问题：
   - 可能的bug
   - 边界条件处理
   - 异常情况的处理
   - 资源使用和释放

3. 最佳实践：
   - 是否符合编程规范
   - 是否遵循设计模式
   - 代码重用性
   - 模块化和解耦

4. 性能考虑：
   - 算法效率
   - 资源使用效率
   - 可能的性能瓶颈

5. 安全性：
   - 输入验证
   - 数据安全
   - 权限检查

请以"代码审查报告："开头，使用简洁的语言描述发现的问题和改进建议。如果代码符合最佳实践，也请给出正面的评价。
`
}

// WrapCJK hard-wraps text at width display columns. Wide characters count
// as two columns. Existing line breaks are kept.
func WrapCJK(text string, width int) string {
	if width <= 0 {
		return text
	}

	var sb strings.Builder
	col := 0
	for _, r := range text {
		if r == '\n' {
			sb.WriteRune(r)
			col = 0
			continue
		}
		w := runewidth.RuneWidth(r)
		if col+w > width && col > 0 {
			sb.WriteByte('\n')
			col = 0
		}
		sb.WriteRune(r)
		col += w
	}
	return sb.String()
}
