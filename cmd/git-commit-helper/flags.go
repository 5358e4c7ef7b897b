package main

import (
	"fmt"
	"strings"

	"github.com/dsswift/git-commit-helper/pkg/types"
)

// outputFormat is the --output flag of the show command: yaml or json.
type outputFormat string

const (
	outputYAML outputFormat = "yaml"
	outputJSON outputFormat = "json"
)

func (o *outputFormat) Set(s string) error {
	switch v := outputFormat(strings.ToLower(strings.TrimSpace(s))); v {
	case outputYAML, outputJSON:
		*o = v
		return nil
	}
	return fmt.Errorf("invalid output format %q: must be yaml or json", s)
}

func (o *outputFormat) String() string { return string(*o) }
func (o *outputFormat) Type() string   { return "format" }

// commitFlags are the options of the commit command.
type commitFlags struct {
	commitType  string
	message     string
	all         bool
	amend       bool
	issues      []string
	onlyChinese bool
	onlyEnglish bool
	noInfluence bool
	noLog       bool
	noReview    bool
	dryRun      bool
}

// language resolves the message language from the flags and the config.
func (f commitFlags) language(cfg *types.Config) types.Language {
	switch {
	case f.onlyChinese:
		return types.LanguageChinese
	case f.onlyEnglish:
		return types.LanguageEnglish
	default:
		return cfg.EffectiveLanguage()
	}
}
