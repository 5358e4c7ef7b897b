package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dsswift/git-commit-helper/internal/config"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

// writeConfig prints cfg with secrets masked in the given format.
func writeConfig(w io.Writer, cfg *types.Config, format outputFormat) error {
	masked := config.Masked(cfg)

	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(masked, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(masked); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return enc.Close()
	}
}

// serviceLines renders the configured services for list and show.
func serviceLines(cfg *types.Config) []string {
	lines := make([]string, len(cfg.Services))
	for i, s := range cfg.Services {
		suffix := ""
		if s.Service == cfg.DefaultService {
			suffix = " (默认)"
		}
		lines[i] = fmt.Sprintf("[%d] %s%s", i+1, s.Service, suffix)
	}
	return lines
}

func enabledLabel(on bool) string {
	if on {
		return "已启用"
	}
	return "已禁用"
}
