// Package config loads, validates and saves the tool configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dsswift/git-commit-helper/internal/assert"
	"github.com/dsswift/git-commit-helper/pkg/types"
)

const (
	// AppDir is the directory name under the user config dir.
	AppDir = "git-commit-helper"
	// ConfigFile is the name of the config file.
	ConfigFile = "config.json"
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "GIT_COMMIT_HELPER_CONFIG"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(defaultServiceConfigured, types.Config{})
	return v
}

// defaultServiceConfigured rejects a default service that has no entry.
func defaultServiceConfigured(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(types.Config)
	if len(cfg.Services) == 0 {
		return
	}
	if _, ok := cfg.DefaultServiceConfig(); !ok {
		sl.ReportError(cfg.DefaultService, "DefaultService", "default_service", "configured", string(cfg.DefaultService))
	}
}

// Path returns the config file path, honoring GIT_COMMIT_HELPER_CONFIG.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	return DefaultPath()
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, AppDir, ConfigFile), nil
}

// Dir returns the directory holding the config file. Logs and caches live here.
func Dir() (string, error) {
	p, err := Path()
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}

// Load reads and validates the config file.
func Load() (*types.Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates the config file at path.
// Missing optional fields keep their defaults.
func LoadFrom(path string) (*types.Config, error) {
	assert.NotEmptyString(path, "config path cannot be empty")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := types.NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if len(cfg.Services) == 0 {
		return nil, &NoServicesError{}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrNew returns the stored config or a fresh one when none exists.
func LoadOrNew() (*types.Config, error) {
	cfg, err := Load()
	if err == nil {
		return cfg, nil
	}
	var notFound *ConfigNotFoundError
	var noServices *NoServicesError
	if errors.As(err, &notFound) || errors.As(err, &noServices) {
		return types.NewConfig(), nil
	}
	return nil, err
}

// Validate checks field constraints and that the default service exists.
func Validate(cfg *types.Config) error {
	assert.NotNil(cfg, "config cannot be nil")

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			problems := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				problems = append(problems, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return &ValidationError{Problems: problems}
		}
		return fmt.Errorf("failed to validate config: %w", err)
	}
	return nil
}

// Save writes cfg to the config path.
func Save(cfg *types.Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as indented JSON, creating parent directories.
func SaveTo(path string, cfg *types.Config) error {
	assert.NotNil(cfg, "config cannot be nil")

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MaskKey hides all but the edges of a secret.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

// Masked returns a copy of cfg with secrets masked, for display.
func Masked(cfg *types.Config) *types.Config {
	out := *cfg
	out.Services = make([]types.ServiceConfig, len(cfg.Services))
	for i, s := range cfg.Services {
		s.APIKey = MaskKey(s.APIKey)
		out.Services[i] = s
	}
	if cfg.Gerrit != nil {
		g := *cfg.Gerrit
		g.Token = MaskKey(g.Token)
		g.Password = MaskKey(g.Password)
		out.Gerrit = &g
	}
	return &out
}

// Error types for configuration issues.

// ConfigNotFoundError indicates the config file doesn't exist.
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s. Run 'git-commit-helper config' first", e.Path)
}

// NoServicesError indicates a config without any AI service.
type NoServicesError struct{}

func (e *NoServicesError) Error() string {
	return "no AI service configured. Run 'git-commit-helper service add'"
}

// ServiceNotFoundError indicates a service kind missing from the config.
type ServiceNotFoundError struct {
	Service types.ServiceKind
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("service %s is not configured", e.Service)
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}
