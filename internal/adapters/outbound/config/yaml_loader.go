// Package config implements domain.ConfigLoader by reading .pyreview.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pyreview/pyreview/internal/domain"
)

const fileName = ".pyreview.yaml"

// YAMLLoader loads the review configuration for a working directory.
type YAMLLoader struct{}

func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .pyreview.yaml from projectPath. A missing file yields the
// defaults; explicit values are overlaid on top of them.
func (l *YAMLLoader) Load(projectPath string) (domain.ReviewConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.ReviewConfig{}, err
	}

	var user domain.ReviewConfig
	if err := yaml.Unmarshal(data, &user); err != nil {
		return domain.ReviewConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	// Validate the raw input before merging so typos surface immediately.
	if err := user.Validate(); err != nil {
		return domain.ReviewConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	return merge(domain.DefaultConfig(), user), nil
}

// merge overlays explicit (non-zero) overrides on top of the defaults.
func merge(base, override domain.ReviewConfig) domain.ReviewConfig {
	result := base
	if override.MaxSourceChars > 0 {
		result.MaxSourceChars = override.MaxSourceChars
	}
	if override.MaxLineLength > 0 {
		result.MaxLineLength = override.MaxLineLength
	}
	if override.IgnoreRules != nil {
		result.IgnoreRules = override.IgnoreRules
	}
	if override.DeductionPerIssue > 0 {
		result.DeductionPerIssue = override.DeductionPerIssue
	}
	if override.MaxCasesPerFunction > 0 {
		result.MaxCasesPerFunction = override.MaxCasesPerFunction
	}
	if override.MaxDetailOutcomes > 0 {
		result.MaxDetailOutcomes = override.MaxDetailOutcomes
	}
	if override.MaxExecutionErrors > 0 {
		result.MaxExecutionErrors = override.MaxExecutionErrors
	}
	if override.PythonBin != "" {
		result.PythonBin = override.PythonBin
	}
	if override.RunTimeoutSeconds > 0 {
		result.RunTimeoutSeconds = override.RunTimeoutSeconds
	}
	return result
}
