package domain

import (
	"fmt"
	"regexp"
	"time"
)

// ReviewConfig is the explicit configuration passed into each component
// call. The core has no ambient global state, so a run is a pure function
// of (source, config).
type ReviewConfig struct {
	MaxSourceChars      int      `yaml:"max_source_chars" json:"max_source_chars"`
	MaxLineLength       int      `yaml:"max_line_length" json:"max_line_length"`
	IgnoreRules         []string `yaml:"ignore_rules" json:"ignore_rules"`
	DeductionPerIssue   int      `yaml:"deduction_per_issue" json:"deduction_per_issue"`
	MaxCasesPerFunction int      `yaml:"max_cases_per_function" json:"max_cases_per_function"`
	MaxDetailOutcomes   int      `yaml:"max_detail_outcomes" json:"max_detail_outcomes"`
	MaxExecutionErrors  int      `yaml:"max_execution_errors" json:"max_execution_errors"`
	PythonBin           string   `yaml:"python_bin" json:"python_bin"`
	RunTimeoutSeconds   int      `yaml:"run_timeout_seconds" json:"run_timeout_seconds"`
}

// DefaultConfig mirrors the reference grading setup: lines relaxed to 100
// characters, long-line and break-before-operator rules suppressed, flat
// 3-point deduction per violation.
func DefaultConfig() ReviewConfig {
	return ReviewConfig{
		MaxSourceChars:      10000,
		MaxLineLength:       100,
		IgnoreRules:         []string{"E501", "W503"},
		DeductionPerIssue:   3,
		MaxCasesPerFunction: 3,
		MaxDetailOutcomes:   10,
		MaxExecutionErrors:  5,
		PythonBin:           "python3",
		RunTimeoutSeconds:   30,
	}
}

var ruleCodeRe = regexp.MustCompile(`^[EWN][0-9]{3}$`)

// Validate catches typos in user-supplied configuration before it is merged
// over the defaults.
func (c ReviewConfig) Validate() error {
	if c.MaxSourceChars < 0 {
		return fmt.Errorf("max_source_chars must not be negative, got %d", c.MaxSourceChars)
	}
	if c.MaxLineLength < 0 {
		return fmt.Errorf("max_line_length must not be negative, got %d", c.MaxLineLength)
	}
	if c.DeductionPerIssue < 0 {
		return fmt.Errorf("deduction_per_issue must not be negative, got %d", c.DeductionPerIssue)
	}
	for _, code := range c.IgnoreRules {
		if !ruleCodeRe.MatchString(code) {
			return fmt.Errorf("unknown rule code %q in ignore_rules", code)
		}
	}
	return nil
}

// IsIgnored reports whether a rule code is suppressed by configuration.
func (c ReviewConfig) IsIgnored(code string) bool {
	for _, ignored := range c.IgnoreRules {
		if ignored == code {
			return true
		}
	}
	return false
}

// RunTimeout returns the harness execution deadline as a duration.
func (c ReviewConfig) RunTimeout() time.Duration {
	if c.RunTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RunTimeoutSeconds) * time.Second
}
