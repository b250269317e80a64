package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pyreview/pyreview/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()

	assert.Equal(t, 10000, cfg.MaxSourceChars)
	assert.Equal(t, 100, cfg.MaxLineLength)
	assert.Equal(t, []string{"E501", "W503"}, cfg.IgnoreRules)
	assert.Equal(t, 3, cfg.DeductionPerIssue)
	assert.Equal(t, 3, cfg.MaxCasesPerFunction)
	assert.Equal(t, 10, cfg.MaxDetailOutcomes)
	assert.Equal(t, 5, cfg.MaxExecutionErrors)
	assert.Equal(t, "python3", cfg.PythonBin)
}

func TestConfigValidate(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.IgnoreRules = []string{"E501", "bogus"}
	assert.Error(t, cfg.Validate())

	cfg = domain.DefaultConfig()
	cfg.MaxLineLength = -1
	assert.Error(t, cfg.Validate())

	cfg = domain.DefaultConfig()
	cfg.DeductionPerIssue = -3
	assert.Error(t, cfg.Validate())
}

func TestConfigIsIgnored(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.True(t, cfg.IsIgnored("E501"))
	assert.True(t, cfg.IsIgnored("W503"))
	assert.False(t, cfg.IsIgnored("E225"))
}

func TestConfigRunTimeout(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, 30*time.Second, cfg.RunTimeout())

	cfg.RunTimeoutSeconds = 5
	assert.Equal(t, 5*time.Second, cfg.RunTimeout())

	cfg.RunTimeoutSeconds = 0
	assert.Equal(t, 30*time.Second, cfg.RunTimeout())
}
