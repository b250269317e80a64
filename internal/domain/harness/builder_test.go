package harness_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyreview/pyreview/internal/domain"
	"github.com/pyreview/pyreview/internal/domain/harness"
)

const addSource = "def add(a, b):\n    return a + b\n"

func addFunctions() []domain.FunctionInfo {
	return []domain.FunctionInfo{
		{Name: "add", Params: []string{"a", "b"}},
	}
}

func TestBuild_EmbedsSourceVerbatim(t *testing.T) {
	b := harness.NewBuilder(domain.DefaultConfig())

	script, err := b.Build(addSource, addFunctions())
	require.NoError(t, err)

	assert.Contains(t, script, "# --- submitted code under review ---\n"+addSource+"# --- end submitted code ---")
	assert.Contains(t, script, "import json")
	assert.Contains(t, script, "import sys")
	assert.Contains(t, script, "print(json.dumps(output))")
}

func TestBuild_IsDeterministic(t *testing.T) {
	b := harness.NewBuilder(domain.DefaultConfig())

	first, err := b.Build(addSource, addFunctions())
	require.NoError(t, err)
	second, err := b.Build(addSource, addFunctions())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuild_KnownFunctionCases(t *testing.T) {
	b := harness.NewBuilder(domain.DefaultConfig())

	script, err := b.Build(addSource, addFunctions())
	require.NoError(t, err)

	assert.Contains(t, script, "print('Testing add...', file=sys.stderr)")
	assert.Contains(t, script, "test_input = [2, 3]")
	assert.Contains(t, script, "expected = 5")
	assert.Contains(t, script, "test_input = [-1, 1]")
	assert.Contains(t, script, "'passed': result == expected,")
	assert.Contains(t, script, "except Exception as e:")
}

func TestBuild_ExecutionOnlyCases(t *testing.T) {
	b := harness.NewBuilder(domain.DefaultConfig())

	script, err := b.Build("def mystery(x):\n    return x\n",
		[]domain.FunctionInfo{{Name: "mystery", Params: []string{"x"}}})
	require.NoError(t, err)

	assert.Contains(t, script, "'execution_only': True,")
	assert.NotContains(t, script, "expected =")
}

func TestBuild_SkipsPrivateAndMain(t *testing.T) {
	b := harness.NewBuilder(domain.DefaultConfig())

	script, err := b.Build("code", []domain.FunctionInfo{
		{Name: "_helper", Params: []string{"x"}},
		{Name: "main"},
		{Name: "add", Params: []string{"a", "b"}},
	})
	require.NoError(t, err)

	assert.Contains(t, script, "Testing add...")
	assert.NotContains(t, script, "_helper(")
	assert.NotContains(t, script, "main(")
}

func TestBuild_NoFunctionsStillEmitsSummary(t *testing.T) {
	b := harness.NewBuilder(domain.DefaultConfig())

	script, err := b.Build("x = 1\n", nil)
	require.NoError(t, err)

	// A harness with zero cases reports the vacuous pass on execution.
	assert.Contains(t, script, "'pass_rate': (passed / total * 100) if total > 0 else 100,")
	assert.Contains(t, script, "print(json.dumps(output))")
	assert.NotContains(t, script, "Testing ")
}

func TestBuild_RejectsInvalidIdentifier(t *testing.T) {
	b := harness.NewBuilder(domain.DefaultConfig())

	_, err := b.Build("code", []domain.FunctionInfo{
		{Name: "evil(); import os", Params: []string{"x"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid Python identifier")
}

func TestBuild_TruncationLimitsFromConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.MaxDetailOutcomes = 7
	cfg.MaxExecutionErrors = 2
	b := harness.NewBuilder(cfg)

	script, err := b.Build(addSource, addFunctions())
	require.NoError(t, err)

	assert.Contains(t, script, "'details': test_results[:7],")
	assert.Contains(t, script, "'execution_errors': execution_errors[:2],")
}

func TestBuild_CaseCapFromConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.MaxCasesPerFunction = 1
	b := harness.NewBuilder(cfg)

	script, err := b.Build(addSource, addFunctions())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(script, "try:"))
}

func TestBuild_AppendsNewlineToUnterminatedSource(t *testing.T) {
	b := harness.NewBuilder(domain.DefaultConfig())

	script, err := b.Build("x = 1", nil)
	require.NoError(t, err)

	assert.Contains(t, script, "x = 1\n# --- end submitted code ---")
}
