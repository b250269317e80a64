package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyreview/pyreview/internal/adapters/outbound/runner"
	"github.com/pyreview/pyreview/internal/domain"
)

// fakeInterpreter writes a shell script that stands in for python3.
func fakeInterpreter(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fakepython")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func runnerWith(bin string) *runner.PythonRunner {
	cfg := domain.DefaultConfig()
	cfg.PythonBin = bin
	return runner.New(cfg, nil)
}

func TestRun_ParsesFinalJSONLine(t *testing.T) {
	bin := fakeInterpreter(t, `echo "student print output"
echo '{"passed": 2, "failed": 1, "total": 3, "pass_rate": 66.66666666666666, "details": [], "execution_errors": ["add case 3: boom"]}'
`)

	result, err := runnerWith(bin).Run(context.Background(), "ignored")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total)
	assert.InDelta(t, 66.67, result.PassRate, 0.01)
	assert.Equal(t, []string{"add case 3: boom"}, result.ExecutionErrors)
}

func TestRun_NoJSONInOutput(t *testing.T) {
	bin := fakeInterpreter(t, `echo "no json here"`)

	_, err := runnerWith(bin).Run(context.Background(), "ignored")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no JSON result object")
}

func TestRun_NonZeroExit(t *testing.T) {
	bin := fakeInterpreter(t, `echo "SyntaxError: invalid syntax" >&2
exit 1`)

	_, err := runnerWith(bin).Run(context.Background(), "ignored")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "harness execution failed")
	assert.Contains(t, err.Error(), "SyntaxError")
}

func TestRun_Timeout(t *testing.T) {
	bin := fakeInterpreter(t, `sleep 5`)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := runnerWith(bin).Run(ctx, "ignored")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestRun_CleansUpTempScript(t *testing.T) {
	bin := fakeInterpreter(t, `echo '{"passed": 0, "failed": 0, "total": 0, "pass_rate": 100, "details": [], "execution_errors": []}'`)

	_, err := runnerWith(bin).Run(context.Background(), "print('hi')")
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "pyreview-harness-*.py"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
