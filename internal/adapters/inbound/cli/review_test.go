package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyreview/pyreview/internal/adapters/inbound/cli"
)

const (
	goodFixture    = "../../../../testdata/python/good_code.py"
	lintFixture    = "../../../../testdata/python/needs_linting.py"
	brokenFixture  = "../../../../testdata/python/syntax_error.py"
	failingFixture = "../../../../testdata/python/failing_tests.py"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestReviewCommand_JSON(t *testing.T) {
	out, err := runCommand(t, "review", goodFixture, "--json", "--no-history", "--path", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, out, `"structure"`)
	assert.Contains(t, out, `"style"`)
	assert.Contains(t, out, `"score": 100`)
	assert.Contains(t, out, `"harness"`)
}

func TestReviewCommand_DefaultTUI(t *testing.T) {
	out, err := runCommand(t, "review", goodFixture, "--no-history", "--path", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, out, "pyreview")
	assert.Contains(t, out, "100 / 100")
	assert.Contains(t, out, "A+")
}

func TestReviewCommand_CIFails(t *testing.T) {
	_, err := runCommand(t, "review", lintFixture, "--ci", "--min", "95", "--no-history", "--path", t.TempDir())
	assert.Error(t, err)
}

func TestReviewCommand_CIPasses(t *testing.T) {
	_, err := runCommand(t, "review", lintFixture, "--ci", "--min", "90", "--no-history", "--path", t.TempDir())
	assert.NoError(t, err)
}

func TestReviewCommand_SyntaxError(t *testing.T) {
	_, err := runCommand(t, "review", brokenFixture, "--no-history", "--path", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "review failed")
}

func TestReviewCommand_PersistsHistory(t *testing.T) {
	dir := t.TempDir()

	_, err := runCommand(t, "review", lintFixture, "--json", "--path", dir)
	require.NoError(t, err)
	_, err = runCommand(t, "review", goodFixture, "--json", "--path", dir)
	require.NoError(t, err)

	out, err := runCommand(t, "review", "--history", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Review History")
	assert.Contains(t, out, "100/100")
	assert.Contains(t, out, "91/100")
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := runCommand(t, "analyze", goodFixture, "--path", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, out, `"functions"`)
	assert.Contains(t, out, `"fibonacci"`)
	assert.Contains(t, out, `"function_count": 3`)
}

func TestStyleCommand(t *testing.T) {
	out, err := runCommand(t, "style", lintFixture, "--path", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, out, `"score": 91`)
	assert.Contains(t, out, `"E225"`)
	assert.Contains(t, out, `"E231"`)
}

func TestHarnessCommand(t *testing.T) {
	out, err := runCommand(t, "harness", failingFixture, "--path", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, out, "Testing add...")
	assert.Contains(t, out, "print(json.dumps(output))")
}

func TestHarnessCommand_ReadsStdin(t *testing.T) {
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetIn(bytes.NewBufferString("def multiply(a, b):\n    return a * b\n"))
	cmd.SetArgs([]string{"harness", "-", "--path", t.TempDir()})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Testing multiply...")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pyreview")
}
