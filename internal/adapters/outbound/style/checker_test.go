package style_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyreview/pyreview/internal/adapters/outbound/style"
	"github.com/pyreview/pyreview/internal/domain"
)

func codesOf(report domain.StyleReport) []string {
	codes := make([]string, 0, len(report.Issues))
	for _, i := range report.Issues {
		codes = append(codes, i.Code)
	}
	return codes
}

func TestCheck_CleanCode(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("../../../../testdata/python", "good_code.py"))
	require.NoError(t, err)

	report := style.New().Check(string(data), domain.DefaultConfig())

	assert.Equal(t, domain.StatusSuccess, report.Status)
	assert.Equal(t, 100, report.Score)
	assert.Equal(t, 0, report.IssueCount)
	assert.Empty(t, report.Issues)
}

func TestCheck_MissingSpacing(t *testing.T) {
	source := "def calculate(a,b):\n    x=a+b\n    return x\n"

	report := style.New().Check(source, domain.DefaultConfig())

	assert.Equal(t, domain.StatusSuccess, report.Status)
	assert.ElementsMatch(t, []string{"E231", "E225", "E226"}, codesOf(report))
	assert.Equal(t, 3, report.IssueCount)
	assert.Equal(t, 91, report.Score)
}

func TestCheck_ArithmeticIsE226NotE225(t *testing.T) {
	report := style.New().Check("result = a+b\n", domain.DefaultConfig())

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "E226", report.Issues[0].Code)
}

func TestCheck_IssueLocations(t *testing.T) {
	report := style.New().Check("x=1\n", domain.DefaultConfig())

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "E225", report.Issues[0].Code)
	assert.Equal(t, 1, report.Issues[0].Line)
	assert.Equal(t, 2, report.Issues[0].Column)
}

func TestCheck_TrailingWhitespace(t *testing.T) {
	report := style.New().Check("x = 1  \n", domain.DefaultConfig())
	assert.Equal(t, []string{"W291"}, codesOf(report))
}

func TestCheck_WhitespaceOnBlankLine(t *testing.T) {
	report := style.New().Check("x = 1\n   \ny = 2\n", domain.DefaultConfig())
	assert.Equal(t, []string{"W293"}, codesOf(report))
}

func TestCheck_BlankLineRules(t *testing.T) {
	t.Run("missing blank lines before def", func(t *testing.T) {
		source := "x = 1\ndef f():\n    pass\n"
		report := style.New().Check(source, domain.DefaultConfig())
		assert.Contains(t, codesOf(report), "E302")
	})

	t.Run("two blank lines is fine", func(t *testing.T) {
		source := "x = 1\n\n\ndef f():\n    pass\n"
		report := style.New().Check(source, domain.DefaultConfig())
		assert.NotContains(t, codesOf(report), "E302")
	})

	t.Run("too many blank lines", func(t *testing.T) {
		source := "x = 1\n\n\n\ny = 2\n"
		report := style.New().Check(source, domain.DefaultConfig())
		assert.Contains(t, codesOf(report), "E303")
	})

	t.Run("decorator does not need blank lines after it", func(t *testing.T) {
		source := "import functools\n\n\n@functools.cache\ndef f():\n    pass\n"
		report := style.New().Check(source, domain.DefaultConfig())
		assert.NotContains(t, codesOf(report), "E302")
	})
}

func TestCheck_Indentation(t *testing.T) {
	source := "if True:\n  x = 1\n"
	report := style.New().Check(source, domain.DefaultConfig())
	assert.Contains(t, codesOf(report), "E111")
}

func TestCheck_Comments(t *testing.T) {
	t.Run("block comment without space", func(t *testing.T) {
		report := style.New().Check("#comment\n", domain.DefaultConfig())
		assert.Equal(t, []string{"E265"}, codesOf(report))
	})

	t.Run("shebang is exempt", func(t *testing.T) {
		report := style.New().Check("#!/usr/bin/env python3\n", domain.DefaultConfig())
		assert.Empty(t, report.Issues)
	})

	t.Run("inline comment needs two spaces", func(t *testing.T) {
		report := style.New().Check("x = 1 # comment\n", domain.DefaultConfig())
		assert.Equal(t, []string{"E261"}, codesOf(report))
	})

	t.Run("proper inline comment", func(t *testing.T) {
		report := style.New().Check("x = 1  # comment\n", domain.DefaultConfig())
		assert.Empty(t, report.Issues)
	})
}

func TestCheck_ComparisonRules(t *testing.T) {
	report := style.New().Check("if x == None:\n    pass\n", domain.DefaultConfig())
	assert.Contains(t, codesOf(report), "E711")

	report = style.New().Check("if x == True:\n    pass\n", domain.DefaultConfig())
	assert.Contains(t, codesOf(report), "E712")
}

func TestCheck_CompoundStatements(t *testing.T) {
	report := style.New().Check("if True: x = 1\n", domain.DefaultConfig())
	assert.Contains(t, codesOf(report), "E701")

	report = style.New().Check("def f(x): return x\n", domain.DefaultConfig())
	assert.Contains(t, codesOf(report), "E704")
}

func TestCheck_FunctionNaming(t *testing.T) {
	report := style.New().Check("def calculateTotal(a, b):\n    return a + b\n", domain.DefaultConfig())

	require.Contains(t, codesOf(report), "N802")
	var msg string
	for _, i := range report.Issues {
		if i.Code == "N802" {
			msg = i.Message
		}
	}
	assert.Contains(t, msg, "calculate_total")
}

func TestCheck_StringContentsAreNotScanned(t *testing.T) {
	report := style.New().Check("s = 'a,b=c+d'\n", domain.DefaultConfig())
	assert.Empty(t, report.Issues)
}

func TestCheck_KeywordArgumentsAreNotOperators(t *testing.T) {
	report := style.New().Check("f(x=1, y=2)\n", domain.DefaultConfig())
	assert.Empty(t, report.Issues)
}

func TestCheck_IgnoredRules(t *testing.T) {
	long := "x = 1  # " + strings.Repeat("a", 120) + "\n"

	// E501 is suppressed by default.
	report := style.New().Check(long, domain.DefaultConfig())
	assert.NotContains(t, codesOf(report), "E501")

	// Re-enable it by clearing the ignore list.
	cfg := domain.DefaultConfig()
	cfg.IgnoreRules = nil
	report = style.New().Check(long, cfg)
	assert.Contains(t, codesOf(report), "E501")
}

func TestCheck_TruncatesDisplayButScoresAll(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 15; i++ {
		b.WriteString("x=1\n")
	}

	report := style.New().Check(b.String(), domain.DefaultConfig())

	assert.Equal(t, 15, report.IssueCount)
	assert.Len(t, report.Issues, 10)
	// Score reflects all 15 issues, not the truncated display.
	assert.Equal(t, 55, report.Score)
}

func TestCheck_ScoreFloorsAtZero(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("x=1\n")
	}

	report := style.New().Check(b.String(), domain.DefaultConfig())

	assert.Equal(t, 0, report.Score)
	assert.Equal(t, 40, report.IssueCount)
}

func TestCheck_EmptySource(t *testing.T) {
	report := style.New().Check("", domain.DefaultConfig())

	assert.Equal(t, domain.StatusSuccess, report.Status)
	assert.Equal(t, 100, report.Score)
	assert.Empty(t, report.Issues)
}

func TestCheck_DocstringsAreSkipped(t *testing.T) {
	source := "def f():\n    \"\"\"Doc with x=1 and a,b inside.\"\"\"\n    return 1\n"
	report := style.New().Check(source, domain.DefaultConfig())
	assert.Empty(t, report.Issues)
}
