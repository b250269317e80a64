package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// SourceUnit is one submitted piece of Python source, captured once per
// review and immutable afterwards.
type SourceUnit struct {
	Raw       string `json:"raw"`
	LineCount int    `json:"line_count"`
}

func NewSourceUnit(raw string) SourceUnit {
	return SourceUnit{
		Raw:       raw,
		LineCount: len(strings.Split(raw, "\n")),
	}
}

// Hash returns a stable fingerprint of the submission, used to correlate
// history entries across attempts.
func (s SourceUnit) Hash() string {
	sum := md5.Sum([]byte(s.Raw))
	return hex.EncodeToString(sum[:])
}

// FunctionInfo describes a single function definition found in the source,
// including nested ones.
type FunctionInfo struct {
	Name             string   `json:"name"`
	Params           []string `json:"params"`
	Line             int      `json:"line"`
	EndLine          int      `json:"end_line"`
	HasDocstring     bool     `json:"has_docstring"`
	IsAsync          bool     `json:"is_async"`
	Decorators       []string `json:"decorators,omitempty"`
	DocstringExcerpt string   `json:"docstring_excerpt,omitempty"`
}

// IsPublic reports whether the function should be exercised by the test
// harness: not underscore-prefixed and not the conventional entry point.
func (f FunctionInfo) IsPublic() bool {
	return !strings.HasPrefix(f.Name, "_") && f.Name != "main"
}

// ClassInfo describes a class definition and its directly-declared methods.
type ClassInfo struct {
	Name         string   `json:"name"`
	Line         int      `json:"line"`
	Methods      []string `json:"methods"`
	HasDocstring bool     `json:"has_docstring"`
	Bases        []string `json:"bases,omitempty"`
}

// Import kinds.
const (
	ImportPlain = "import"
	ImportFrom  = "from_import"
)

// ImportInfo describes one import statement.
type ImportInfo struct {
	Module string   `json:"module"`
	Alias  string   `json:"alias,omitempty"`
	Kind   string   `json:"kind"`
	Names  []string `json:"names,omitempty"`
	Level  int      `json:"level,omitempty"`
}

// Metrics holds the aggregate numbers derived from a structural walk.
type Metrics struct {
	LineCount         int     `json:"line_count"`
	FunctionCount     int     `json:"function_count"`
	ClassCount        int     `json:"class_count"`
	ImportCount       int     `json:"import_count"`
	HasMainFunction   bool    `json:"has_main_function"`
	HasMainGuard      bool    `json:"has_main_guard"`
	AvgFunctionLength float64 `json:"average_function_length"`
}

// StructuralSummary is the full structural inventory of one submission.
// Created once by the analyzer and read-only afterwards.
type StructuralSummary struct {
	Functions []FunctionInfo `json:"functions"`
	Classes   []ClassInfo    `json:"classes"`
	Imports   []ImportInfo   `json:"imports"`
	Metrics   Metrics        `json:"metrics"`
}

// StyleIssue is a single style violation located by line and column.
type StyleIssue struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StyleReport holds the outcome of a style scan. Score and IssueCount
// always reflect the untruncated violation total even though Issues is
// capped for display.
type StyleReport struct {
	Status     string       `json:"status"`
	Score      int          `json:"score"`
	IssueCount int          `json:"issue_count"`
	Issues     []StyleIssue `json:"issues"`
	Error      string       `json:"error,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ComputeStyleScore applies the flat linear deduction model with a floor at
// zero. The input is the full issue count, never the truncated one.
func ComputeStyleScore(issueCount, deductionPerIssue int) int {
	score := 100 - issueCount*deductionPerIssue
	if score < 0 {
		return 0
	}
	return score
}

// GradeFor maps a 0-100 score to a letter grade for display.
func GradeFor(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// VerifyExecutesOnly is the sentinel expected value for generic test cases:
// the harness only confirms the call completes without raising.
const VerifyExecutesOnly = "verify-executes-only"

// TestCase is one derived (input, expected) pair for a function.
type TestCase struct {
	Input       []any  `json:"input"`
	Expected    any    `json:"expected"`
	Description string `json:"description"`
}

// ExecutionOnly reports whether the case only checks that the call returns.
func (c TestCase) ExecutionOnly() bool {
	s, ok := c.Expected.(string)
	return ok && s == VerifyExecutesOnly
}

// CaseOutcome is the recorded result of a single harness test case.
type CaseOutcome struct {
	Function      string `json:"function"`
	Case          int    `json:"case"`
	Passed        bool   `json:"passed"`
	Result        string `json:"result,omitempty"`
	Expected      string `json:"expected,omitempty"`
	Input         string `json:"input"`
	Error         string `json:"error,omitempty"`
	ErrorType     string `json:"error_type,omitempty"`
	ExecutionOnly bool   `json:"execution_only,omitempty"`
	Description   string `json:"description,omitempty"`
}

// TestExecutionResult aggregates harness outcomes. PassRate is defined as
// 100 when no tests ran (the vacuous-pass convention).
type TestExecutionResult struct {
	Passed          int           `json:"passed"`
	Failed          int           `json:"failed"`
	Total           int           `json:"total"`
	PassRate        float64       `json:"pass_rate"`
	Details         []CaseOutcome `json:"details"`
	ExecutionErrors []string      `json:"execution_errors"`
	Error           string        `json:"error,omitempty"`
}

// ReviewReport is the assembled output of one full review pipeline run.
// Timestamp and hashes are report metadata; they never leak into the
// generated harness text, which stays deterministic.
type ReviewReport struct {
	ID         string               `json:"id"`
	Timestamp  time.Time            `json:"timestamp"`
	CommitHash string               `json:"commit_hash,omitempty"`
	SourceHash string               `json:"source_hash"`
	LineCount  int                  `json:"line_count"`
	Structure  *StructuralSummary   `json:"structure"`
	Style      StyleReport          `json:"style"`
	Harness    string               `json:"harness,omitempty"`
	Tests      *TestExecutionResult `json:"tests,omitempty"`
	Attempt    int                  `json:"attempt,omitempty"`
	ScoreDelta int                  `json:"score_delta,omitempty"`
}

// ReviewEntry is one row of persisted review history. ReportJSON holds the
// full serialized report for later inspection; the scalar columns exist so
// progress queries never need to decode it.
type ReviewEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	SourceHash string    `json:"source_hash"`
	CommitHash string    `json:"commit_hash,omitempty"`
	StyleScore int       `json:"style_score"`
	IssueCount int       `json:"issue_count"`
	PassRate   float64   `json:"pass_rate"`
	Attempt    int       `json:"attempt"`
	ReportJSON string    `json:"-"`
}
