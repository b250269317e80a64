// Package style implements domain.StyleChecker with a pycodestyle-flavored
// rule engine over raw source text.
//
// The engine scans physical lines top to bottom and reports violations in
// encounter order. It intentionally covers the rule families that matter
// for short educational submissions rather than the full pycodestyle
// catalog.
package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pyreview/pyreview/internal/domain"
)

// Checker is stateless; all tunables come in through the ReviewConfig.
type Checker struct{}

func New() *Checker { return &Checker{} }

// Check scans the source and computes the style score. A failure inside the
// rule engine never propagates: the report degrades to a zero score with
// the error message recorded, so a broken scan cannot block the pipeline.
func (c *Checker) Check(source string, cfg domain.ReviewConfig) (report domain.StyleReport) {
	defer func() {
		if r := recover(); r != nil {
			report = domain.StyleReport{
				Status: domain.StatusError,
				Score:  0,
				Issues: []domain.StyleIssue{},
				Error:  fmt.Sprintf("style check failed: %v", r),
			}
		}
	}()

	issues := scan(source, cfg)

	kept := issues[:0]
	for _, issue := range issues {
		if !cfg.IsIgnored(issue.Code) {
			kept = append(kept, issue)
		}
	}

	total := len(kept)
	display := kept
	if len(display) > cfg.MaxDetailOutcomes {
		display = display[:cfg.MaxDetailOutcomes]
	}
	if display == nil {
		display = []domain.StyleIssue{}
	}

	return domain.StyleReport{
		Status:     domain.StatusSuccess,
		Score:      domain.ComputeStyleScore(total, cfg.DeductionPerIssue),
		IssueCount: total,
		Issues:     display,
	}
}

// scanState carries the little cross-line context the rules need.
type scanState struct {
	inTriple    bool
	tripleQuote string
	parenDepth  int
	blankCount  int
	prevCode    string // trimmed text of the previous code line
	prevIndent  int
	seenCode    bool
}

func scan(source string, cfg domain.ReviewConfig) []domain.StyleIssue {
	var issues []domain.StyleIssue
	st := &scanState{}

	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		lineNum := i + 1

		if st.inTriple {
			st.consumeTripleTail(raw)
			continue
		}

		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			if len(raw) > 0 {
				issues = append(issues, issue(lineNum, 1, "W293", "whitespace on blank line"))
			}
			st.blankCount++
			continue
		}

		startDepth := st.parenDepth
		masked, commentIdx := st.maskLine(raw)

		lineIssues := checkLine(lineCtx{
			raw:        raw,
			masked:     masked,
			trimmed:    trimmed,
			commentIdx: commentIdx,
			lineNum:    lineNum,
			startDepth: startDepth,
			state:      st,
		}, cfg)

		sort.SliceStable(lineIssues, func(a, b int) bool {
			return lineIssues[a].Column < lineIssues[b].Column
		})
		issues = append(issues, lineIssues...)

		if !st.inTriple {
			st.prevCode = trimmed
			st.prevIndent = indentOf(raw)
			st.seenCode = true
		}
		st.blankCount = 0
	}

	return issues
}

func issue(line, col int, code, message string) domain.StyleIssue {
	return domain.StyleIssue{Line: line, Column: col, Code: code, Message: message}
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		if r == ' ' {
			n++
		} else if r == '\t' {
			n += 8
		} else {
			break
		}
	}
	return n
}
