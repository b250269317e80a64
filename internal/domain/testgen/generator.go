// Package testgen derives synthetic test cases from function signatures.
//
// This is deliberately a heuristic keyed on the function name and declared
// parameter count, not a type inference engine: it never inspects the
// function body. Detecting real behavior is left to actual execution and
// error capture downstream.
package testgen

import (
	"fmt"
	"strings"

	"github.com/pyreview/pyreview/internal/domain"
)

// pattern pairs a name predicate with a case template. Patterns are
// evaluated in declaration order; the first match wins.
type pattern struct {
	matches func(name string) bool
	cases   func() []domain.TestCase
}

func contains(substrings ...string) func(string) bool {
	return func(name string) bool {
		for _, s := range substrings {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}
}

var patterns = []pattern{
	{contains("add", "sum"), func() []domain.TestCase {
		return []domain.TestCase{
			{Input: []any{2, 3}, Expected: 5, Description: "Basic addition"},
			{Input: []any{0, 0}, Expected: 0, Description: "Adding zeros"},
			{Input: []any{-1, 1}, Expected: 0, Description: "Positive and negative"},
		}
	}},
	{contains("subtract"), func() []domain.TestCase {
		return []domain.TestCase{
			{Input: []any{5, 3}, Expected: 2, Description: "Basic subtraction"},
			{Input: []any{0, 0}, Expected: 0, Description: "Subtracting zeros"},
		}
	}},
	{contains("multiply"), func() []domain.TestCase {
		return []domain.TestCase{
			{Input: []any{3, 4}, Expected: 12, Description: "Basic multiplication"},
			{Input: []any{0, 5}, Expected: 0, Description: "Multiply by zero"},
		}
	}},
	{contains("fibonacci"), func() []domain.TestCase {
		return []domain.TestCase{
			{Input: []any{0}, Expected: 0, Description: "Fibonacci of 0"},
			{Input: []any{1}, Expected: 1, Description: "Fibonacci of 1"},
			{Input: []any{5}, Expected: 5, Description: "Fibonacci of 5"},
		}
	}},
	{contains("factorial"), func() []domain.TestCase {
		return []domain.TestCase{
			{Input: []any{0}, Expected: 1, Description: "Factorial of 0"},
			{Input: []any{5}, Expected: 120, Description: "Factorial of 5"},
		}
	}},
	{contains("prime"), func() []domain.TestCase {
		return []domain.TestCase{
			{Input: []any{2}, Expected: true, Description: "2 is prime"},
			{Input: []any{4}, Expected: false, Description: "4 is not prime"},
		}
	}},
}

// Cases generates up to maxCases test cases for a function. Dispatch is a
// case-insensitive substring match on the name, falling back to generic
// verify-executes-only cases keyed on the parameter count.
func Cases(functionName string, params []string, maxCases int) []domain.TestCase {
	if maxCases <= 0 {
		maxCases = 3
	}

	lower := strings.ToLower(functionName)
	var cases []domain.TestCase
	for _, p := range patterns {
		if p.matches(lower) {
			cases = p.cases()
			break
		}
	}
	if cases == nil {
		cases = genericCases(len(params))
	}

	if len(cases) > maxCases {
		cases = cases[:maxCases]
	}
	return cases
}

// genericCases uses small integer placeholders; the harness only verifies
// the call completes without raising.
func genericCases(paramCount int) []domain.TestCase {
	switch paramCount {
	case 0:
		return []domain.TestCase{
			{Input: []any{}, Expected: domain.VerifyExecutesOnly, Description: "No arguments"},
		}
	case 1:
		return []domain.TestCase{
			{Input: []any{1}, Expected: domain.VerifyExecutesOnly, Description: "Single argument"},
			{Input: []any{0}, Expected: domain.VerifyExecutesOnly, Description: "Zero input"},
		}
	default:
		input := make([]any, paramCount)
		for i := range input {
			input[i] = 1
		}
		return []domain.TestCase{
			{Input: input, Expected: domain.VerifyExecutesOnly,
				Description: fmt.Sprintf("%d arguments", paramCount)},
		}
	}
}
