// Package harness assembles self-contained Python test scripts.
//
// The builder never mutates the submitted source. It constructs a
// structured intermediate representation (one block of cases per public
// function) and serializes it through a single audited encoder, so function
// names and literals cannot smuggle code into the generated script.
package harness

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pyreview/pyreview/internal/domain"
	"github.com/pyreview/pyreview/internal/domain/testgen"
)

// Builder emits deterministic harness scripts: for fixed inputs the output
// is identical byte for byte. No timestamps or randomness belong here;
// report metadata is the caller's concern.
type Builder struct {
	maxCases   int
	maxDetails int
	maxErrors  int
}

func NewBuilder(cfg domain.ReviewConfig) *Builder {
	return &Builder{
		maxCases:   cfg.MaxCasesPerFunction,
		maxDetails: cfg.MaxDetailOutcomes,
		maxErrors:  cfg.MaxExecutionErrors,
	}
}

// functionBlock is the intermediate representation for one function's tests.
type functionBlock struct {
	name  string
	cases []domain.TestCase
}

var pyIdentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Build returns an executable script that embeds the original source
// verbatim, runs the generated cases with per-case error isolation, and
// prints a single JSON result object on stdout.
func (b *Builder) Build(source string, functions []domain.FunctionInfo) (string, error) {
	var blocks []functionBlock
	for _, fn := range functions {
		if !fn.IsPublic() {
			continue
		}
		if !pyIdentRe.MatchString(fn.Name) {
			return "", fmt.Errorf("function name %q is not a valid Python identifier", fn.Name)
		}
		blocks = append(blocks, functionBlock{
			name:  fn.Name,
			cases: testgen.Cases(fn.Name, fn.Params, b.maxCases),
		})
	}
	return b.serialize(source, blocks)
}

func (b *Builder) serialize(source string, blocks []functionBlock) (string, error) {
	var w strings.Builder

	w.WriteString("# Automated test harness for code review\n")
	w.WriteString("import json\n")
	w.WriteString("import sys\n")
	w.WriteString("\n")
	w.WriteString("test_results = []\n")
	w.WriteString("execution_errors = []\n")
	w.WriteString("\n")
	w.WriteString("# --- submitted code under review ---\n")
	w.WriteString(source)
	if !strings.HasSuffix(source, "\n") {
		w.WriteString("\n")
	}
	w.WriteString("# --- end submitted code ---\n")

	for _, block := range blocks {
		fmt.Fprintf(&w, "\nprint(%s, file=sys.stderr)\n", pyString("Testing "+block.name+"..."))
		for i, tc := range block.cases {
			if err := b.writeCase(&w, block.name, i+1, tc); err != nil {
				return "", err
			}
		}
	}

	w.WriteString("\npassed = sum(1 for r in test_results if r.get('passed'))\n")
	w.WriteString("failed = len(test_results) - passed\n")
	w.WriteString("total = len(test_results)\n")
	w.WriteString("output = {\n")
	w.WriteString("    'passed': passed,\n")
	w.WriteString("    'failed': failed,\n")
	w.WriteString("    'total': total,\n")
	w.WriteString("    'pass_rate': (passed / total * 100) if total > 0 else 100,\n")
	fmt.Fprintf(&w, "    'details': test_results[:%d],\n", b.maxDetails)
	fmt.Fprintf(&w, "    'execution_errors': execution_errors[:%d],\n", b.maxErrors)
	w.WriteString("}\n")
	w.WriteString("print(json.dumps(output))\n")

	return w.String(), nil
}

// writeCase emits one isolated try/except invocation. A raised exception is
// recorded as a failed outcome and never aborts the remaining cases.
func (b *Builder) writeCase(w *strings.Builder, fn string, caseNum int, tc domain.TestCase) error {
	input, err := pyList(tc.Input)
	if err != nil {
		return fmt.Errorf("%s case %d: %w", fn, caseNum, err)
	}
	desc := pyString(tc.Description)

	fmt.Fprintf(w, "\n# %s case %d: %s\n", fn, caseNum, tc.Description)
	w.WriteString("try:\n")
	fmt.Fprintf(w, "    test_input = %s\n", input)
	fmt.Fprintf(w, "    result = %s(*test_input)\n", fn)

	if tc.ExecutionOnly() {
		w.WriteString("    test_results.append({\n")
		fmt.Fprintf(w, "        'function': %s,\n", pyString(fn))
		fmt.Fprintf(w, "        'case': %d,\n", caseNum)
		w.WriteString("        'passed': True,\n")
		w.WriteString("        'result': str(result)[:100],\n")
		w.WriteString("        'input': str(test_input),\n")
		w.WriteString("        'execution_only': True,\n")
		fmt.Fprintf(w, "        'description': %s,\n", desc)
		w.WriteString("    })\n")
	} else {
		expected, err := pyLiteral(tc.Expected)
		if err != nil {
			return fmt.Errorf("%s case %d: %w", fn, caseNum, err)
		}
		fmt.Fprintf(w, "    expected = %s\n", expected)
		w.WriteString("    test_results.append({\n")
		fmt.Fprintf(w, "        'function': %s,\n", pyString(fn))
		fmt.Fprintf(w, "        'case': %d,\n", caseNum)
		w.WriteString("        'passed': result == expected,\n")
		w.WriteString("        'result': str(result)[:100],\n")
		w.WriteString("        'expected': str(expected),\n")
		w.WriteString("        'input': str(test_input),\n")
		fmt.Fprintf(w, "        'description': %s,\n", desc)
		w.WriteString("    })\n")
	}

	w.WriteString("except Exception as e:\n")
	w.WriteString("    test_results.append({\n")
	fmt.Fprintf(w, "        'function': %s,\n", pyString(fn))
	fmt.Fprintf(w, "        'case': %d,\n", caseNum)
	w.WriteString("        'passed': False,\n")
	w.WriteString("        'error': str(e),\n")
	w.WriteString("        'error_type': type(e).__name__,\n")
	w.WriteString("        'input': str(test_input),\n")
	fmt.Fprintf(w, "        'description': %s,\n", desc)
	w.WriteString("    })\n")
	fmt.Fprintf(w, "    execution_errors.append(%s + str(e))\n", pyString(fn+" case "+strconv.Itoa(caseNum)+": "))

	return nil
}

// pyLiteral encodes a Go value as a Python literal. Only the small set of
// value kinds the generator produces is supported; anything else is a
// serializer error, not a silently interpolated string.
func pyLiteral(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "None", nil
	case bool:
		if t {
			return "True", nil
		}
		return "False", nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case string:
		return pyString(t), nil
	case []any:
		return pyList(t)
	default:
		return "", fmt.Errorf("unsupported literal type %T", v)
	}
}

func pyList(items []any) (string, error) {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		lit, err := pyLiteral(item)
		if err != nil {
			return "", err
		}
		parts = append(parts, lit)
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

// pyString renders a single-quoted Python string with full escaping.
func pyString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}
