package style

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fatih/camelcase"

	"github.com/pyreview/pyreview/internal/domain"
)

// lineCtx bundles everything the per-line rules need.
type lineCtx struct {
	raw        string
	masked     []rune // string contents blanked out
	trimmed    string
	commentIdx int // rune index of '#' in masked, -1 if none
	lineNum    int
	startDepth int // bracket depth at the start of the line
	state      *scanState
}

var (
	compoundKeywords = map[string]bool{
		"if": true, "elif": true, "else": true, "for": true, "while": true,
		"try": true, "except": true, "finally": true, "with": true, "class": true,
	}
	comparisonNoneRe = regexp.MustCompile(`[=!]=\s*(None|True|False)\b`)
	defNameRe        = regexp.MustCompile(`^(?:async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)`)
)

func checkLine(ctx lineCtx, cfg domain.ReviewConfig) []domain.StyleIssue {
	var out []domain.StyleIssue
	add := func(col int, code, message string) {
		out = append(out, issue(ctx.lineNum, col, code, message))
	}

	code := ctx.masked
	if ctx.commentIdx >= 0 {
		code = ctx.masked[:ctx.commentIdx]
	}
	codeText := strings.TrimSpace(string(code))
	firstWord := firstWordOf(ctx.trimmed)
	indent := indentOf(ctx.raw)

	checkTrailingWhitespace(ctx, add)
	checkLineLength(ctx, cfg, add)
	checkBlankLines(ctx, firstWord, indent, codeText, add)
	checkIndentation(ctx, indent, codeText, add)
	checkComment(ctx, codeText, add)

	if codeText != "" {
		checkCommaSpacing(ctx, code, add)
		checkOperators(ctx, code, add)
		checkComparisons(ctx, code, add)
		checkCompoundStatement(ctx, code, firstWord, add)
		checkContinuationOperator(ctx, code, add)
		checkFunctionNaming(ctx, add)
	}

	return out
}

func checkTrailingWhitespace(ctx lineCtx, add func(int, string, string)) {
	stripped := strings.TrimRight(ctx.raw, " \t")
	if stripped != ctx.raw && stripped != "" {
		add(len([]rune(stripped))+1, "W291", "trailing whitespace")
	}
}

func checkLineLength(ctx lineCtx, cfg domain.ReviewConfig, add func(int, string, string)) {
	if n := len([]rune(ctx.raw)); cfg.MaxLineLength > 0 && n > cfg.MaxLineLength {
		add(cfg.MaxLineLength+1, "E501",
			fmt.Sprintf("line too long (%d > %d characters)", n, cfg.MaxLineLength))
	}
}

func checkBlankLines(ctx lineCtx, firstWord string, indent int, codeText string, add func(int, string, string)) {
	st := ctx.state
	if ctx.startDepth > 0 || codeText == "" {
		return
	}

	if st.blankCount > 2 {
		add(1, "E303", fmt.Sprintf("too many blank lines (%d)", st.blankCount))
	}

	defLike := firstWord == "def" || firstWord == "class" || firstWord == "async" ||
		strings.HasPrefix(ctx.trimmed, "@")
	if !defLike || !st.seenCode {
		return
	}
	prevIsDecorator := strings.HasPrefix(st.prevCode, "@")

	if indent == 0 {
		if st.blankCount < 2 && !prevIsDecorator {
			add(1, "E302", fmt.Sprintf("expected 2 blank lines, got %d", st.blankCount))
		}
		return
	}

	isDef := firstWord == "def" || firstWord == "async"
	prevIsClassHeader := strings.HasPrefix(st.prevCode, "class ") && st.prevIndent < indent
	if isDef && st.blankCount == 0 && !prevIsDecorator && !prevIsClassHeader {
		add(1, "E301", "expected 1 blank line, got 0")
	}
}

func checkIndentation(ctx lineCtx, indent int, codeText string, add func(int, string, string)) {
	if ctx.startDepth > 0 || codeText == "" {
		return
	}
	if indent%4 != 0 {
		add(1, "E111", "indentation is not a multiple of four")
	}
}

func checkComment(ctx lineCtx, codeText string, add func(int, string, string)) {
	if ctx.commentIdx < 0 {
		return
	}
	comment := string(ctx.masked[ctx.commentIdx:])
	// The masked line keeps comment text intact; recover it from raw by rune
	// index so the content checks see the original characters.
	if runes := []rune(ctx.raw); ctx.commentIdx < len(runes) {
		comment = string(runes[ctx.commentIdx:])
	}

	if codeText == "" {
		// Block comment.
		if ctx.lineNum == 1 && strings.HasPrefix(comment, "#!") {
			return
		}
		if !strings.HasPrefix(comment, "# ") && comment != "#" {
			add(ctx.commentIdx+1, "E265", "block comment should start with '# '")
		}
		return
	}

	// Inline comment: at least two spaces before, content starts with '# '.
	if ctx.commentIdx < 2 ||
		ctx.masked[ctx.commentIdx-1] != ' ' || ctx.masked[ctx.commentIdx-2] != ' ' {
		add(ctx.commentIdx+1, "E261", "at least two spaces before inline comment")
	}
	if strings.HasPrefix(comment, "##") || (!strings.HasPrefix(comment, "# ") && comment != "#") {
		add(ctx.commentIdx+1, "E262", "inline comment should start with '# '")
	}
}

func checkCommaSpacing(ctx lineCtx, code []rune, add func(int, string, string)) {
	for i, r := range code {
		if r != ',' || i+1 >= len(code) {
			continue
		}
		next := code[i+1]
		if next != ' ' && next != ')' && next != ']' && next != '}' && next != ',' {
			add(i+1, "E231", "missing whitespace after ','")
		}
	}
}

// operator spacing: E225 for assignment/comparison/arrow, E226 for
// arithmetic, E227 for bitwise and shift, E228 for modulo.
func checkOperators(ctx lineCtx, code []rune, add func(int, string, string)) {
	depth := ctx.startDepth
	i := 0
	for i < len(code) {
		r := code[i]
		switch r {
		case '(', '[', '{':
			depth++
			i++
			continue
		case ')', ']', '}':
			depth--
			i++
			continue
		}

		if op, kind := operatorAt(code, i, depth); op != "" {
			tight := neighborTight(code, i, i+len(op)-1, kind)
			if tight {
				switch kind {
				case opStrict:
					add(i+1, "E225", fmt.Sprintf("missing whitespace around operator '%s'", op))
				case opArithmetic:
					add(i+1, "E226", "missing whitespace around arithmetic operator")
				case opBitwise:
					add(i+1, "E227", "missing whitespace around bitwise or shift operator")
				case opModulo:
					add(i+1, "E228", "missing whitespace around modulo operator")
				}
			}
			i += len(op)
			continue
		}
		i++
	}
}

type opKind int

const (
	opNone opKind = iota
	opStrict
	opArithmetic
	opBitwise
	opModulo
)

// operatorAt identifies the operator starting at i, longest match first.
// A bare '=' inside brackets is a keyword argument, not an operator.
func operatorAt(code []rune, i int, depth int) (string, opKind) {
	rest := string(code[i:])
	for _, op := range []string{"**=", "//=", "<<=", ">>=", "==", "!=", "<=", ">=", "->", ":=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^="} {
		if strings.HasPrefix(rest, op) {
			return op, opStrict
		}
	}
	for _, op := range []string{"**", "//"} {
		if strings.HasPrefix(rest, op) {
			return op, opArithmetic
		}
	}
	for _, op := range []string{"<<", ">>"} {
		if strings.HasPrefix(rest, op) {
			return op, opBitwise
		}
	}
	switch code[i] {
	case '=':
		if depth > 0 {
			return "", opNone
		}
		return "=", opStrict
	case '<', '>':
		return string(code[i]), opStrict
	case '+', '-', '*', '/':
		return string(code[i]), opArithmetic
	case '%':
		return "%", opModulo
	case '&', '|', '^':
		return string(code[i]), opBitwise
	}
	return "", opNone
}

// neighborTight reports whether the operator is squeezed between operand
// characters. Strict operators complain when either side lacks a space;
// the arithmetic family only when both sides are operands, which also
// rules out unary plus and minus.
func neighborTight(code []rune, start, end int, kind opKind) bool {
	var prev, next rune = ' ', ' '
	if start > 0 {
		prev = code[start-1]
	}
	if end+1 < len(code) {
		next = code[end+1]
	}

	prevOperand := isOperandEnd(prev)
	nextOperand := isOperandStart(next)

	if kind == opStrict {
		if start == 0 {
			return false
		}
		return prev != ' ' || next != ' '
	}
	return prevOperand && nextOperand
}

func isOperandEnd(r rune) bool {
	return r == '_' || r == ')' || r == ']' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isOperandStart(r rune) bool {
	return r == '_' || r == '(' || r == '[' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func checkComparisons(ctx lineCtx, code []rune, add func(int, string, string)) {
	text := string(code)
	for _, m := range comparisonNoneRe.FindAllStringSubmatchIndex(text, -1) {
		literal := text[m[2]:m[3]]
		col := len([]rune(text[:m[0]])) + 1
		if literal == "None" {
			add(col, "E711", "comparison to None should be 'if cond is None:'")
		} else {
			add(col, "E712", fmt.Sprintf("comparison to %s should be 'if cond is %s:' or 'if%s cond:'",
				literal, literal, map[string]string{"True": "", "False": " not"}[literal]))
		}
	}
}

// checkCompoundStatement flags code after the header colon of a compound
// statement (E701), or a one-line def body (E704).
func checkCompoundStatement(ctx lineCtx, code []rune, firstWord string, add func(int, string, string)) {
	isDef := firstWord == "def" || (firstWord == "async" && strings.Contains(ctx.trimmed, "def "))
	if !isDef && !compoundKeywords[firstWord] {
		return
	}

	depth := ctx.startDepth
	for i, r := range code {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ':':
			if depth == ctx.startDepth {
				if rest := strings.TrimSpace(string(code[i+1:])); rest != "" {
					if isDef {
						add(i+1, "E704", "statement on same line as def")
					} else {
						add(i+1, "E701", "multiple statements on one line (colon)")
					}
				}
				return
			}
		}
	}
}

// checkContinuationOperator flags binary operators starting a continuation
// line (W503, suppressed by default configuration).
func checkContinuationOperator(ctx lineCtx, code []rune, add func(int, string, string)) {
	if ctx.startDepth == 0 {
		return
	}
	text := strings.TrimLeft(string(code), " \t")
	col := len(code) - len([]rune(text)) + 1
	switch {
	case text == "":
		return
	case strings.HasPrefix(text, "and ") || strings.HasPrefix(text, "or "):
		add(col, "W503", "line break before binary operator")
	case strings.ContainsRune("+-*/&|", rune(text[0])) && len(text) > 1 && text[1] == ' ':
		add(col, "W503", "line break before binary operator")
	}
}

// checkFunctionNaming flags camelCase function names (N802, pep8-naming).
func checkFunctionNaming(ctx lineCtx, add func(int, string, string)) {
	m := defNameRe.FindStringSubmatch(ctx.trimmed)
	if m == nil {
		return
	}
	name := m[1]
	if strings.ToLower(name) == name {
		return
	}
	parts := camelcase.Split(name)
	suggestion := strings.ToLower(strings.Join(parts, "_"))
	col := indentOf(ctx.raw) + 1
	add(col, "N802",
		fmt.Sprintf("function name '%s' should be lowercase; consider '%s'", name, suggestion))
}

func firstWordOf(trimmed string) string {
	for i, r := range trimmed {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return trimmed[:i]
		}
	}
	return trimmed
}
