// Package parser implements domain.SourceAnalyzer for Python source using
// tree-sitter with the Python grammar.
package parser

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/pyreview/pyreview/internal/domain"
)

// PythonAnalyzer parses Python source into a structural summary. A fresh
// tree-sitter parser is created per call; instances hold no mutable state,
// so concurrent submissions never share anything.
type PythonAnalyzer struct {
	language *sitter.Language
}

func New() *PythonAnalyzer {
	return &PythonAnalyzer{
		language: sitter.NewLanguage(tree_sitter_python.Language()),
	}
}

// Analyze parses the source and walks every node of the program, collecting
// functions (including nested ones), classes, and imports in source order.
// On parse failure it returns a *domain.SyntaxError carrying the exact
// failing line and offset reported by the parser.
func (a *PythonAnalyzer) Analyze(source string) (*domain.StructuralSummary, error) {
	if strings.TrimSpace(source) == "" {
		return nil, domain.ErrNoSource
	}

	p := sitter.NewParser()
	defer p.Close()
	if err := p.SetLanguage(a.language); err != nil {
		return nil, fmt.Errorf("configuring parser: %w", err)
	}

	src := []byte(source)
	tree := p.Parse(src, nil)
	if tree == nil {
		return nil, &domain.SyntaxError{Line: 1, Offset: 1, Message: "parser produced no tree"}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, firstSyntaxError(root)
	}

	c := &collector{src: src}
	c.walk(root)

	summary := &domain.StructuralSummary{
		Functions: c.functions,
		Classes:   c.classes,
		Imports:   c.imports,
		Metrics: domain.Metrics{
			LineCount:         len(strings.Split(source, "\n")),
			FunctionCount:     len(c.functions),
			ClassCount:        len(c.classes),
			ImportCount:       len(c.imports),
			HasMainFunction:   hasFunction(c.functions, "main"),
			HasMainGuard:      strings.Contains(source, "__main__"),
			AvgFunctionLength: avgFunctionLength(c.functions),
		},
	}
	return summary, nil
}

// firstSyntaxError locates the first error or missing node in source order.
func firstSyntaxError(root *sitter.Node) *domain.SyntaxError {
	node := findErrorNode(root)
	if node == nil {
		node = root
	}
	pos := node.StartPosition()
	msg := "invalid syntax"
	if node.IsMissing() {
		msg = fmt.Sprintf("missing %s", node.Kind())
	}
	return &domain.SyntaxError{
		Line:    int(pos.Row) + 1,
		Offset:  int(pos.Column) + 1,
		Message: msg,
	}
}

func findErrorNode(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if found := findErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}

type collector struct {
	src       []byte
	functions []domain.FunctionInfo
	classes   []domain.ClassInfo
	imports   []domain.ImportInfo
}

func (c *collector) walk(n *sitter.Node) {
	switch n.Kind() {
	case "function_definition":
		c.functions = append(c.functions, c.functionInfo(n))
	case "class_definition":
		c.classes = append(c.classes, c.classInfo(n))
	case "import_statement":
		c.collectPlainImports(n)
	case "import_from_statement":
		c.collectFromImport(n)
	}
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child != nil {
			c.walk(child)
		}
	}
}

func (c *collector) text(n *sitter.Node) string {
	return n.Utf8Text(c.src)
}

func (c *collector) functionInfo(n *sitter.Node) domain.FunctionInfo {
	info := domain.FunctionInfo{
		Line:    int(n.StartPosition().Row) + 1,
		EndLine: int(n.EndPosition().Row) + 1,
	}
	if name := n.ChildByFieldName("name"); name != nil {
		info.Name = c.text(name)
	}
	info.Params = c.parameterNames(n.ChildByFieldName("parameters"))
	info.IsAsync = hasKeywordChild(n, "async")
	info.Decorators = c.decoratorNames(n)

	if doc := c.docstring(n.ChildByFieldName("body")); doc != "" {
		info.HasDocstring = true
		info.DocstringExcerpt = excerpt(doc, 50)
	}
	return info
}

// parameterNames returns declared parameter names in order. Starred and
// keyword-splat parameters are excluded, matching the positional-argument
// view the test generator works from.
func (c *collector) parameterNames(params *sitter.Node) []string {
	if params == nil {
		return nil
	}
	var names []string
	for i := uint(0); i < params.NamedChildCount(); i++ {
		p := params.NamedChild(i)
		if p == nil {
			continue
		}
		switch p.Kind() {
		case "identifier":
			names = append(names, c.text(p))
		case "typed_parameter":
			if id := p.NamedChild(0); id != nil && id.Kind() == "identifier" {
				names = append(names, c.text(id))
			}
		case "default_parameter", "typed_default_parameter":
			if id := p.ChildByFieldName("name"); id != nil && id.Kind() == "identifier" {
				names = append(names, c.text(id))
			}
		}
	}
	return names
}

// decoratorNames collects simple (non-parameterized) decorator names from a
// wrapping decorated_definition, if any.
func (c *collector) decoratorNames(n *sitter.Node) []string {
	parent := n.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return nil
	}
	var names []string
	for i := uint(0); i < parent.NamedChildCount(); i++ {
		d := parent.NamedChild(i)
		if d == nil || d.Kind() != "decorator" {
			continue
		}
		if expr := d.NamedChild(0); expr != nil && expr.Kind() == "identifier" {
			names = append(names, c.text(expr))
		}
	}
	return names
}

func (c *collector) classInfo(n *sitter.Node) domain.ClassInfo {
	info := domain.ClassInfo{
		Line: int(n.StartPosition().Row) + 1,
	}
	if name := n.ChildByFieldName("name"); name != nil {
		info.Name = c.text(name)
	}
	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		for i := uint(0); i < supers.NamedChildCount(); i++ {
			if base := supers.NamedChild(i); base != nil && base.Kind() == "identifier" {
				info.Bases = append(info.Bases, c.text(base))
			}
		}
	}

	body := n.ChildByFieldName("body")
	info.Methods = c.methodNames(body)
	if doc := c.docstring(body); doc != "" {
		info.HasDocstring = true
	}
	return info
}

// methodNames lists directly-declared methods in declaration order,
// unwrapping decorated definitions.
func (c *collector) methodNames(body *sitter.Node) []string {
	if body == nil {
		return nil
	}
	var methods []string
	for i := uint(0); i < body.NamedChildCount(); i++ {
		item := body.NamedChild(i)
		if item == nil {
			continue
		}
		if item.Kind() == "decorated_definition" {
			item = item.ChildByFieldName("definition")
			if item == nil {
				continue
			}
		}
		if item.Kind() != "function_definition" {
			continue
		}
		if name := item.ChildByFieldName("name"); name != nil {
			methods = append(methods, c.text(name))
		}
	}
	return methods
}

func (c *collector) collectPlainImports(n *sitter.Node) {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			c.imports = append(c.imports, domain.ImportInfo{
				Module: c.text(child),
				Kind:   domain.ImportPlain,
			})
		case "aliased_import":
			imp := domain.ImportInfo{Kind: domain.ImportPlain}
			if name := child.ChildByFieldName("name"); name != nil {
				imp.Module = c.text(name)
			}
			if alias := child.ChildByFieldName("alias"); alias != nil {
				imp.Alias = c.text(alias)
			}
			c.imports = append(c.imports, imp)
		}
	}
}

func (c *collector) collectFromImport(n *sitter.Node) {
	imp := domain.ImportInfo{Kind: domain.ImportFrom}

	module := n.ChildByFieldName("module_name")
	if module != nil {
		text := c.text(module)
		for strings.HasPrefix(text, ".") {
			imp.Level++
			text = text[1:]
		}
		imp.Module = text
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || (module != nil && child.Id() == module.Id()) {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			imp.Names = append(imp.Names, c.text(child))
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				imp.Names = append(imp.Names, c.text(name))
			}
		case "wildcard_import":
			imp.Names = append(imp.Names, "*")
		}
	}

	c.imports = append(c.imports, imp)
}

// docstring returns the content of a body's leading string expression, or
// "" when the first statement is not a string literal.
func (c *collector) docstring(body *sitter.Node) string {
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" {
		return ""
	}
	str := first.NamedChild(0)
	if str == nil || str.Kind() != "string" {
		return ""
	}
	for i := uint(0); i < str.NamedChildCount(); i++ {
		if part := str.NamedChild(i); part != nil && part.Kind() == "string_content" {
			return c.text(part)
		}
	}
	// Empty docstring like """" still counts as documented.
	return " "
}

func hasKeywordChild(n *sitter.Node, keyword string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil && child.Kind() == keyword {
			return true
		}
	}
	return false
}

func hasFunction(functions []domain.FunctionInfo, name string) bool {
	for _, f := range functions {
		if f.Name == name {
			return true
		}
	}
	return false
}

// avgFunctionLength averages inclusive first-to-last line spans, counting
// only functions with resolvable positions. Returns 0.0 when none qualify.
func avgFunctionLength(functions []domain.FunctionInfo) float64 {
	var total, count int
	for _, f := range functions {
		if f.Line > 0 && f.EndLine >= f.Line {
			total += f.EndLine - f.Line + 1
			count++
		}
	}
	if count == 0 {
		return 0.0
	}
	return float64(total) / float64(count)
}

func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
