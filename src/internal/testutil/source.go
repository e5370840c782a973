// Package testutil builds syntax trees over literal source text for tests.
// Node ranges are located by searching the text, so fixtures stay readable.
package testutil

import (
	"fmt"
	"strings"

	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/symbols"
)

// Source is a fixture text with helpers that locate spans in it
type Source struct {
	Path string
	Text string
}

// NewSource wraps text. Panics in helpers signal a broken fixture.
func NewSource(path, text string) *Source {
	return &Source{Path: path, Text: text}
}

// Index returns the offset of the n-th (0-based) occurrence of sub
func (s *Source) Index(sub string, n int) int {
	from := 0
	for i := 0; ; i++ {
		idx := strings.Index(s.Text[from:], sub)
		if idx < 0 {
			panic(fmt.Sprintf("testutil: occurrence %d of %q not found in %s", n, sub, s.Path))
		}
		if i == n {
			return from + idx
		}
		from += idx + len(sub)
	}
}

// IndexAfter returns the offset of the first occurrence of sub at or after from
func (s *Source) IndexAfter(sub string, from int) int {
	idx := strings.Index(s.Text[from:], sub)
	if idx < 0 {
		panic(fmt.Sprintf("testutil: %q not found after %d in %s", sub, from, s.Path))
	}
	return from + idx
}

// Span returns [start, end) of the n-th occurrence of sub
func (s *Source) Span(sub string, n int) (int, int) {
	start := s.Index(sub, n)
	return start, start + len(sub)
}

// matching returns the offset of the bracket closing the one at open
func (s *Source) matching(open int) int {
	o, c := s.Text[open], closing(s.Text[open])
	depth := 0
	for i := open; i < len(s.Text); i++ {
		switch s.Text[i] {
		case o:
			depth++
		case c:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	panic(fmt.Sprintf("testutil: unbalanced %q at %d in %s", o, open, s.Path))
}

func closing(b byte) byte {
	switch b {
	case '(':
		return ')'
	case '{':
		return '}'
	case '[':
		return ']'
	}
	panic(fmt.Sprintf("testutil: %q is not a bracket", b))
}

// Node creates a node over [start, end)
func Node(kind ast.Kind, start, end int, children ...*ast.Node) *ast.Node {
	n := &ast.Node{Kind: kind, Start: start, End: end}
	return n.Add(children...)
}

// File spans the whole text
func (s *Source) File(children ...*ast.Node) *ast.Node {
	return Node(ast.KindFile, 0, len(s.Text), children...)
}

// Ident is the n-th occurrence of name resolved to def
func (s *Source) Ident(name string, n int, def *symbols.Definition) *ast.Node {
	start, end := s.Span(name, n)
	node := Node(ast.KindIdentifier, start, end)
	node.Name = name
	node.Def = def
	return node
}

// IdentAt is an identifier starting at offset
func (s *Source) IdentAt(name string, offset int, def *symbols.Definition) *ast.Node {
	node := Node(ast.KindIdentifier, offset, offset+len(name))
	node.Name = name
	node.Def = def
	return node
}

// This is the n-th `this`
func (s *Source) This(n int) *ast.Node {
	start, end := s.Span("this", n)
	node := Node(ast.KindLanguageIdentifier, start, end)
	node.Name = "this"
	return node
}

// Member joins left.right
func Member(left, right *ast.Node) *ast.Node {
	return Node(ast.KindMemberAccess, left.Start, right.End, left, right)
}

// Call builds callee(args...) with the argument list found after the callee
func (s *Source) Call(callee *ast.Node, args ...*ast.Node) *ast.Node {
	open := s.IndexAfter("(", callee.End)
	list := Node(ast.KindArguments, open, s.matching(open)+1, args...)
	return Node(ast.KindCall, callee.Start, list.End, callee, list)
}

// Str is the n-th string literal with the given contents, quotes included
func (s *Source) Str(value string, n int) *ast.Node {
	start, end := s.Span(`"`+value+`"`, n)
	node := Node(ast.KindLiteral, start, end)
	node.Literal = ast.LiteralString
	node.Value = value
	node.Type = "String"
	return node
}

// Num is the n-th numeric literal
func (s *Source) Num(value string, n int) *ast.Node {
	start, end := s.Span(value, n)
	node := Node(ast.KindLiteral, start, end)
	node.Literal = ast.LiteralNumber
	node.Value = value
	node.Type = "Number"
	return node
}

// Block is the braces starting at or after from
func (s *Source) Block(from int, children ...*ast.Node) *ast.Node {
	open := s.IndexAfter("{", from)
	return Node(ast.KindBlock, open, s.matching(open)+1, children...)
}

// Stmt extends an expression to its terminating semicolon
func (s *Source) Stmt(expr *ast.Node) *ast.Node {
	end := expr.End
	if end < len(s.Text) && s.Text[end] == ';' {
		end++
	}
	return Node(ast.KindStatement, expr.Start, end, expr)
}

// Var is `var name...;` at the n-th occurrence of "var name"
func (s *Source) Var(name string, n int, def *symbols.Definition, init *ast.Node) *ast.Node {
	start := s.Index("var "+name, n)
	id := s.IdentAt(name, start+len("var "), def)
	end := s.IndexAfter(";", id.End) + 1
	node := Node(ast.KindVariable, start, end, id, init)
	node.Name = name
	node.Def = def
	return node
}

// Params is the parameter list following from
func (s *Source) Params(from int, params ...*ast.Node) *ast.Node {
	open := s.IndexAfter("(", from)
	return Node(ast.KindParameters, open, s.matching(open)+1, params...)
}

// Function is `function name(...) {...}` at the n-th occurrence. Accessor
// keywords between "function" and the name are part of keyword.
func (s *Source) Function(keyword, name string, n int, def *symbols.Definition, params []*ast.Node, stmts ...*ast.Node) *ast.Node {
	start := s.Index(keyword+name, n)
	id := s.IdentAt(name, start+len(keyword), def)
	plist := s.Params(id.End, params...)
	body := s.Block(plist.End, stmts...)
	node := Node(ast.KindFunction, start, body.End, id, plist, body)
	node.Name = name
	node.Def = def
	return node
}

// Method is shorthand for Function with the plain "function " keyword
func (s *Source) Method(name string, n int, def *symbols.Definition, stmts ...*ast.Node) *ast.Node {
	return s.Function("function ", name, n, def, nil, stmts...)
}

// Class is `class Name [extends ...] [implements ...] { members }`; heritage
// holds the identifiers of the extends and implements clauses.
func (s *Source) Class(name string, def *symbols.Definition, heritage []*ast.Node, members ...*ast.Node) *ast.Node {
	start := s.Index("class "+name, 0)
	id := s.IdentAt(name, start+len("class "), def)
	from := id.End
	if len(heritage) > 0 {
		from = heritage[len(heritage)-1].End
	}
	body := s.Block(from, members...)
	children := append([]*ast.Node{id}, heritage...)
	children = append(children, body)
	node := Node(ast.KindClass, start, body.End, children...)
	node.Name = name
	node.Def = def
	return node
}

// Interface is `interface Name [extends ...] { members }`
func (s *Source) Interface(name string, def *symbols.Definition, heritage []*ast.Node, members ...*ast.Node) *ast.Node {
	start := s.Index("interface "+name, 0)
	id := s.IdentAt(name, start+len("interface "), def)
	from := id.End
	if len(heritage) > 0 {
		from = heritage[len(heritage)-1].End
	}
	body := s.Block(from, members...)
	children := append([]*ast.Node{id}, heritage...)
	children = append(children, body)
	node := Node(ast.KindInterface, start, body.End, children...)
	node.Name = name
	node.Def = def
	return node
}

// Import is the n-th `import name;`
func (s *Source) Import(name string, n int) *ast.Node {
	start := s.Index("import "+name, n)
	end := s.IndexAfter(";", start) + 1
	node := Node(ast.KindImport, start, end)
	node.Name = name
	return node
}

// Package is `package name { ... }`
func (s *Source) Package(name string, children ...*ast.Node) *ast.Node {
	start := s.Index("package", 0)
	from := start + len("package")
	if name != "" {
		from = s.IndexAfter(name, from) + len(name)
	}
	body := s.Block(from, children...)
	node := Node(ast.KindPackage, start, body.End, body)
	node.Name = name
	return node
}

// Try is the n-th `try {...}` followed by clauses
func (s *Source) Try(n int, stmts []*ast.Node, clauses ...*ast.Node) *ast.Node {
	start := s.Index("try", n)
	block := s.Block(start, stmts...)
	end := block.End
	if len(clauses) > 0 {
		end = clauses[len(clauses)-1].End
	}
	children := append([]*ast.Node{block}, clauses...)
	return Node(ast.KindTry, start, end, children...)
}

// Finally is the n-th `finally {...}`
func (s *Source) Finally(n int, stmts ...*ast.Node) *ast.Node {
	start := s.Index("finally", n)
	block := s.Block(start, stmts...)
	return Node(ast.KindFinally, start, block.End, block)
}
