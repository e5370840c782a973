// Package ast holds the syntax trees produced by the compiler front end.
//
// Offsets are byte offsets into the UTF-8 source of the unit. A node covers
// [Start, End). Nodes are owned by the snapshot they were loaded from and must
// not be retained past a single request.
package ast

import "mxls/src/internal/models/symbols"

// Kind identifies a syntax node form
type Kind int

const (
	KindFile Kind = iota
	KindPackage
	KindImport
	KindClass
	KindInterface
	KindFunction
	KindParameters
	KindVariable
	KindBlock
	KindIdentifier
	KindLanguageIdentifier
	KindMemberAccess
	KindCall
	KindArguments
	KindTry
	KindCatch
	KindFinally
	KindLiteral
	KindStatement
	KindMarkupInstance
	KindMarkupSpecifier
	KindScriptBlock
)

var kindNames = map[Kind]string{
	KindFile:               "file",
	KindPackage:            "package",
	KindImport:             "import",
	KindClass:              "class",
	KindInterface:          "interface",
	KindFunction:           "function",
	KindParameters:         "parameters",
	KindVariable:           "variable",
	KindBlock:              "block",
	KindIdentifier:         "identifier",
	KindLanguageIdentifier: "languageIdentifier",
	KindMemberAccess:       "memberAccess",
	KindCall:               "call",
	KindArguments:          "arguments",
	KindTry:                "try",
	KindCatch:              "catch",
	KindFinally:            "finally",
	KindLiteral:            "literal",
	KindStatement:          "statement",
	KindMarkupInstance:     "markupInstance",
	KindMarkupSpecifier:    "markupSpecifier",
	KindScriptBlock:        "scriptBlock",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// LiteralKind classifies literal expressions
type LiteralKind int

const (
	LiteralNone LiteralKind = iota
	LiteralString
	LiteralNumber
	LiteralBoolean
	LiteralNull
	LiteralArray
	LiteralObject
)

// Node is a syntax tree node.
//
// Child layout per kind:
//
//	class, interface   name, [base], [interfaces...], block
//	function           name, parameters, block
//	variable           name, [initializer]
//	memberAccess       left, right
//	call               callee, arguments
//	try                block, catch..., [finally]
//	catch              [variable], block
type Node struct {
	Kind     Kind
	Start    int
	End      int
	Name     string
	Value    string
	Literal  LiteralKind
	Type     string
	Def      *symbols.Definition
	Parent   *Node
	Children []*Node
}

// Contains reports whether offset falls inside the node, end inclusive
func (n *Node) Contains(offset int) bool {
	return n.Start <= offset && offset <= n.End
}

// Add appends children and links them to n
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.Parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// Child returns the i-th child or nil
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// FirstChild returns the first child of the given kind
func (n *Node) FirstChild(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// LastChild returns the last child of the given kind
func (n *Node) LastChild(kind Kind) *Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if n.Children[i].Kind == kind {
			return n.Children[i]
		}
	}
	return nil
}

// Ancestor returns the closest strict ancestor of the given kind
func (n *Node) Ancestor(kind Kind) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

// Body returns the block of a class, interface, function, package, catch or finally
func (n *Node) Body() *Node {
	return n.LastChild(KindBlock)
}

// Left is the receiver operand of a member access
func (n *Node) Left() *Node { return n.Child(0) }

// Right is the member operand of a member access
func (n *Node) Right() *Node { return n.Child(1) }

// Callee is the called expression of a call
func (n *Node) Callee() *Node { return n.Child(0) }

// Arguments returns the argument container of a call
func (n *Node) Arguments() *Node { return n.FirstChild(KindArguments) }

// CalleeName is the simple name a call invokes, empty for computed callees
func (n *Node) CalleeName() string {
	callee := n.Callee()
	switch {
	case callee == nil:
		return ""
	case callee.Kind == KindIdentifier:
		return callee.Name
	case callee.Kind == KindMemberAccess && callee.Right() != nil:
		return callee.Right().Name
	}
	return ""
}

// IsThis reports whether n is the `this` language identifier
func (n *Node) IsThis() bool {
	return n != nil && n.Kind == KindLanguageIdentifier && n.Name == "this"
}

// IsMemberOperand reports whether n is the right operand of a member access
func (n *Node) IsMemberOperand() bool {
	return n.Parent != nil && n.Parent.Kind == KindMemberAccess && n.Parent.Right() == n
}

// IsThisMember reports whether n is the right operand of `this.<n>`
func (n *Node) IsThisMember() bool {
	return n.IsMemberOperand() && n.Parent.Left().IsThis()
}
