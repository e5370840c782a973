package codeaction

import (
	"context"

	"go.lsp.dev/protocol"

	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/symbols"
)

const defaultType = "Object"

// generateField declares a missing field at the top of the enclosing class
// for `name` or `this.name`
func generateField(ctx context.Context, req *Request, d protocol.Diagnostic) []protocol.CodeAction {
	node := req.resolve(d)
	if node == nil || node.Kind != ast.KindIdentifier {
		return nil
	}
	if node.IsMemberOperand() && !node.IsThisMember() {
		return nil
	}
	if class := req.enclosingClass(ctx, node); class != nil && class.FindMember(node.Name, symbols.AnyKind) != nil {
		return nil
	}
	decl := []line{{text: "public var " + node.Name + ":" + defaultType + ";"}}
	edits, ok := req.declareMember(ctx, node, siteTop, decl, nil)
	if !ok {
		return nil
	}
	return []protocol.CodeAction{req.action("Generate Field Variable", d, edits)}
}

// generateLocalVariable declares a missing local just before the statement
// of its first use in the enclosing function
func generateLocalVariable(ctx context.Context, req *Request, d protocol.Diagnostic) []protocol.CodeAction {
	node := req.resolve(d)
	if node == nil || node.Kind != ast.KindIdentifier || node.IsMemberOperand() {
		return nil
	}
	fn := node.Ancestor(ast.KindFunction)
	if fn == nil || fn.Body() == nil || declaresLocal(fn, node.Name) {
		return nil
	}
	stmt := statementOf(firstUse(fn.Body(), node))
	if stmt == nil {
		return nil
	}

	l := req.layout
	decl := "var " + node.Name + ":" + defaultType + ";"
	var edit protocol.TextEdit
	if l.blankBefore(stmt.Start) {
		indent := l.indentAt(stmt.Start)
		at := l.lineStart(stmt.Start)
		edit = req.edit(at, at, indent+decl+l.nl)
	} else {
		edit = req.edit(stmt.Start, stmt.Start, decl+l.nl+l.indentAt(stmt.Start)+l.unit)
	}
	return []protocol.CodeAction{req.action("Generate Local Variable", d, []protocol.TextEdit{edit})}
}

// declaresLocal reports whether fn has a parameter or variable called name
func declaresLocal(fn *ast.Node, name string) bool {
	found := false
	ast.Walk(fn, func(n *ast.Node) bool {
		if found {
			return false
		}
		if n != fn && n.Kind == ast.KindFunction {
			return false
		}
		if n.Kind == ast.KindVariable && n.Name == name {
			found = true
		}
		return true
	})
	return found
}

// firstUse is the earliest identifier in body sharing node's name
func firstUse(body, node *ast.Node) *ast.Node {
	first := node
	ast.Walk(body, func(n *ast.Node) bool {
		if n.Kind == ast.KindIdentifier && n.Name == node.Name && !n.IsMemberOperand() && n.Start < first.Start {
			first = n
		}
		return true
	})
	return first
}

// statementOf climbs to the ancestor that sits directly in a block
func statementOf(n *ast.Node) *ast.Node {
	for ; n != nil && n.Parent != nil; n = n.Parent {
		if n.Parent.Kind == ast.KindBlock {
			return n
		}
	}
	return nil
}
