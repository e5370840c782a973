package codeaction

import (
	"context"
	"strconv"
	"strings"

	"go.lsp.dev/protocol"

	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/symbols"
)

// listenerRegistration is the method whose second argument is a listener
const listenerRegistration = "addEventListener"

// generateMethod declares a missing method at the end of the enclosing
// class with parameters typed after the call's arguments
func generateMethod(ctx context.Context, req *Request, d protocol.Diagnostic) []protocol.CodeAction {
	call := callFor(req.resolve(d))
	if call == nil || call.Callee() == nil {
		return nil
	}
	var name string
	switch callee := call.Callee(); callee.Kind {
	case ast.KindIdentifier:
		name = callee.Name
	case ast.KindMemberAccess:
		if !callee.Left().IsThis() || callee.Right() == nil {
			return nil
		}
		name = callee.Right().Name
	default:
		return nil
	}
	if name == "" {
		return nil
	}
	if class := req.enclosingClass(ctx, call); class != nil && class.FindMember(name, symbols.AnyKind) != nil {
		return nil
	}

	var params []string
	var types []string
	var args []*ast.Node
	if list := call.Arguments(); list != nil {
		args = list.Children
	}
	for i, arg := range args {
		t := req.argumentType(arg)
		types = append(types, t)
		params = append(params, "param"+strconv.Itoa(i)+":"+symbols.BaseName(t))
	}
	header := "private function " + name + "(" + strings.Join(params, ", ") + "):void"
	decl := append([]line{{}}, block(header, req.newLineBraces(call))...)
	edits, ok := req.declareMember(ctx, call, siteBottom, decl, types)
	if !ok {
		return nil
	}
	return []protocol.CodeAction{req.action("Generate Method", d, edits)}
}

// callFor accepts a call, its callee, or the member operand of a member call
func callFor(node *ast.Node) *ast.Node {
	switch {
	case node == nil:
		return nil
	case node.Kind == ast.KindCall:
		return node
	case node.Parent != nil && node.Parent.Kind == ast.KindCall && node.Parent.Callee() == node:
		return node.Parent
	case node.IsMemberOperand():
		access := node.Parent
		if call := access.Parent; call != nil && call.Kind == ast.KindCall && call.Callee() == access {
			return call
		}
	}
	return nil
}

// argumentType is the best known type of an argument expression, qualified
// when it names a packaged class
func (r *Request) argumentType(arg *ast.Node) string {
	if arg.Type != "" && arg.Type != "void" {
		return arg.Type
	}
	switch arg.Kind {
	case ast.KindLiteral:
		switch arg.Literal {
		case ast.LiteralString:
			return "String"
		case ast.LiteralNumber:
			return "Number"
		case ast.LiteralBoolean:
			return "Boolean"
		case ast.LiteralArray:
			return "Array"
		}
	case ast.KindIdentifier:
		return definitionType(arg.Def)
	case ast.KindMemberAccess:
		if right := arg.Right(); right != nil {
			return definitionType(right.Def)
		}
	case ast.KindCall:
		callee := arg.Callee()
		if callee != nil && callee.Kind == ast.KindMemberAccess {
			callee = callee.Right()
		}
		if callee != nil && callee.Def != nil {
			if callee.Def.IsClass() {
				return callee.Def.QualifiedName()
			}
			if t := callee.Def.ReturnType; t != "" && t != "void" {
				return t
			}
		}
	}
	return defaultType
}

func definitionType(def *symbols.Definition) string {
	switch {
	case def == nil:
		return defaultType
	case def.IsClass(), def.IsInterface():
		return "Class"
	case def.Kind == symbols.KindFunction:
		return "Function"
	case def.TypeDef != nil:
		return def.TypeDef.QualifiedName()
	case def.Type != "":
		return def.Type
	}
	return defaultType
}

// newLineBraces follows the brace placement of the function or class around node
func (r *Request) newLineBraces(node *ast.Node) bool {
	if fn := node.Ancestor(ast.KindFunction); fn != nil && fn.Body() != nil {
		if params := fn.FirstChild(ast.KindParameters); params != nil {
			return r.layout.braceOnNewLine(params.End, fn.Body().Start)
		}
	}
	if class := node.Ancestor(ast.KindClass); class != nil && class.Body() != nil {
		if header := class.Child(len(class.Children) - 2); header != nil {
			return r.layout.braceOnNewLine(header.End, class.Body().Start)
		}
	}
	return false
}

// generateEventListener declares the listener passed to addEventListener
// with the event class the registration dispatches
func generateEventListener(ctx context.Context, req *Request, d protocol.Diagnostic) []protocol.CodeAction {
	node := req.resolve(d)
	if node == nil || node.Kind != ast.KindIdentifier {
		return nil
	}
	arg := node
	if node.IsMemberOperand() {
		if !node.IsThisMember() {
			return nil
		}
		arg = node.Parent
	}
	args := arg.Parent
	if args == nil || args.Kind != ast.KindArguments || args.Child(1) != arg {
		return nil
	}
	call := args.Parent
	if call == nil || call.Kind != ast.KindCall || call.CalleeName() != listenerRegistration {
		return nil
	}
	if class := req.enclosingClass(ctx, node); class != nil && class.FindMember(node.Name, symbols.AnyKind) != nil {
		return nil
	}
	eventType := req.eventType(ctx, call)
	if eventType == "" {
		return nil
	}

	header := "private function " + node.Name + "(event:" + symbols.BaseName(eventType) + "):void"
	decl := append([]line{{}}, block(header, req.newLineBraces(call))...)
	edits, ok := req.declareMember(ctx, node, siteBottom, decl, []string{eventType})
	if !ok {
		return nil
	}
	return []protocol.CodeAction{req.action("Generate Event Listener", d, edits)}
}

// eventType determines the event class of a listener registration, from a
// Class.CONSTANT type argument or from the receiver's event metadata
func (r *Request) eventType(ctx context.Context, call *ast.Node) string {
	first := call.Arguments().Child(0)
	if first == nil {
		return ""
	}
	switch first.Kind {
	case ast.KindMemberAccess:
		if right := first.Right(); right != nil && right.Def != nil && right.Def.Parent.IsClass() {
			return right.Def.Parent.QualifiedName()
		}
		if left := first.Left(); left != nil && left.Def.IsClass() {
			return left.Def.QualifiedName()
		}
	case ast.KindLiteral:
		if first.Literal != ast.LiteralString {
			return ""
		}
		receiver := r.receiverClass(ctx, call)
		if receiver == nil {
			return ""
		}
		if ev, ok := receiver.FindEvent(first.Value); ok {
			return ev.Type
		}
	}
	return ""
}

// receiverClass is the class of the object a method is called on
func (r *Request) receiverClass(ctx context.Context, call *ast.Node) *symbols.Definition {
	callee := call.Callee()
	if callee.Kind != ast.KindMemberAccess || callee.Left().IsThis() {
		return r.enclosingClass(ctx, call)
	}
	left := callee.Left()
	if left == nil {
		return nil
	}
	if def := left.Def; def != nil {
		switch {
		case def.TypeDef != nil:
			return def.TypeDef
		case def.Type != "":
			return r.lookup(ctx, def.Type)
		case def.IsClass():
			return def
		}
	}
	if left.Type != "" {
		return r.lookup(ctx, left.Type)
	}
	return nil
}
