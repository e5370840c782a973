package codeaction

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"

	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/symbols"
)

// implementInterfaces offers one fix per declared interface that still has
// unimplemented members, stubbing each of them at the end of the class
func implementInterfaces(ctx context.Context, req *Request, d protocol.Diagnostic) []protocol.CodeAction {
	node := req.resolve(d)
	if node == nil {
		return nil
	}
	var class *symbols.Definition
	if classNode := classNodeOf(node); classNode != nil {
		class = classNode.Def
		node = classNode
	} else if req.Doc.Markup != nil {
		class = req.enclosingClass(ctx, node)
	}
	if class == nil {
		return nil
	}

	newLine := false
	if node.Kind == ast.KindClass && node.Body() != nil {
		newLine = req.newLineBraces(node.Body())
	}
	var actions []protocol.CodeAction
	for _, iface := range class.Interfaces {
		if !iface.IsInterface() {
			continue
		}
		var decl []line
		var types []string
		for _, m := range symbols.InterfaceMembers(iface) {
			if class.FindMember(m.Name, m.Kind) != nil {
				continue
			}
			decl = append(decl, line{})
			decl = append(decl, stub(m, newLine)...)
			types = append(types, signatureTypes(m)...)
		}
		if len(decl) == 0 {
			continue
		}
		edits, ok := req.declareMember(ctx, node, siteBottom, decl, types)
		if !ok {
			continue
		}
		actions = append(actions, req.action("Implement interface '"+iface.Name+"'", d, edits))
	}
	return actions
}

func classNodeOf(node *ast.Node) *ast.Node {
	if node.Kind == ast.KindClass {
		return node
	}
	return node.Ancestor(ast.KindClass)
}

// stub renders a public implementation of an interface member
func stub(m *symbols.Definition, newLine bool) []line {
	switch m.Kind {
	case symbols.KindGetter:
		t := accessorType(m)
		return block("public function get "+m.Name+"():"+symbols.BaseName(t), newLine, returnLine(t)...)
	case symbols.KindSetter:
		t := accessorType(m)
		return block("public function set "+m.Name+"(value:"+symbols.BaseName(t)+"):void", newLine)
	}
	params := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		params = append(params, parameter(p))
	}
	ret := m.ReturnType
	if ret == "" {
		ret = "void"
	}
	header := "public function " + m.Name + "(" + strings.Join(params, ", ") + "):" + symbols.BaseName(ret)
	return block(header, newLine, returnLine(ret)...)
}

func parameter(p symbols.Param) string {
	if p.Rest {
		return "..." + p.Name
	}
	t := p.Type
	if t == "" {
		t = "*"
	}
	s := p.Name + ":" + symbols.BaseName(t)
	if p.Optional {
		s += " = " + zeroValue(t)
	}
	return s
}

func accessorType(m *symbols.Definition) string {
	switch {
	case m.Type != "":
		return m.Type
	case m.Kind == symbols.KindSetter && len(m.Params) > 0 && m.Params[0].Type != "":
		return m.Params[0].Type
	case m.ReturnType != "" && m.ReturnType != "void":
		return m.ReturnType
	}
	return defaultType
}

func returnLine(t string) []line {
	if t == "void" {
		return nil
	}
	return []line{{text: "return " + zeroValue(t) + ";"}}
}

func zeroValue(t string) string {
	switch t {
	case "Number":
		return "NaN"
	case "int", "uint":
		return "0"
	case "Boolean":
		return "false"
	}
	return "null"
}

// signatureTypes lists the types a stub refers to
func signatureTypes(m *symbols.Definition) []string {
	var types []string
	if m.Kind == symbols.KindGetter || m.Kind == symbols.KindSetter {
		return append(types, accessorType(m))
	}
	for _, p := range m.Params {
		if !p.Rest && p.Type != "" {
			types = append(types, p.Type)
		}
	}
	if m.ReturnType != "" {
		types = append(types, m.ReturnType)
	}
	return types
}
