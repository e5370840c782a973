package codeaction

import (
	"context"

	"go.lsp.dev/protocol"

	"mxls/src/internal/models/ast"
)

// memberSite says where a class member declared for node goes
type memberSite int

const (
	siteTop memberSite = iota
	siteBottom
)

// declareMember inserts decl into the class body enclosing node, or into the
// markup document's script block. Imports are added in the same fix.
func (r *Request) declareMember(ctx context.Context, node *ast.Node, site memberSite, decl []line, imports []string) ([]protocol.TextEdit, bool) {
	missing := r.missingImports(ctx, node, imports)

	class := node
	if class.Kind != ast.KindClass {
		class = node.Ancestor(ast.KindClass)
	}
	if class != nil && class.Body() != nil {
		body := class.Body()
		indent := r.layout.indentAt(class.Start) + r.layout.unit
		edit := r.insertInto(body.Start, body.End-1, indent, site, decl)
		return r.withImports(node, edit, missing), true
	}

	if r.Doc.Markup == nil || r.Doc.Markup.Root == nil {
		return nil, false
	}
	script := r.scriptTagFor(node)
	if script == nil {
		return []protocol.TextEdit{r.createScript(importLines(missing), decl)}, true
	}
	indent := r.layout.indentAt(script.ContentStart) + r.layout.unit
	edit := r.insertInto(script.ContentStart-1, script.ContentEnd, indent, site, decl)
	return r.withImports(node, edit, missing), true
}

func (r *Request) withImports(node *ast.Node, edit protocol.TextEdit, missing []string) []protocol.TextEdit {
	if imp, ok := r.importEdit(node, missing); ok {
		return []protocol.TextEdit{imp, edit}
	}
	return []protocol.TextEdit{edit}
}

// insertInto places decl inside a region whose opening delimiter ends at
// open and whose closing delimiter starts at closing
func (r *Request) insertInto(open, closing int, indent string, site memberSite, decl []line) protocol.TextEdit {
	l := r.layout
	text := l.render(indent, decl)

	if site == siteTop {
		offset := l.lineEnd(open + 1)
		if offset > closing {
			offset = open + 1
		}
		return r.edit(offset, offset, text)
	}

	if l.blankBefore(closing) && l.lineStart(closing) > open+1 {
		offset := l.lineStart(closing) - 1
		if offset > 0 && l.text[offset-1] == '\r' {
			offset--
		}
		return r.edit(offset, offset, text)
	}
	closingIndent := r.layout.indentAt(closing)
	return r.edit(closing, closing, text+l.nl+closingIndent)
}
