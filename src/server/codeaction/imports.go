package codeaction

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"

	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/markup"
	"mxls/src/internal/models/semantic"
	"mxls/src/internal/models/symbols"
)

// ImportRange is the region import statements are inserted into
type ImportRange struct {
	Start   int
	End     int
	Indent  string
	Package string
	Imports []*ast.Node
}

// Has reports whether qualified is already imported, exactly or by wildcard
func (ir ImportRange) Has(qualified string) bool {
	wildcard := symbols.PackageOf(qualified) + ".*"
	for _, imp := range ir.Imports {
		if imp.Name == qualified || imp.Name == wildcard {
			return true
		}
	}
	return false
}

// importRange locates where imports for node belong. It fails for markup
// documents without a script block.
func (r *Request) importRange(node *ast.Node) (ImportRange, bool) {
	if r.Doc.Markup != nil {
		script := r.scriptTagFor(node)
		if script == nil {
			return ImportRange{}, false
		}
		ir := ImportRange{
			Start:  script.ContentStart,
			End:    script.ContentEnd,
			Indent: r.layout.indentAt(script.ContentStart) + r.layout.unit,
		}
		if script.Node != nil {
			ir.Imports = childrenOfKind(script.Node, ast.KindImport)
		}
		return ir, true
	}

	if pkg := node.Ancestor(ast.KindPackage); pkg != nil && pkg.Body() != nil {
		body := pkg.Body()
		ir := ImportRange{
			Start:   body.Start + 1,
			End:     body.End - 1,
			Indent:  r.layout.indentAt(pkg.Start) + r.layout.unit,
			Package: pkg.Name,
			Imports: childrenOfKind(body, ast.KindImport),
		}
		if len(body.Children) > 0 {
			ir.Indent = r.layout.indentAt(body.Children[0].Start)
		}
		return ir, true
	}

	root := r.Doc.Root
	if root == nil {
		return ImportRange{}, false
	}
	return ImportRange{Start: 0, End: len(r.Doc.Text), Imports: childrenOfKind(root, ast.KindImport)}, true
}

// scriptTagFor returns the script block holding node, else the first one
func (r *Request) scriptTagFor(node *ast.Node) *markup.Tag {
	scripts := r.Doc.Markup.ScriptTags()
	for _, s := range scripts {
		if s.ContentStart <= node.Start && node.End <= s.ContentEnd {
			return s
		}
	}
	if len(scripts) > 0 {
		return scripts[0]
	}
	return nil
}

func childrenOfKind(n *ast.Node, kind ast.Kind) []*ast.Node {
	var out []*ast.Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// missingImports filters qualified names down to those the document at node
// still has to import
func (r *Request) missingImports(ctx context.Context, node *ast.Node, qualified []string) []string {
	ir, hasRange := r.importRange(node)
	pkg := r.unitPackage(ctx, node)
	var out []string
	seen := map[string]bool{}
	for _, q := range qualified {
		owner := symbols.PackageOf(q)
		if owner == "" || owner == pkg || seen[q] {
			continue
		}
		if hasRange && ir.Has(q) {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}

// importEdit inserts import statements for already filtered names
func (r *Request) importEdit(node *ast.Node, qualified []string) (protocol.TextEdit, bool) {
	if len(qualified) == 0 {
		return protocol.TextEdit{}, false
	}
	ir, ok := r.importRange(node)
	if !ok {
		return r.createScript(importLines(qualified), nil), true
	}
	if n := len(ir.Imports); n > 0 {
		last := ir.Imports[n-1]
		offset := r.layout.lineEnd(last.End)
		return r.edit(offset, offset, r.layout.render(r.layout.indentAt(last.Start), importLines(qualified))), true
	}
	text := r.layout.render(ir.Indent, importLines(qualified))
	if ir.Start == 0 {
		// file level: statements go first, one per line
		return r.edit(0, 0, strings.TrimPrefix(text, r.layout.nl)+r.layout.nl), true
	}
	return r.edit(ir.Start, ir.Start, text+r.layout.nl), true
}

func importLines(qualified []string) []line {
	lines := make([]line, 0, len(qualified))
	for _, q := range qualified {
		lines = append(lines, line{text: "import " + q + ";"})
	}
	return lines
}

// createScript adds a script block after the root start tag holding the
// given imports and declarations
func (r *Request) createScript(imports, decls []line) protocol.TextEdit {
	root := r.Doc.Markup.Root
	prefix := r.Doc.Markup.LanguagePrefix()
	indent := r.layout.indentAt(root.Start) + r.layout.unit

	body := append([]line{}, imports...)
	if len(imports) > 0 && len(decls) > 0 {
		body = append(body, line{})
	}
	body = append(body, decls...)

	lines := []line{{text: "<" + prefix + ":Script>"}, {depth: 1, text: "<![CDATA["}}
	for _, b := range body {
		lines = append(lines, line{depth: b.depth + 2, text: b.text})
	}
	lines = append(lines, line{depth: 1, text: "]]>"}, line{text: "</" + prefix + ":Script>"})
	return r.edit(root.StartTagEnd, root.StartTagEnd, r.layout.render(indent, lines))
}

// importFix offers one import per packaged definition named like the
// unresolved identifier
func importFix(ctx context.Context, req *Request, d protocol.Diagnostic) []protocol.CodeAction {
	node := req.resolve(d)
	if node == nil || node.Kind != ast.KindIdentifier {
		return nil
	}
	if strings.Contains(node.Name, ".") || node.IsMemberOperand() {
		return nil
	}
	var actions []protocol.CodeAction
	for _, def := range semantic.DefinitionsNamed(ctx, req.Project, node.Name) {
		qualified := def.QualifiedName()
		missing := req.missingImports(ctx, node, []string{qualified})
		if len(missing) == 0 {
			continue
		}
		edit, ok := req.importEdit(node, missing)
		if !ok {
			continue
		}
		actions = append(actions, req.action("Import "+qualified, d, []protocol.TextEdit{edit}))
	}
	return actions
}
