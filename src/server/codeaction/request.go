// Package codeaction turns compiler diagnostics into quick fixes.
package codeaction

import (
	"context"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.lsp.dev/protocol"

	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/semantic"
	"mxls/src/internal/models/symbols"
	"mxls/src/server/position"
)

// ActionData travels in CodeAction.Data so an edit can be checked against
// the text it was computed from before it is applied
type ActionData struct {
	Path  string `json:"path"`
	Stamp string `json:"stamp"`
}

// Stamp fingerprints a document text
func Stamp(text string) string {
	return strconv.FormatUint(xxhash.Sum64String(text), 16)
}

// Request is the per-request view of the document fixes are computed against
type Request struct {
	URI     protocol.DocumentURI
	Path    string
	Doc     *position.Document
	Project semantic.Project
	Unit    semantic.CompilationUnit

	lines  *position.LineIndex
	layout layout
	stamp  string
}

// NewRequest captures the document text a set of fixes will be computed from
func NewRequest(uri protocol.DocumentURI, path string, doc *position.Document, project semantic.Project, unit semantic.CompilationUnit) *Request {
	return &Request{
		URI:     uri,
		Path:    path,
		Doc:     doc,
		Project: project,
		Unit:    unit,
		lines:   position.NewLineIndex(doc.Text),
		layout:  newLayout(doc.Text),
		stamp:   Stamp(doc.Text),
	}
}

func (r *Request) resolve(d protocol.Diagnostic) *ast.Node {
	res, ok := r.Doc.ResolveDiagnostic(d.Range.Start)
	if !ok {
		return nil
	}
	return res.Node
}

func (r *Request) edit(start, end int, text string) protocol.TextEdit {
	return protocol.TextEdit{Range: r.lines.Range(start, end), NewText: text}
}

func (r *Request) action(title string, d protocol.Diagnostic, edits []protocol.TextEdit) protocol.CodeAction {
	return protocol.CodeAction{
		Title:       title,
		Kind:        protocol.QuickFix,
		Diagnostics: []protocol.Diagnostic{d},
		Edit: &protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentURI][]protocol.TextEdit{r.URI: edits},
		},
		Data: ActionData{Path: r.Path, Stamp: r.stamp},
	}
}

// unitPackage is the package the document's definitions are declared in
func (r *Request) unitPackage(ctx context.Context, node *ast.Node) string {
	if pkg := node.Ancestor(ast.KindPackage); pkg != nil {
		return pkg.Name
	}
	if r.Unit == nil {
		return ""
	}
	defs, err := r.Unit.ScopeDefinitions(ctx)
	if err != nil {
		return ""
	}
	for _, d := range defs {
		if d.IsClass() {
			return d.Package
		}
	}
	return ""
}

// enclosingClass is the class definition whose body holds node. In markup
// documents outside any script class it is the document's own class.
func (r *Request) enclosingClass(ctx context.Context, node *ast.Node) *symbols.Definition {
	if node.Kind == ast.KindClass && node.Def != nil {
		return node.Def
	}
	if class := node.Ancestor(ast.KindClass); class != nil {
		return class.Def
	}
	if r.Doc.Markup == nil || r.Unit == nil {
		return nil
	}
	defs, err := r.Unit.ScopeDefinitions(ctx)
	if err != nil {
		return nil
	}
	for _, d := range defs {
		if d.IsClass() {
			return d
		}
	}
	return nil
}

// lookup resolves a qualified type name against the project
func (r *Request) lookup(ctx context.Context, qualified string) *symbols.Definition {
	return semantic.FindQualified(ctx, r.Project, qualified)
}
