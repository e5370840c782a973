package providers

import (
	"context"

	"go.lsp.dev/protocol"

	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/markup"
	"mxls/src/internal/models/symbols"
	"mxls/src/server/position"
	"mxls/src/server/search"
)

// References lists the uses of the symbol under the cursor across the project
func (p *Providers) References(ctx context.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, ok := p.locate(params.TextDocument.URI)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return []protocol.Location{}, nil
	}
	doc, ok := t.document(true)
	if !ok {
		return []protocol.Location{}, nil
	}
	res, ok := doc.ResolveCursor(params.Position)
	if !ok {
		return []protocol.Location{}, nil
	}

	var def *symbols.Definition
	switch res.State {
	case position.MarkupName:
		def = p.markupDefinition(ctx, t, res.Tag, res.Offset)
	default:
		if res.Node.Kind == ast.KindIdentifier {
			def = res.Node.Def
		}
	}
	if def == nil {
		return []protocol.Location{}, nil
	}

	found, err := p.search.References(ctx, t.project, def)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return locations(t.project, found), nil
}

// markupDefinition resolves a cursor on markup: a tag or attribute name, or
// the value of an id attribute naming a member of the document class
func (p *Providers) markupDefinition(ctx context.Context, t target, tag *markup.Tag, offset int) *symbols.Definition {
	if def := tag.DefinitionAtNameOffset(offset); def != nil {
		if tag.IsInsidePrefix(offset) {
			return nil
		}
		return def
	}
	attr := tag.AttributeWithValueAt(offset)
	if attr == nil || attr.Name != "id" {
		return nil
	}
	return search.IDFallback(ctx, t.unit, attr.RawValue)
}
