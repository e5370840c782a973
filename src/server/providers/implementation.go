package providers

import (
	"context"

	"go.lsp.dev/protocol"

	"mxls/src/internal/models/ast"
	"mxls/src/server/position"
)

// Implementation lists the classes implementing the interface under the cursor
func (p *Providers) Implementation(ctx context.Context, params *protocol.ImplementationParams) ([]protocol.Location, error) {
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
	node := res.Node
	if res.State == position.MarkupName {
		// markup names are not types here; look at the host tree instead
		node = ast.NodeAt(doc.Root, res.Offset)
	}
	if node == nil || node.Kind != ast.KindIdentifier || !node.Def.IsInterface() {
		return []protocol.Location{}, nil
	}

	found, err := p.search.Implementations(ctx, t.project, node.Def)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return locations(t.project, found), nil
}
