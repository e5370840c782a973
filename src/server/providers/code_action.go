package providers

import (
	"context"

	"go.lsp.dev/protocol"

	"mxls/src/server/codeaction"
)

// CodeAction offers quick fixes for the diagnostics in params. Files that are
// closed, outside the folder's source paths, not yet compiled or included by
// another unit get none.
func (p *Providers) CodeAction(ctx context.Context, params *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, ok := p.locate(params.TextDocument.URI)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok || !t.folder.IsSourceFile(t.path) {
		return []protocol.CodeAction{}, nil
	}
	// edits on an included file would land in the including unit's offsets
	if t.folder.IncludeMap(t.path) != nil {
		p.logger.Debug("no code actions for included file %s", t.path)
		return []protocol.CodeAction{}, nil
	}
	doc, ok := t.document(false)
	if !ok {
		return []protocol.CodeAction{}, nil
	}

	req := codeaction.NewRequest(params.TextDocument.URI, t.path, doc, t.project, t.unit)
	actions, err := codeaction.Classify(ctx, req, params.Context.Diagnostics)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("%d code actions for %d diagnostics in %s", len(actions), len(params.Context.Diagnostics), t.path)
	if actions == nil {
		actions = []protocol.CodeAction{}
	}
	return actions, nil
}
