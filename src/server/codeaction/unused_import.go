package codeaction

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"
)

// removeUnusedImport deletes the reported import, with its line when
// nothing else is on it
func removeUnusedImport(_ context.Context, req *Request, d protocol.Diagnostic) []protocol.CodeAction {
	start, ok := req.lines.OffsetAt(d.Range.Start)
	if !ok {
		return nil
	}
	end, ok := req.lines.OffsetAt(d.Range.End)
	if !ok || end <= start {
		return nil
	}
	title := "Remove " + req.Doc.Text[start:end]

	l := req.layout
	if strings.TrimSpace(l.text[l.lineStart(start):start]) == "" && strings.TrimSpace(l.text[end:l.lineEnd(end)]) == "" {
		start, end = l.lineStart(start), l.lineBreakEnd(end)
	}
	return []protocol.CodeAction{req.action(title, d, []protocol.TextEdit{req.edit(start, end, "")})}
}
