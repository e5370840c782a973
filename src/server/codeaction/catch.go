package codeaction

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"

	"mxls/src/internal/models/ast"
)

// generateCatch appends a catch clause for Error to a try statement that has
// none, after any existing catch and before finally
func generateCatch(_ context.Context, req *Request, d protocol.Diagnostic) []protocol.CodeAction {
	try := req.resolve(d)
	if try == nil || try.Kind != ast.KindTry {
		return nil
	}
	tryBlock := try.FirstChild(ast.KindBlock)
	if tryBlock == nil {
		return nil
	}
	anchor := tryBlock
	if last := try.LastChild(ast.KindCatch); last != nil {
		anchor = last
	}

	l := req.layout
	indent := l.indentAt(try.Start)
	newLine := l.braceOnNewLine(try.Start, tryBlock.Start)
	text := l.render(indent, block("catch(e:Error)", newLine, line{}))
	if !newLine {
		text = " " + strings.TrimPrefix(text, l.nl+indent)
	}
	edit := req.edit(anchor.End, anchor.End, text)
	return []protocol.CodeAction{req.action("Generate catch", d, []protocol.TextEdit{edit})}
}
