// Package lspconv converts between document offsets and protocol shapes.
package lspconv

import (
	"fmt"
	"sort"
	"strings"

	"go.lsp.dev/protocol"

	"mxls/src/server/position"
)

type offsetEdit struct {
	start, end int
	text       string
	order      int
}

// ApplyEdits applies text edits computed against text. Edits must not
// overlap; inserts at the same offset keep their given order.
func ApplyEdits(text string, edits []protocol.TextEdit) (string, error) {
	lines := position.NewLineIndex(text)
	resolved := make([]offsetEdit, 0, len(edits))
	for i, e := range edits {
		start, ok := lines.OffsetAt(e.Range.Start)
		if !ok {
			return "", fmt.Errorf("edit %d starts outside the document at %d:%d", i, e.Range.Start.Line, e.Range.Start.Character)
		}
		end, ok := lines.OffsetAt(e.Range.End)
		if !ok || end < start {
			return "", fmt.Errorf("edit %d has an invalid end at %d:%d", i, e.Range.End.Line, e.Range.End.Character)
		}
		resolved = append(resolved, offsetEdit{start: start, end: end, text: e.NewText, order: i})
	}
	sort.SliceStable(resolved, func(i, j int) bool {
		if resolved[i].start != resolved[j].start {
			return resolved[i].start < resolved[j].start
		}
		return resolved[i].order < resolved[j].order
	})

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, e := range resolved {
		if e.start < last {
			return "", fmt.Errorf("overlapping edits at offset %d", e.start)
		}
		b.WriteString(text[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.WriteString(text[last:])
	return b.String(), nil
}
