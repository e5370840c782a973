package position

import (
	"sort"
	"unicode/utf8"

	"go.lsp.dev/protocol"
)

// LineIndex converts between byte offsets and LSP positions for one text
type LineIndex struct {
	text  string
	lines []int
}

// NewLineIndex indexes the line starts of text
func NewLineIndex(text string) *LineIndex {
	lines := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &LineIndex{text: text, lines: lines}
}

// LineCount returns the number of lines, counting a trailing empty line
func (li *LineIndex) LineCount() int {
	return len(li.lines)
}

// PositionAt converts a byte offset into a UTF-16 based position
func (li *LineIndex) PositionAt(offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.text) {
		offset = len(li.text)
	}
	line := sort.Search(len(li.lines), func(i int) bool { return li.lines[i] > offset }) - 1
	var units uint32
	for i := li.lines[line]; i < offset; {
		r, size := utf8.DecodeRuneInString(li.text[i:])
		i += size
		units += utf16Len(r)
	}
	return protocol.Position{Line: uint32(line), Character: units}
}

// OffsetAt converts a position into a byte offset. Columns past the end of
// the line clamp to the line end; lines past the end of the text fail.
func (li *LineIndex) OffsetAt(pos protocol.Position) (int, bool) {
	if int(pos.Line) >= len(li.lines) {
		return 0, false
	}
	start := li.lines[pos.Line]
	end := len(li.text)
	if int(pos.Line)+1 < len(li.lines) {
		end = li.lines[pos.Line+1] - 1
		if end > start && li.text[end-1] == '\r' {
			end--
		}
	}
	offset := start
	var units uint32
	for offset < end && units < pos.Character {
		r, size := utf8.DecodeRuneInString(li.text[offset:])
		offset += size
		units += utf16Len(r)
	}
	return offset, true
}

// Range converts a byte span into an LSP range
func (li *LineIndex) Range(start, end int) protocol.Range {
	return protocol.Range{Start: li.PositionAt(start), End: li.PositionAt(end)}
}
