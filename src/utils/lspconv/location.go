package lspconv

import (
	"go.lsp.dev/protocol"

	"mxls/src/internal/common"
	"mxls/src/server/position"
)

// Locations builds protocol locations from byte ranges, indexing each
// document's lines once
type Locations struct {
	indexes map[string]*position.LineIndex
	out     []protocol.Location
}

func NewLocations() *Locations {
	return &Locations{indexes: make(map[string]*position.LineIndex)}
}

// Add records [start, end) in the document at path whose text is text
func (l *Locations) Add(path, text string, start, end int) {
	idx, ok := l.indexes[path]
	if !ok {
		idx = position.NewLineIndex(text)
		l.indexes[path] = idx
	}
	l.out = append(l.out, protocol.Location{
		URI:   common.FilePathToURI(path),
		Range: idx.Range(start, end),
	})
}

// Result returns the collected locations, never nil
func (l *Locations) Result() []protocol.Location {
	if l.out == nil {
		return []protocol.Location{}
	}
	return l.out
}
