package position

import (
	"strings"

	"go.lsp.dev/protocol"

	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/markup"
	"mxls/src/internal/models/semantic"
)

// State tells which coordinate system a resolved node came from
type State int

const (
	// HostNode was found in the unit's own tree
	HostNode State = iota
	// EmbeddedNode was found inside a script region hosted by a markup tag
	EmbeddedNode
	// MarkupName means the cursor is on markup with no script under it;
	// Tag and Offset are set, Node is nil
	MarkupName
)

func (s State) String() string {
	switch s {
	case HostNode:
		return "host"
	case EmbeddedNode:
		return "embedded"
	case MarkupName:
		return "markup"
	}
	return "unknown"
}

// Resolved is the outcome of resolving a position
type Resolved struct {
	State  State
	Node   *ast.Node
	Tag    *markup.Tag
	Offset int
}

// Document is the view of one open file a request resolves against
type Document struct {
	Text     string
	Root     *ast.Node
	Markup   *markup.Document
	Includes *semantic.IncludeMap
}

// Offset maps pos to a byte offset in the document
func (d *Document) Offset(pos protocol.Position) (int, error) {
	return ToOffset(strings.NewReader(d.Text), pos, d.Includes)
}

// ResolveDiagnostic resolves the start of a compiler diagnostic. Inside
// markup the parser reports script problems one column early, so the
// embedded lookup uses the position one column to the right.
func (d *Document) ResolveDiagnostic(pos protocol.Position) (Resolved, bool) {
	offset, err := d.Offset(pos)
	if err != nil {
		return Resolved{}, false
	}
	node := ast.NodeAt(d.Root, offset)
	if node == nil {
		return Resolved{}, false
	}
	if node.Kind == ast.KindMarkupInstance && d.Markup != nil {
		if tag := d.Markup.TagAt(offset); tag != nil {
			shifted := protocol.Position{Line: pos.Line, Character: pos.Character + 1}
			if embeddedOffset, err := d.Offset(shifted); err == nil {
				if embedded := ast.EmbeddedNodeAt(tag.Embedded, embeddedOffset); embedded != nil {
					return Resolved{State: EmbeddedNode, Node: embedded, Tag: tag, Offset: embeddedOffset}, true
				}
			}
		}
	}
	return Resolved{State: HostNode, Node: node, Offset: offset}, true
}

// ResolveCursor resolves an editor cursor. A markup tag at the cursor takes
// precedence over the host tree unless it is a Script, Style or Metadata tag.
func (d *Document) ResolveCursor(pos protocol.Position) (Resolved, bool) {
	offset, err := d.Offset(pos)
	if err != nil {
		return Resolved{}, false
	}
	if d.Markup != nil {
		if tag := d.Markup.TagAt(offset); tag != nil && tag.CodeIntelligenceAvailable() {
			if embedded := ast.EmbeddedNodeAt(tag.Embedded, offset); embedded != nil {
				return Resolved{State: EmbeddedNode, Node: embedded, Tag: tag, Offset: offset}, true
			}
			return Resolved{State: MarkupName, Tag: tag, Offset: offset}, true
		}
	}
	node := ast.NodeAt(d.Root, offset)
	if node == nil {
		return Resolved{}, false
	}
	return Resolved{State: HostNode, Node: node, Offset: offset}, true
}
