package workspace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"mxls/src/internal/common"
	"mxls/src/internal/errors"
	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/markup"
	"mxls/src/internal/models/semantic"
	"mxls/src/internal/models/symbols"
)

var accessNames = map[string]symbols.Access{
	"":          symbols.AccessPublic,
	"public":    symbols.AccessPublic,
	"internal":  symbols.AccessInternal,
	"protected": symbols.AccessProtected,
	"private":   symbols.AccessPrivate,
}

var literalNames = map[string]ast.LiteralKind{
	"":        ast.LiteralNone,
	"none":    ast.LiteralNone,
	"string":  ast.LiteralString,
	"number":  ast.LiteralNumber,
	"boolean": ast.LiteralBoolean,
	"null":    ast.LiteralNull,
	"array":   ast.LiteralArray,
	"object":  ast.LiteralObject,
}

var unitKinds = map[string]semantic.UnitKind{
	"script":  semantic.UnitScript,
	"markup":  semantic.UnitMarkup,
	"library": semantic.UnitLibrary,
}

// LoadSnapshot reads and links the snapshot file at path, taking relative
// unit paths from the file's directory. Files ending in .msgpack or .mp are
// msgpack encoded, everything else is JSON.
func LoadSnapshot(path string) (*semantic.Snapshot, error) {
	data, err := common.SafeReadFile(path)
	if err != nil {
		return nil, errors.NewSnapshotError(path, err)
	}
	return ParseSnapshot(path, filepath.Dir(path), data)
}

// ParseSnapshot decodes and links snapshot data read from path. Relative
// unit paths are taken from base.
func ParseSnapshot(path, base string, data []byte) (*semantic.Snapshot, error) {
	record, err := DecodeSnapshot(data, isMsgpack(path))
	if err != nil {
		return nil, errors.NewSnapshotError(path, err)
	}
	snapshot, err := Link(record, base)
	if err != nil {
		return nil, errors.NewSnapshotError(path, err)
	}
	return snapshot, nil
}

func isMsgpack(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mp":
		return true
	}
	return false
}

// DecodeSnapshot decodes a snapshot record without linking it
func DecodeSnapshot(data []byte, packed bool) (*SnapshotRecord, error) {
	var record SnapshotRecord
	if packed {
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		dec.DisallowUnknownFields(true)
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("decode msgpack: %w", err)
		}
		return &record, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return &record, nil
}

// EncodeSnapshot is the inverse of DecodeSnapshot
func EncodeSnapshot(record *SnapshotRecord, packed bool) ([]byte, error) {
	if !packed {
		return json.MarshalIndent(record, "", "  ")
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.SetOmitEmpty(true)
	if err := enc.Encode(record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type linker struct {
	base string
	defs map[int]*symbols.Definition
}

// Link resolves definition ids and builds the unit trees. Relative paths are
// taken relative to base.
func Link(record *SnapshotRecord, base string) (*semantic.Snapshot, error) {
	l := &linker{base: base, defs: make(map[int]*symbols.Definition, len(record.Definitions))}
	if err := l.definitions(record.Definitions); err != nil {
		return nil, err
	}

	units := make([]semantic.CompilationUnit, 0, len(record.Units))
	for i := range record.Units {
		u, err := l.unit(&record.Units[i])
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	snapshot := semantic.NewSnapshot(units...)
	for _, inc := range record.Includes {
		m := &semantic.IncludeMap{ParentPath: l.path(inc.Parent)}
		for _, c := range inc.Cues {
			m.Cues = append(m.Cues, semantic.OffsetCue{Local: c.Local, Adjustment: c.Adjustment})
		}
		snapshot.SetIncludeMap(l.path(inc.Path), m)
	}
	return snapshot, nil
}

func (l *linker) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(l.base, p)
}

func (l *linker) ref(id int, field string) (*symbols.Definition, error) {
	if id == 0 {
		return nil, nil
	}
	def, ok := l.defs[id]
	if !ok {
		return nil, fmt.Errorf("%s: unknown definition %d", field, id)
	}
	return def, nil
}

func (l *linker) definitions(records []DefinitionRecord) error {
	for _, r := range records {
		if r.ID == 0 {
			return fmt.Errorf("definition %q: id 0 is reserved", r.Name)
		}
		if _, dup := l.defs[r.ID]; dup {
			return fmt.Errorf("definition %d: duplicate id", r.ID)
		}
		kind, ok := symbols.ParseKind(r.Kind)
		if !ok {
			return fmt.Errorf("definition %d: unknown kind %q", r.ID, r.Kind)
		}
		access, ok := accessNames[r.Access]
		if !ok {
			return fmt.Errorf("definition %d: unknown access %q", r.ID, r.Access)
		}
		def := &symbols.Definition{
			Kind:       kind,
			Name:       r.Name,
			Package:    r.Package,
			Access:     access,
			Static:     r.Static,
			NameStart:  r.NameStart,
			NameEnd:    r.NameEnd,
			Type:       r.Type,
			ReturnType: r.ReturnType,
		}
		if r.Path != "" {
			def.Path = l.path(r.Path)
		}
		for _, p := range r.Params {
			def.Params = append(def.Params, symbols.Param{Name: p.Name, Type: p.Type, Optional: p.Optional, Rest: p.Rest})
		}
		for _, e := range r.Events {
			def.Events = append(def.Events, symbols.Event{Name: e.Name, Type: e.Type})
		}
		l.defs[r.ID] = def
	}

	// second pass: links, members in declaration order
	for _, r := range records {
		def := l.defs[r.ID]
		var err error
		if def.Parent, err = l.ref(r.Parent, "parent"); err != nil {
			return err
		}
		if def.TypeDef, err = l.ref(r.TypeDef, "typeDef"); err != nil {
			return err
		}
		if def.BaseClass, err = l.ref(r.Base, "base"); err != nil {
			return err
		}
		for _, id := range r.Interfaces {
			iface, err := l.ref(id, "interfaces")
			if err != nil {
				return err
			}
			def.Interfaces = append(def.Interfaces, iface)
		}
		if def.Parent != nil {
			def.Parent.Members = append(def.Parent.Members, def)
		}
	}
	return nil
}

func (l *linker) unit(r *UnitRecord) (semantic.CompilationUnit, error) {
	kind, ok := unitKinds[r.Kind]
	if !ok {
		return nil, fmt.Errorf("unit %s: unknown kind %q", r.Path, r.Kind)
	}
	path := l.path(r.Path)

	var text string
	switch {
	case r.Text != nil:
		text = *r.Text
	case kind.IsSource():
		data, err := common.SafeReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", r.Path, err)
		}
		text = string(data)
	}

	var defs []*symbols.Definition
	for _, id := range r.Definitions {
		def, err := l.ref(id, "unit "+r.Path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	root, err := l.node(r.AST)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", r.Path, err)
	}
	var doc *markup.Document
	if r.Markup != nil {
		tag, err := l.tag(r.Markup)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", r.Path, err)
		}
		doc = &markup.Document{Root: tag}
		attachNodes(doc, root)
	}

	unit := semantic.NewUnit(path, kind, text, root, doc, defs)
	if r.ScopeError != "" {
		unit.WithScopeError(fmt.Errorf("%s", r.ScopeError))
	}
	return unit, nil
}

func (l *linker) node(r *NodeRecord) (*ast.Node, error) {
	if r == nil {
		return nil, nil
	}
	kind, ok := ast.ParseKind(r.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown node kind %q", r.Kind)
	}
	literal, ok := literalNames[r.Literal]
	if !ok {
		return nil, fmt.Errorf("unknown literal kind %q", r.Literal)
	}
	if r.End < r.Start {
		return nil, fmt.Errorf("%s node ends before it starts (%d < %d)", r.Kind, r.End, r.Start)
	}
	def, err := l.ref(r.Def, r.Kind+" node")
	if err != nil {
		return nil, err
	}
	n := &ast.Node{
		Kind:    kind,
		Start:   r.Start,
		End:     r.End,
		Name:    r.Name,
		Value:   r.Value,
		Literal: literal,
		Type:    r.Type,
		Def:     def,
	}
	for _, c := range r.Children {
		child, err := l.node(c)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

func (l *linker) tag(r *TagRecord) (*markup.Tag, error) {
	def, err := l.ref(r.Def, "tag "+r.Name)
	if err != nil {
		return nil, err
	}
	t := &markup.Tag{
		Prefix:       r.Prefix,
		Name:         r.Name,
		URI:          r.URI,
		Start:        r.Start,
		End:          r.End,
		PrefixStart:  r.PrefixStart,
		PrefixEnd:    r.PrefixEnd,
		NameStart:    r.NameStart,
		NameEnd:      r.NameEnd,
		StartTagEnd:  r.StartTagEnd,
		ContentStart: r.ContentStart,
		ContentEnd:   r.ContentEnd,
		Definition:   def,
	}
	for _, a := range r.Attributes {
		adef, err := l.ref(a.Def, "attribute "+a.Name)
		if err != nil {
			return nil, err
		}
		t.Attributes = append(t.Attributes, &markup.Attribute{
			Name:       a.Name,
			Start:      a.Start,
			End:        a.End,
			NameStart:  a.NameStart,
			NameEnd:    a.NameEnd,
			ValueStart: a.ValueStart,
			ValueEnd:   a.ValueEnd,
			RawValue:   a.Value,
			Definition: adef,
		})
	}
	for _, c := range r.Children {
		child, err := l.tag(c)
		if err != nil {
			return nil, err
		}
		t.Add(child)
	}
	return t, nil
}

// attachNodes links each tag to the instance or script block node it
// produced. Instances match on their span, scripts on their content.
func attachNodes(doc *markup.Document, root *ast.Node) {
	if root == nil {
		return
	}
	type span struct{ start, end int }
	instances := map[span]*ast.Node{}
	scripts := map[span]*ast.Node{}
	ast.Walk(root, func(n *ast.Node) bool {
		switch n.Kind {
		case ast.KindMarkupInstance:
			instances[span{n.Start, n.End}] = n
		case ast.KindScriptBlock:
			scripts[span{n.Start, n.End}] = n
		}
		return true
	})
	doc.Walk(func(t *markup.Tag) {
		if t.IsScript() {
			t.Node = scripts[span{t.ContentStart, t.ContentEnd}]
			return
		}
		n := instances[span{t.Start, t.End}]
		if n == nil {
			return
		}
		t.Node = n
		for _, c := range n.Children {
			if c.Kind == ast.KindMarkupSpecifier {
				t.Embedded = append(t.Embedded, c)
			}
		}
	})
}
