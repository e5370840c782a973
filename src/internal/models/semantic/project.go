// Package semantic exposes the read-only project model handed to requests.
package semantic

import (
	"context"
	"path/filepath"

	"mxls/src/internal/errors"
	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/markup"
	"mxls/src/internal/models/symbols"
)

// UnitKind distinguishes source units from precompiled ones
type UnitKind int

const (
	UnitScript UnitKind = iota
	UnitMarkup
	UnitLibrary
)

func (k UnitKind) String() string {
	switch k {
	case UnitScript:
		return "script"
	case UnitMarkup:
		return "markup"
	case UnitLibrary:
		return "library"
	}
	return "unknown"
}

// IsSource reports whether the unit was compiled from a file in the project
func (k UnitKind) IsSource() bool {
	return k == UnitScript || k == UnitMarkup
}

// CompilationUnit is one analyzed file
type CompilationUnit interface {
	Path() string
	Kind() UnitKind
	Text() string
	AST() *ast.Node
	Markup() *markup.Document
	// ScopeDefinitions returns the unit's externally visible top-level
	// definitions. It fails when the compiler could not build the scope.
	ScopeDefinitions(ctx context.Context) ([]*symbols.Definition, error)
}

// Project is an immutable snapshot of the analyzed workspace
type Project interface {
	CompilationUnits() []CompilationUnit
	UnitForPath(path string) CompilationUnit
	IncludeMap(path string) *IncludeMap
}

// OffsetCue shifts offsets at or past Local by Adjustment
type OffsetCue struct {
	Local      int
	Adjustment int
}

// IncludeMap records that parts of a document's text live in an including unit
type IncludeMap struct {
	ParentPath string
	Cues       []OffsetCue
}

// Apply maps a document-local offset into the including unit's offsets.
// Cues are sorted by Local; the last one at or before offset wins.
func (m *IncludeMap) Apply(offset int) int {
	if m == nil {
		return offset
	}
	result := offset
	for _, cue := range m.Cues {
		if cue.Local > offset {
			break
		}
		result = offset + cue.Adjustment
	}
	return result
}

// Unit is the in-memory CompilationUnit loaded from a snapshot
type Unit struct {
	path     string
	kind     UnitKind
	text     string
	root     *ast.Node
	doc      *markup.Document
	defs     []*symbols.Definition
	scopeErr error
}

// NewUnit creates a unit. doc is nil for non-markup units.
func NewUnit(path string, kind UnitKind, text string, root *ast.Node, doc *markup.Document, defs []*symbols.Definition) *Unit {
	return &Unit{
		path: filepath.Clean(path),
		kind: kind,
		text: text,
		root: root,
		doc:  doc,
		defs: defs,
	}
}

// WithScopeError makes ScopeDefinitions fail with err
func (u *Unit) WithScopeError(err error) *Unit {
	u.scopeErr = err
	return u
}

func (u *Unit) Path() string             { return u.path }
func (u *Unit) Kind() UnitKind           { return u.kind }
func (u *Unit) Text() string             { return u.text }
func (u *Unit) AST() *ast.Node           { return u.root }
func (u *Unit) Markup() *markup.Document { return u.doc }

func (u *Unit) ScopeDefinitions(ctx context.Context) ([]*symbols.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if u.scopeErr != nil {
		return nil, errors.NewUnitScopeError(u.path, u.scopeErr)
	}
	return u.defs, nil
}

// Snapshot is the in-memory Project
type Snapshot struct {
	units    []CompilationUnit
	byPath   map[string]CompilationUnit
	includes map[string]*IncludeMap
}

// NewSnapshot creates a project over units, keeping their order
func NewSnapshot(units ...CompilationUnit) *Snapshot {
	s := &Snapshot{
		byPath:   make(map[string]CompilationUnit, len(units)),
		includes: make(map[string]*IncludeMap),
	}
	for _, u := range units {
		s.units = append(s.units, u)
		s.byPath[filepath.Clean(u.Path())] = u
	}
	return s
}

// SetIncludeMap registers the inclusion map of a document
func (s *Snapshot) SetIncludeMap(path string, m *IncludeMap) {
	s.includes[filepath.Clean(path)] = m
}

func (s *Snapshot) CompilationUnits() []CompilationUnit {
	return s.units
}

func (s *Snapshot) UnitForPath(path string) CompilationUnit {
	return s.byPath[filepath.Clean(path)]
}

func (s *Snapshot) IncludeMap(path string) *IncludeMap {
	return s.includes[filepath.Clean(path)]
}
