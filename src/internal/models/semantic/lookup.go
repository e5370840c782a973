package semantic

import (
	"context"

	"mxls/src/internal/models/symbols"
)

// DefinitionsNamed returns the packaged, externally visible top-level
// definitions whose base name is name, across every unit including
// libraries. Units whose scope fails are skipped. Results keep unit order and
// are unique by qualified name.
func DefinitionsNamed(ctx context.Context, p Project, name string) []*symbols.Definition {
	var out []*symbols.Definition
	seen := map[string]bool{}
	for _, unit := range p.CompilationUnits() {
		if ctx.Err() != nil {
			return nil
		}
		defs, err := unit.ScopeDefinitions(ctx)
		if err != nil {
			continue
		}
		for _, d := range defs {
			if d.Name != name || d.Package == "" || !d.IsExternallyVisible() {
				continue
			}
			q := d.QualifiedName()
			if seen[q] {
				continue
			}
			seen[q] = true
			out = append(out, d)
		}
	}
	return out
}

// FindQualified returns the top-level definition with the given qualified name
func FindQualified(ctx context.Context, p Project, qualified string) *symbols.Definition {
	if p == nil || qualified == "" {
		return nil
	}
	for _, unit := range p.CompilationUnits() {
		defs, err := unit.ScopeDefinitions(ctx)
		if err != nil {
			continue
		}
		for _, d := range defs {
			if d.QualifiedName() == qualified {
				return d
			}
		}
	}
	return nil
}
