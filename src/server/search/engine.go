// Package search answers project wide symbol queries over a semantic snapshot.
package search

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"mxls/src/internal/common"
	"mxls/src/internal/errors"
	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/markup"
	"mxls/src/internal/models/semantic"
	"mxls/src/internal/models/symbols"
)

// Location is a byte range in a compilation unit
type Location struct {
	Path  string
	Start int
	End   int
}

// Engine fans a query out over compilation units with a bounded number of
// workers. Results keep compilation unit order.
type Engine struct {
	workers int
	logger  *common.SafeLogger
}

// NewEngine creates an engine; workers <= 0 uses GOMAXPROCS
func NewEngine(workers int) *Engine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{workers: workers, logger: common.SearchLogger}
}

// unitQuery collects one unit's contribution
type unitQuery func(ctx context.Context, unit semantic.CompilationUnit, defs []*symbols.Definition) []Location

// each runs query over units in parallel. Units whose scope cannot be built
// are skipped; cancellation discards everything.
func (e *Engine) each(ctx context.Context, units []semantic.CompilationUnit, query unitQuery) ([]Location, error) {
	if len(units) == 0 {
		return nil, ctx.Err()
	}
	buckets := make([][]Location, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(e.workers, len(units)))
	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defs, err := unit.ScopeDefinitions(gctx)
			if err != nil {
				if errors.IsCancellationError(err) {
					return err
				}
				e.logger.Debug("skipping %s: %v", unit.Path(), err)
				return nil
			}
			// each index is written by exactly one goroutine
			buckets[i] = query(gctx, unit, defs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []Location
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out, nil
}

// Implementations finds the source classes that implement iface directly or
// through base classes and interface inheritance
func (e *Engine) Implementations(ctx context.Context, p semantic.Project, iface *symbols.Definition) ([]Location, error) {
	if !iface.IsInterface() {
		return nil, nil
	}
	return e.each(ctx, sourceUnits(p), func(_ context.Context, _ semantic.CompilationUnit, defs []*symbols.Definition) []Location {
		var out []Location
		for _, d := range defs {
			if d.IsClass() && symbols.Implements(d, iface) {
				out = append(out, Location{Path: d.Path, Start: d.NameStart, End: d.NameEnd})
			}
		}
		return out
	})
}

// References finds every markup binding and identifier that resolves to def
func (e *Engine) References(ctx context.Context, p semantic.Project, def *symbols.Definition) ([]Location, error) {
	if def == nil {
		return nil, nil
	}
	return e.each(ctx, sourceUnits(p), func(_ context.Context, unit semantic.CompilationUnit, defs []*symbols.Definition) []Location {
		var out []Location
		if doc := unit.Markup(); doc != nil {
			out = append(out, markupReferences(unit.Path(), doc, rootClass(defs), def)...)
		}
		for _, id := range ast.Identifiers(unit.AST()) {
			if id.Def == def {
				out = append(out, Location{Path: unit.Path(), Start: id.Start, End: id.End})
			}
		}
		return out
	})
}

// sourceUnits drops precompiled library units
func sourceUnits(p semantic.Project) []semantic.CompilationUnit {
	var units []semantic.CompilationUnit
	for _, u := range p.CompilationUnits() {
		if u.Kind().IsSource() {
			units = append(units, u)
		}
	}
	return units
}

// markupReferences covers component tags, property attributes and id
// attributes naming a member of the document class
func markupReferences(path string, doc *markup.Document, root, def *symbols.Definition) []Location {
	var out []Location
	doc.Walk(func(t *markup.Tag) {
		if t.Definition == def {
			out = append(out, Location{Path: path, Start: t.NameStart, End: t.NameEnd})
		}
		for _, a := range t.Attributes {
			switch {
			case a.Definition == def:
				out = append(out, Location{Path: path, Start: a.NameStart, End: a.NameEnd})
			case a.Name == "id" && a.RawValue == def.Name && root != nil && def.Parent == root:
				out = append(out, Location{Path: path, Start: a.ValueStart, End: a.ValueEnd})
			}
		}
	})
	return out
}

func rootClass(defs []*symbols.Definition) *symbols.Definition {
	for _, d := range defs {
		if d.IsClass() {
			return d
		}
	}
	return nil
}

// IDFallback resolves the value of a markup id attribute by name: the first
// member of the unit's root class called raw. Shadowed or renamed members
// are not told apart.
func IDFallback(ctx context.Context, unit semantic.CompilationUnit, raw string) *symbols.Definition {
	defs, err := unit.ScopeDefinitions(ctx)
	if err != nil {
		return nil
	}
	root := rootClass(defs)
	if root == nil {
		return nil
	}
	for _, m := range root.Members {
		if m.Name == raw {
			return m
		}
	}
	return nil
}
