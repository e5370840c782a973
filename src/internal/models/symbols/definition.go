// Package symbols models resolved declarations exported by the compiler.
package symbols

import "strings"

// Kind identifies the declaration form of a Definition
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindFunction
	KindGetter
	KindSetter
	KindVariable
	KindConstant

	// AnyKind matches every kind in lookups
	AnyKind Kind = -1
)

var kindNames = map[Kind]string{
	KindClass:     "class",
	KindInterface: "interface",
	KindFunction:  "function",
	KindGetter:    "getter",
	KindSetter:    "setter",
	KindVariable:  "variable",
	KindConstant:  "constant",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Access is the namespace a definition is declared in
type Access int

const (
	AccessPublic Access = iota
	AccessInternal
	AccessProtected
	AccessPrivate
)

// Param is a function parameter as declared
type Param struct {
	Name     string
	Type     string
	Optional bool
	Rest     bool
}

// Event is an [Event] metadata contract declared on a class
type Event struct {
	Name string
	Type string
}

// Definition is a named declaration. Two definitions are the same symbol only
// when they are the same pointer.
type Definition struct {
	Kind    Kind
	Name    string
	Package string
	Access  Access
	Static  bool

	// Path and NameStart/NameEnd locate the declaring identifier.
	Path      string
	NameStart int
	NameEnd   int

	Parent *Definition

	// Type is the declared type of a variable, constant or accessor.
	Type       string
	TypeDef    *Definition
	ReturnType string
	Params     []Param

	BaseClass  *Definition
	Interfaces []*Definition
	Members    []*Definition
	Events     []Event
}

// QualifiedName returns the dotted package path joined with the base name
func (d *Definition) QualifiedName() string {
	if d.Package == "" {
		return d.Name
	}
	return d.Package + "." + d.Name
}

func (d *Definition) IsClass() bool     { return d != nil && d.Kind == KindClass }
func (d *Definition) IsInterface() bool { return d != nil && d.Kind == KindInterface }

// IsFunctionLike reports whether the definition has a call signature
func (d *Definition) IsFunctionLike() bool {
	return d.Kind == KindFunction || d.Kind == KindGetter || d.Kind == KindSetter
}

// IsTopLevel reports whether the definition lives directly in a package
func (d *Definition) IsTopLevel() bool {
	return d.Parent == nil
}

// IsExternallyVisible reports whether other compilation units may reference the definition
func (d *Definition) IsExternallyVisible() bool {
	return d.IsTopLevel() && d.Access == AccessPublic
}

// Member looks up a member declared directly on d
func (d *Definition) Member(name string, kind Kind) *Definition {
	for _, m := range d.Members {
		if m.Name == name && m.Kind == kind {
			return m
		}
	}
	return nil
}

// FindMember looks up a member by name on d or any of its base classes
func (d *Definition) FindMember(name string, kind Kind) *Definition {
	seen := map[*Definition]bool{}
	for c := d; c != nil && !seen[c]; c = c.BaseClass {
		seen[c] = true
		for _, m := range c.Members {
			if m.Name != name {
				continue
			}
			if kind == AnyKind || m.Kind == kind {
				return m
			}
		}
	}
	return nil
}

// FindEvent returns the event contract named name on d or its base classes
func (d *Definition) FindEvent(name string) (Event, bool) {
	seen := map[*Definition]bool{}
	for c := d; c != nil && !seen[c]; c = c.BaseClass {
		seen[c] = true
		for _, e := range c.Events {
			if e.Name == name {
				return e, true
			}
		}
	}
	return Event{}, false
}

// Implements reports whether class nominally implements iface, directly,
// through a base class, or through interface inheritance.
func Implements(class, iface *Definition) bool {
	if !class.IsClass() || !iface.IsInterface() {
		return false
	}
	visited := map[*Definition]bool{}
	for c := class; c != nil && !visited[c]; c = c.BaseClass {
		visited[c] = true
		for _, i := range c.Interfaces {
			if extends(i, iface, visited) {
				return true
			}
		}
	}
	return false
}

func extends(i, target *Definition, visited map[*Definition]bool) bool {
	if i == target {
		return true
	}
	if i == nil || visited[i] {
		return false
	}
	visited[i] = true
	for _, super := range i.Interfaces {
		if extends(super, target, visited) {
			return true
		}
	}
	return false
}

// InterfaceMembers returns the members of iface and of every interface it
// extends, first declaration wins.
func InterfaceMembers(iface *Definition) []*Definition {
	var out []*Definition
	seen := map[string]bool{}
	visited := map[*Definition]bool{}
	var walk func(*Definition)
	walk = func(i *Definition) {
		if i == nil || visited[i] {
			return
		}
		visited[i] = true
		for _, m := range i.Members {
			key := m.Kind.String() + " " + m.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, m)
		}
		for _, super := range i.Interfaces {
			walk(super)
		}
	}
	walk(iface)
	return out
}

// BaseName strips the package qualifier from a type name
func BaseName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// PackageOf returns the package qualifier of a type name
func PackageOf(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[:i]
	}
	return ""
}
