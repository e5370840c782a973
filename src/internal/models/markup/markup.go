// Package markup models the tag tree of a markup compilation unit.
package markup

import (
	"strings"

	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/symbols"
)

// LanguageNamespace is the namespace of the markup language tags
const LanguageNamespace = "http://ns.adobe.com/mxml/2009"

const defaultLanguagePrefix = "fx"

// Tags whose content is not markup
var languageTags = map[string]bool{
	"Script":   true,
	"Style":    true,
	"Metadata": true,
}

// Document is the parsed markup tree of one file
type Document struct {
	Root *Tag
}

// Tag is an element. Start/End span the whole element, NameStart/NameEnd the
// local name in the start tag, StartTagEnd the offset just past its '>'.
// ContentStart/ContentEnd delimit the text content (CDATA body for scripts).
type Tag struct {
	Prefix       string
	Name         string
	URI          string
	Start        int
	End          int
	PrefixStart  int
	PrefixEnd    int
	NameStart    int
	NameEnd      int
	StartTagEnd  int
	ContentStart int
	ContentEnd   int

	Attributes []*Attribute
	Children   []*Tag
	Parent     *Tag

	// Definition is the component class or property the tag binds to.
	Definition *symbols.Definition
	// Node is the instance or script block this tag produced in the unit's tree.
	Node *ast.Node
	// Embedded are the script regions hosted by the tag's attributes.
	Embedded []*ast.Node
}

// Attribute is name="value" on a start tag. ValueStart/ValueEnd exclude the quotes.
type Attribute struct {
	Name       string
	Start      int
	End        int
	NameStart  int
	NameEnd    int
	ValueStart int
	ValueEnd   int
	RawValue   string

	Definition *symbols.Definition
}

// Add appends children and links them to t
func (t *Tag) Add(children ...*Tag) *Tag {
	for _, c := range children {
		c.Parent = t
		t.Children = append(t.Children, c)
	}
	return t
}

func (t *Tag) contains(offset int) bool {
	return t.Start <= offset && offset <= t.End
}

// IsLanguageTag reports whether t is a Script, Style or Metadata tag of the language namespace
func (t *Tag) IsLanguageTag() bool {
	return t.URI == LanguageNamespace && languageTags[t.Name]
}

// IsScript reports whether t is a script block
func (t *Tag) IsScript() bool {
	return t.URI == LanguageNamespace && t.Name == "Script"
}

// CodeIntelligenceAvailable is false for tags whose body is not markup
func (t *Tag) CodeIntelligenceAvailable() bool {
	return !t.IsLanguageTag()
}

// IsInsidePrefix reports whether offset falls on the tag's namespace prefix
func (t *Tag) IsInsidePrefix(offset int) bool {
	return t.Prefix != "" && t.PrefixStart <= offset && offset <= t.PrefixEnd
}

// Attribute returns the attribute with the given name
func (t *Tag) Attribute(name string) *Attribute {
	for _, a := range t.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// AttributeWithValueAt returns the attribute whose value contains offset
func (t *Tag) AttributeWithValueAt(offset int) *Attribute {
	for _, a := range t.Attributes {
		if a.ValueStart <= offset && offset <= a.ValueEnd {
			return a
		}
	}
	return nil
}

// DefinitionAtNameOffset resolves a tag name or attribute name at offset
func (t *Tag) DefinitionAtNameOffset(offset int) *symbols.Definition {
	if t.NameStart <= offset && offset <= t.NameEnd {
		return t.Definition
	}
	for _, a := range t.Attributes {
		if a.NameStart <= offset && offset <= a.NameEnd {
			return a.Definition
		}
	}
	return nil
}

// TagAt returns the innermost tag containing offset
func (d *Document) TagAt(offset int) *Tag {
	if d == nil || d.Root == nil || !d.Root.contains(offset) {
		return nil
	}
	t := d.Root
	for {
		var next *Tag
		for _, c := range t.Children {
			if c.contains(offset) {
				next = c
				break
			}
		}
		if next == nil {
			return t
		}
		t = next
	}
}

// Walk visits every tag in document order
func (d *Document) Walk(visit func(*Tag)) {
	if d == nil || d.Root == nil {
		return
	}
	var walk func(*Tag)
	walk = func(t *Tag) {
		visit(t)
		for _, c := range t.Children {
			walk(c)
		}
	}
	walk(d.Root)
}

// ScriptTags returns the script blocks in document order
func (d *Document) ScriptTags() []*Tag {
	var out []*Tag
	d.Walk(func(t *Tag) {
		if t.IsScript() {
			out = append(out, t)
		}
	})
	return out
}

// LanguagePrefix returns the prefix the root binds to the language namespace
func (d *Document) LanguagePrefix() string {
	if d == nil || d.Root == nil {
		return defaultLanguagePrefix
	}
	var prefix string
	d.Walk(func(t *Tag) {
		if prefix == "" && t.URI == LanguageNamespace && t.Prefix != "" {
			prefix = t.Prefix
		}
	})
	for _, a := range d.Root.Attributes {
		if a.RawValue == LanguageNamespace && strings.HasPrefix(a.Name, "xmlns:") {
			return strings.TrimPrefix(a.Name, "xmlns:")
		}
	}
	if prefix != "" {
		return prefix
	}
	return defaultLanguagePrefix
}
