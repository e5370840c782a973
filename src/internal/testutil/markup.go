package testutil

import (
	"strings"

	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/markup"
	"mxls/src/internal/models/symbols"
)

const componentNamespace = "library://ns.adobe.com/flex/spark"

// Tag builds the n-th element opened with "<qname". Attributes are scanned
// from the start tag; script content is the CDATA body when present.
func (s *Source) Tag(qname string, n int, def *symbols.Definition) *markup.Tag {
	start := s.Index("<"+qname, n)
	t := &markup.Tag{Start: start, Definition: def}

	nameStart := start + 1
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		t.Prefix = qname[:i]
		t.Name = qname[i+1:]
		t.PrefixStart = nameStart
		t.PrefixEnd = nameStart + i
		t.NameStart = nameStart + i + 1
	} else {
		t.Name = qname
		t.NameStart = nameStart
	}
	t.NameEnd = nameStart + len(qname)
	t.URI = componentNamespace
	if t.Prefix == "fx" {
		t.URI = markup.LanguageNamespace
	}

	gt := s.startTagEnd(t.NameEnd)
	t.StartTagEnd = gt + 1
	t.Attributes = s.attributes(t.NameEnd, gt)

	if s.Text[gt-1] == '/' {
		t.End = t.StartTagEnd
		t.ContentStart, t.ContentEnd = t.StartTagEnd, t.StartTagEnd
		return t
	}
	closeTag := s.IndexAfter("</"+qname+">", t.StartTagEnd)
	t.End = closeTag + len("</"+qname+">")
	t.ContentStart, t.ContentEnd = t.StartTagEnd, closeTag
	if t.Name != "Script" {
		return t
	}
	if cdata := strings.Index(s.Text[t.StartTagEnd:closeTag], "<![CDATA["); cdata >= 0 {
		t.ContentStart = t.StartTagEnd + cdata + len("<![CDATA[")
		t.ContentEnd = s.IndexAfter("]]>", t.ContentStart)
	}
	return t
}

// startTagEnd finds the '>' closing a start tag, skipping quoted values
func (s *Source) startTagEnd(from int) int {
	quoted := byte(0)
	for i := from; i < len(s.Text); i++ {
		c := s.Text[i]
		switch {
		case quoted != 0:
			if c == quoted {
				quoted = 0
			}
		case c == '"' || c == '\'':
			quoted = c
		case c == '>':
			return i
		}
	}
	panic("testutil: unterminated start tag in " + s.Path)
}

func (s *Source) attributes(from, to int) []*markup.Attribute {
	var attrs []*markup.Attribute
	i := from
	for i < to {
		for i < to && (s.Text[i] == ' ' || s.Text[i] == '\t' || s.Text[i] == '\n' || s.Text[i] == '\r' || s.Text[i] == '/') {
			i++
		}
		if i >= to {
			break
		}
		nameStart := i
		for i < to && s.Text[i] != '=' {
			i++
		}
		nameEnd := i
		quote := s.Text[i+1]
		valueStart := i + 2
		valueEnd := strings.IndexByte(s.Text[valueStart:], quote) + valueStart
		attrs = append(attrs, &markup.Attribute{
			Name:       strings.TrimSpace(s.Text[nameStart:nameEnd]),
			Start:      nameStart,
			End:        valueEnd + 1,
			NameStart:  nameStart,
			NameEnd:    nameEnd,
			ValueStart: valueStart,
			ValueEnd:   valueEnd,
			RawValue:   s.Text[valueStart:valueEnd],
		})
		i = valueEnd + 1
	}
	return attrs
}

// Instance attaches a markup instance node to t and returns it
func Instance(t *markup.Tag, children ...*ast.Node) *ast.Node {
	node := Node(ast.KindMarkupInstance, t.Start, t.End, children...)
	node.Def = t.Definition
	t.Node = node
	return node
}

// Specifier hosts script in the value of attribute name on t
func Specifier(t *markup.Tag, name string, children ...*ast.Node) *ast.Node {
	a := t.Attribute(name)
	if a == nil {
		panic("testutil: no attribute " + name)
	}
	node := Node(ast.KindMarkupSpecifier, a.ValueStart, a.ValueEnd, children...)
	node.Name = name
	t.Embedded = append(t.Embedded, node)
	return node
}

// ScriptBlock attaches the script content node of a script tag
func ScriptBlock(t *markup.Tag, children ...*ast.Node) *ast.Node {
	node := Node(ast.KindScriptBlock, t.ContentStart, t.ContentEnd, children...)
	t.Node = node
	return node
}
