package testutil

import (
	"strings"

	"mxls/src/internal/models/semantic"
	"mxls/src/internal/models/symbols"
)

// DeclareClass creates a public class definition located at "class name"
func (s *Source) DeclareClass(pkg, name string) *symbols.Definition {
	start := s.Index("class "+name, 0) + len("class ")
	return &symbols.Definition{
		Kind: symbols.KindClass, Name: name, Package: pkg, Path: s.Path,
		NameStart: start, NameEnd: start + len(name),
	}
}

// DeclareInterface creates a public interface definition located at "interface name"
func (s *Source) DeclareInterface(pkg, name string) *symbols.Definition {
	start := s.Index("interface "+name, 0) + len("interface ")
	return &symbols.Definition{
		Kind: symbols.KindInterface, Name: name, Package: pkg, Path: s.Path,
		NameStart: start, NameEnd: start + len(name),
	}
}

// DeclareMember adds a member to parent. The name is located inside the
// first occurrence of marker, e.g. "function get value".
func (s *Source) DeclareMember(parent *symbols.Definition, kind symbols.Kind, marker, name string) *symbols.Definition {
	start := s.Index(marker, 0) + strings.LastIndex(marker, name)
	m := &symbols.Definition{
		Kind: kind, Name: name, Path: s.Path, Parent: parent,
		NameStart: start, NameEnd: start + len(name),
	}
	if kind == symbols.KindFunction || kind == symbols.KindGetter || kind == symbols.KindSetter {
		m.ReturnType = "void"
	}
	parent.Members = append(parent.Members, m)
	return m
}

// Library is a precompiled unit with the event classes most fixtures need
type Library struct {
	Event           *symbols.Definition
	MouseEvent      *symbols.Definition
	Click           *symbols.Definition
	EventDispatcher *symbols.Definition
	Sprite          *symbols.Definition
	Unit            *semantic.Unit
}

// NewLibrary creates the library definitions. EventDispatcher dispatches
// "click" as flash.events.MouseEvent.
func NewLibrary() *Library {
	const path = "/sdk/frameworks/libs/player/playerglobal.swc"
	lib := &Library{}
	lib.Event = &symbols.Definition{Kind: symbols.KindClass, Name: "Event", Package: "flash.events", Path: path}
	lib.MouseEvent = &symbols.Definition{Kind: symbols.KindClass, Name: "MouseEvent", Package: "flash.events", Path: path, BaseClass: lib.Event}
	lib.Click = &symbols.Definition{Kind: symbols.KindConstant, Name: "CLICK", Static: true, Type: "String", Path: path, Parent: lib.MouseEvent}
	lib.MouseEvent.Members = []*symbols.Definition{lib.Click}
	lib.EventDispatcher = &symbols.Definition{
		Kind: symbols.KindClass, Name: "EventDispatcher", Package: "flash.events", Path: path,
		Events: []symbols.Event{{Name: "click", Type: "flash.events.MouseEvent"}},
	}
	addEventListener := &symbols.Definition{
		Kind: symbols.KindFunction, Name: "addEventListener", Path: path, Parent: lib.EventDispatcher,
		Params: []symbols.Param{{Name: "type", Type: "String"}, {Name: "listener", Type: "Function"}},
		ReturnType: "void",
	}
	lib.EventDispatcher.Members = []*symbols.Definition{addEventListener}
	lib.Sprite = &symbols.Definition{Kind: symbols.KindClass, Name: "Sprite", Package: "flash.display", Path: path, BaseClass: lib.EventDispatcher}

	lib.Unit = semantic.NewUnit(path, semantic.UnitLibrary, "", nil, nil,
		[]*symbols.Definition{lib.Event, lib.MouseEvent, lib.EventDispatcher, lib.Sprite})
	return lib
}
