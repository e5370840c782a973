package codeaction

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"mxls/src/internal/common"
	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/markup"
	"mxls/src/internal/models/semantic"
	"mxls/src/internal/models/symbols"
	"mxls/src/internal/testutil"
	"mxls/src/server/position"
	"mxls/src/utils/lspconv"
)

const mainScript = `package app
{
	import flash.display.Sprite;

	public class Main extends Sprite
	{
		public function Main()
		{
			addEventListener("click", handleClick);
			total = 1;
			this.label = "ok";
			compute(total, "a");
			Foo.create();
			try
			{
				total = 2;
			}
		}
	}
}
`

type mainFixture struct {
	src *testutil.Source
	lib *testutil.Library
	def *symbols.Definition
	req *Request
}

func newMainFixture() *mainFixture {
	lib := testutil.NewLibrary()
	src := testutil.NewSource("/work/src/app/Main.as", mainScript)
	def := src.DeclareClass("app", "Main")
	def.BaseClass = lib.Sprite
	ctor := src.DeclareMember(def, symbols.KindFunction, "function Main", "Main")

	register := lib.EventDispatcher.Member("addEventListener", symbols.KindFunction)
	addListener := src.Call(src.Ident("addEventListener", 0, register), src.Str("click", 0), src.Ident("handleClick", 0, nil))
	compute := src.Call(src.Ident("compute", 0, nil), src.Ident("total", 1, nil), src.Str("a", 0))
	create := src.Call(testutil.Member(src.Ident("Foo", 0, nil), src.Ident("create", 0, nil)))
	try := src.Try(0, []*ast.Node{assignment(src, src.Ident("total", 2, nil), src.Num("2", 0))})

	body := src.Function("function ", "Main", 0, ctor, nil,
		src.Stmt(addListener),
		assignment(src, src.Ident("total", 0, nil), src.Num("1", 0)),
		assignment(src, testutil.Member(src.This(0), src.Ident("label", 0, nil)), src.Str("ok", 0)),
		src.Stmt(compute),
		src.Stmt(create),
		try,
	)
	class := src.Class("Main", def, []*ast.Node{src.Ident("Sprite", 1, lib.Sprite)}, body)
	root := src.File(src.Package("app", src.Import("flash.display.Sprite", 0), class))

	unit := semantic.NewUnit(src.Path, semantic.UnitScript, src.Text, root, nil, []*symbols.Definition{def})
	project := semantic.NewSnapshot(unit, fooUnit("pkg1"), fooUnit("pkg2"), lib.Unit)
	return &mainFixture{src: src, lib: lib, def: def, req: newRequest(src, root, nil, project, unit)}
}

func fooUnit(pkg string) semantic.CompilationUnit {
	path := "/work/src/" + pkg + "/Foo.as"
	foo := &symbols.Definition{Kind: symbols.KindClass, Name: "Foo", Package: pkg, Path: path}
	return semantic.NewUnit(path, semantic.UnitScript, "", nil, nil, []*symbols.Definition{foo})
}

// assignment is `target = value;`
func assignment(src *testutil.Source, target, value *ast.Node) *ast.Node {
	end := src.IndexAfter(";", value.End) + 1
	return testutil.Node(ast.KindStatement, target.Start, end, target, value)
}

const panelMarkup = `<s:Group xmlns:fx="http://ns.adobe.com/mxml/2009" xmlns:s="library://ns.adobe.com/flex/spark">
	<fx:Script>
		<![CDATA[
			private var count:int;
		]]>
	</fx:Script>
	<s:Button click="handleOk(event)"/>
</s:Group>
`

type markupFixture struct {
	src    *testutil.Source
	button *markup.Tag
	req    *Request
}

func newPanelFixture() *markupFixture {
	lib := testutil.NewLibrary()
	src := testutil.NewSource("/work/src/Panel.mxml", panelMarkup)
	def := &symbols.Definition{Kind: symbols.KindClass, Name: "Panel", Path: src.Path}

	group := src.Tag("s:Group", 0, nil)
	script := src.Tag("fx:Script", 0, nil)
	button := src.Tag("s:Button", 0, nil)
	group.Add(script, button)

	event := &symbols.Definition{Kind: symbols.KindVariable, Name: "event", TypeDef: lib.MouseEvent}
	call := src.Call(src.Ident("handleOk", 0, nil), src.Ident("event", 0, event))
	buttonNode := testutil.Instance(button, testutil.Specifier(button, "click", call))
	block := testutil.ScriptBlock(script, src.Var("count", 0, nil, nil))
	root := src.File(testutil.Instance(group, block, buttonNode))

	doc := &markup.Document{Root: group}
	unit := semantic.NewUnit(src.Path, semantic.UnitMarkup, src.Text, root, doc, []*symbols.Definition{def})
	project := semantic.NewSnapshot(unit, lib.Unit)
	return &markupFixture{src: src, button: button, req: newRequest(src, root, doc, project, unit)}
}

const bareMarkup = `<s:Group xmlns:fx="http://ns.adobe.com/mxml/2009" xmlns:s="library://ns.adobe.com/flex/spark">
	<s:Button label="{caption}"/>
</s:Group>
`

func newBareFixture() *markupFixture {
	src := testutil.NewSource("/work/src/Bare.mxml", bareMarkup)
	def := &symbols.Definition{Kind: symbols.KindClass, Name: "Bare", Path: src.Path}

	group := src.Tag("s:Group", 0, nil)
	button := src.Tag("s:Button", 0, nil)
	group.Add(button)
	buttonNode := testutil.Instance(button, testutil.Specifier(button, "label", src.Ident("caption", 0, nil)))
	root := src.File(testutil.Instance(group, buttonNode))

	doc := &markup.Document{Root: group}
	unit := semantic.NewUnit(src.Path, semantic.UnitMarkup, src.Text, root, doc, []*symbols.Definition{def})
	return &markupFixture{src: src, button: button, req: newRequest(src, root, doc, semantic.NewSnapshot(unit), unit)}
}

func newRequest(src *testutil.Source, root *ast.Node, doc *markup.Document, project semantic.Project, unit semantic.CompilationUnit) *Request {
	document := &position.Document{Text: src.Text, Root: root, Markup: doc}
	return NewRequest(common.FilePathToURI(src.Path), src.Path, document, project, unit)
}

// diagnosticAt builds a zero width diagnostic starting at offset
func diagnosticAt(src *testutil.Source, code string, offset int) protocol.Diagnostic {
	p := position.NewLineIndex(src.Text).PositionAt(offset)
	return protocol.Diagnostic{Range: protocol.Range{Start: p, End: p}, Code: code}
}

func titles(actions []protocol.CodeAction) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Title)
	}
	return out
}

func findAction(t *testing.T, actions []protocol.CodeAction, title string) protocol.CodeAction {
	t.Helper()
	for _, a := range actions {
		if a.Title == title {
			return a
		}
	}
	require.Failf(t, "missing action", "no %q in %v", title, titles(actions))
	return protocol.CodeAction{}
}

// apply runs an action's edits against the request text
func apply(t *testing.T, req *Request, action protocol.CodeAction) string {
	t.Helper()
	require.NotNil(t, action.Edit)
	edits, ok := action.Edit.Changes[req.URI]
	require.True(t, ok, "action edits another document")
	out, err := lspconv.ApplyEdits(req.Doc.Text, edits)
	require.NoError(t, err)
	return out
}
