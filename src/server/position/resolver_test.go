package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"mxls/src/internal/models/ast"
	"mxls/src/internal/models/markup"
	"mxls/src/internal/testutil"
)

const groupMarkup = `<s:Group xmlns:fx="http://ns.adobe.com/mxml/2009" xmlns:s="library://ns.adobe.com/flex/spark">
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
	doc    *Document
	button *markup.Tag
	script *markup.Tag
	call   *ast.Node
}

func newMarkupFixture() *markupFixture {
	src := testutil.NewSource("/src/Panel.mxml", groupMarkup)
	group := src.Tag("s:Group", 0, nil)
	script := src.Tag("fx:Script", 0, nil)
	button := src.Tag("s:Button", 0, nil)
	group.Add(script, button)

	handleOk := src.Ident("handleOk", 0, nil)
	call := src.Call(handleOk, src.Ident("event", 0, nil))
	buttonNode := testutil.Instance(button, testutil.Specifier(button, "click", call))
	block := testutil.ScriptBlock(script, src.Var("count", 0, nil, nil))
	root := src.File(testutil.Instance(group, block, buttonNode))

	return &markupFixture{
		src:    src,
		doc:    &Document{Text: src.Text, Root: root, Markup: &markup.Document{Root: group}},
		button: button,
		script: script,
		call:   call,
	}
}

func (f *markupFixture) pos(offset int) protocol.Position {
	return NewLineIndex(f.src.Text).PositionAt(offset)
}

func TestResolveDiagnosticShiftsIntoEmbeddedScript(t *testing.T) {
	f := newMarkupFixture()
	quote := f.src.Index(`"handleOk`, 0)

	atQuote, ok := f.doc.ResolveDiagnostic(f.pos(quote))
	require.True(t, ok)
	atName, ok := f.doc.ResolveDiagnostic(f.pos(quote + 1))
	require.True(t, ok)

	assert.Equal(t, EmbeddedNode, atQuote.State)
	assert.Equal(t, ast.KindIdentifier, atQuote.Node.Kind)
	assert.Equal(t, "handleOk", atQuote.Node.Name)
	assert.Same(t, atQuote.Node, atName.Node)
	assert.Same(t, f.button, atQuote.Tag)
}

func TestResolveDiagnosticKeepsHostNodeOutsideEmbeddedRegions(t *testing.T) {
	f := newMarkupFixture()

	res, ok := f.doc.ResolveDiagnostic(f.pos(f.button.NameStart))
	require.True(t, ok)
	assert.Equal(t, HostNode, res.State)
	assert.Same(t, f.button.Node, res.Node)

	count := f.src.Index("count", 0)
	res, ok = f.doc.ResolveDiagnostic(f.pos(count))
	require.True(t, ok)
	assert.Equal(t, HostNode, res.State)
	assert.Equal(t, "count", res.Node.Name)
}

func TestResolveCursor(t *testing.T) {
	f := newMarkupFixture()

	event := f.src.Index("event)", 0)
	res, ok := f.doc.ResolveCursor(f.pos(event))
	require.True(t, ok)
	assert.Equal(t, EmbeddedNode, res.State)
	assert.Equal(t, "event", res.Node.Name)

	res, ok = f.doc.ResolveCursor(f.pos(f.button.NameStart + 1))
	require.True(t, ok)
	assert.Equal(t, MarkupName, res.State)
	assert.Nil(t, res.Node)
	assert.Same(t, f.button, res.Tag)

	count := f.src.Index("count", 0)
	res, ok = f.doc.ResolveCursor(f.pos(count + 2))
	require.True(t, ok)
	assert.Equal(t, HostNode, res.State, "script tags resolve through the host tree")
	assert.Equal(t, "count", res.Node.Name)
}

func TestResolveOutsideText(t *testing.T) {
	f := newMarkupFixture()
	beyond := protocol.Position{Line: 40, Character: 0}

	_, ok := f.doc.ResolveDiagnostic(beyond)
	assert.False(t, ok)
	_, ok = f.doc.ResolveCursor(beyond)
	assert.False(t, ok)
}

func TestResolveScript(t *testing.T) {
	src := testutil.NewSource("/src/Counter.as", "package {\n\tpublic class Counter {\n\t\tprivate var total:int;\n\t}\n}\n")
	def := src.DeclareClass("", "Counter")
	total := src.Var("total", 0, nil, nil)
	root := src.File(src.Package("", src.Class("Counter", def, nil, total)))
	doc := &Document{Text: src.Text, Root: root}

	res, ok := doc.ResolveDiagnostic(NewLineIndex(src.Text).PositionAt(src.Index("total", 0) + 1))
	require.True(t, ok)
	assert.Equal(t, HostNode, res.State)
	assert.Equal(t, ast.KindIdentifier, res.Node.Kind)
	assert.Equal(t, "total", res.Node.Name)

	res, ok = doc.ResolveCursor(NewLineIndex(src.Text).PositionAt(src.Index("Counter", 0)))
	require.True(t, ok)
	assert.Same(t, def, res.Node.Def)
}
