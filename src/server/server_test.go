package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"mxls/src/internal/common"
	"mxls/src/internal/errors"
	"mxls/src/internal/models/semantic"
	"mxls/src/internal/models/symbols"
	"mxls/src/internal/testutil"
	"mxls/src/server/documents"
	"mxls/src/server/jsonrpc"
	"mxls/src/server/position"
	"mxls/src/server/providers"
	"mxls/src/server/search"
	"mxls/src/server/workspace"
)

type client struct {
	t    *testing.T
	conn *jsonrpc.Conn
	raw  io.Writer
	errc chan error
	next int
}

func startServer(t *testing.T, h *Handler) *client {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	s := NewServer(inR, outW, h)
	errc := make(chan error, 1)
	go func() {
		errc <- s.Serve(context.Background())
		outW.Close()
	}()
	t.Cleanup(func() {
		inW.Close()
		outR.Close()
	})
	return &client{t: t, conn: jsonrpc.NewConn(outR, inW), raw: inW, errc: errc}
}

func (c *client) notify(method string, params interface{}) {
	c.t.Helper()
	require.NoError(c.t, c.conn.Notify(method, params))
}

func (c *client) call(method string, params interface{}) *jsonrpc.Message {
	c.t.Helper()
	c.next++
	id := c.next
	require.NoError(c.t, c.conn.WriteMessage(map[string]interface{}{
		"jsonrpc": jsonrpc.Version,
		"id":      id,
		"method":  method,
		"params":  params,
	}))
	msg, err := c.conn.Read()
	require.NoError(c.t, err)
	require.Equal(c.t, fmt.Sprint(id), string(msg.ID))
	return msg
}

func (c *client) wait() error {
	c.t.Helper()
	select {
	case err := <-c.errc:
		return err
	case <-time.After(5 * time.Second):
		c.t.Fatal("server did not stop")
		return nil
	}
}

func newTestHandler() *Handler {
	return NewHandler(documents.NewStore(), workspace.NewManager(), search.NewEngine(1))
}

func TestServeLifecycle(t *testing.T) {
	c := startServer(t, newTestHandler())

	msg := c.call(protocol.MethodTextDocumentReferences, map[string]interface{}{})
	require.NotNil(t, msg.Error)
	assert.Equal(t, errors.ServerNotInitialized, msg.Error.Code)

	msg = c.call(protocol.MethodInitialize, map[string]interface{}{})
	require.Nil(t, msg.Error)
	var result struct {
		Capabilities struct {
			ReferencesProvider     bool `json:"referencesProvider"`
			ImplementationProvider bool `json:"implementationProvider"`
		} `json:"capabilities"`
		ServerInfo struct {
			Name string `json:"name"`
		} `json:"serverInfo"`
	}
	require.NoError(t, json.Unmarshal(msg.Result, &result))
	assert.Equal(t, "mxls", result.ServerInfo.Name)
	assert.True(t, result.Capabilities.ReferencesProvider)
	assert.True(t, result.Capabilities.ImplementationProvider)
	c.notify(protocol.MethodInitialized, map[string]interface{}{})

	msg = c.call(protocol.MethodShutdown, nil)
	assert.Nil(t, msg.Error)
	assert.Contains(t, []string{"", "null"}, string(msg.Result))

	msg = c.call(protocol.MethodTextDocumentReferences, map[string]interface{}{})
	require.NotNil(t, msg.Error)
	assert.Equal(t, jsonrpc.InvalidRequest, msg.Error.Code)

	c.notify(protocol.MethodExit, nil)
	assert.ErrorIs(t, c.wait(), ErrExit)
}

func TestExitWithoutShutdown(t *testing.T) {
	c := startServer(t, newTestHandler())
	c.call(protocol.MethodInitialize, map[string]interface{}{})
	c.notify(protocol.MethodExit, nil)
	assert.ErrorIs(t, c.wait(), ErrExitWithoutShutdown)
}

func TestServeEndOfInput(t *testing.T) {
	inR, inW := io.Pipe()
	s := NewServer(inR, io.Discard, newTestHandler())
	inW.Close()
	assert.NoError(t, s.Serve(context.Background()))
}

func TestServeRejectsBadMessages(t *testing.T) {
	c := startServer(t, newTestHandler())
	c.call(protocol.MethodInitialize, map[string]interface{}{})

	_, err := fmt.Fprint(c.raw, "Content-Length: 5\r\n\r\n{bad}")
	require.NoError(t, err)
	msg, err := c.conn.Read()
	// error replies to unparsable requests carry a null id
	require.Error(t, err)
	require.NotNil(t, msg)
	require.NotNil(t, msg.Error)
	assert.Equal(t, jsonrpc.ParseError, msg.Error.Code)

	msg = c.call("textDocument/hover", map[string]interface{}{})
	require.NotNil(t, msg.Error)
	assert.Equal(t, jsonrpc.MethodNotFound, msg.Error.Code)

	msg = c.call(protocol.MethodTextDocumentCodeAction, "not an object")
	require.NotNil(t, msg.Error)
	assert.Equal(t, jsonrpc.InvalidParams, msg.Error.Code)

	msg = c.call(protocol.MethodTextDocumentReferences, nil)
	require.NotNil(t, msg.Error)
	assert.Equal(t, errors.MissingParameter, msg.Error.Code)
}

func TestServeReferences(t *testing.T) {
	widgetSrc := testutil.NewSource("/work/src/ui/Widget.as", "package ui { public class Widget {} }")
	widget := widgetSrc.DeclareClass("ui", "Widget")
	aSrc := testutil.NewSource("/work/src/app/A.as", "var first:Widget = new Widget();")
	aRoot := aSrc.File(aSrc.Ident("Widget", 0, widget), aSrc.Ident("Widget", 1, widget))

	h := newTestHandler()
	folder, err := h.Workspace().AddFolder(workspace.FolderOptions{Root: "/work", SourcePaths: []string{"src/**"}})
	require.NoError(t, err)
	folder.SetProject(semantic.NewSnapshot(
		semantic.NewUnit(widgetSrc.Path, semantic.UnitScript, widgetSrc.Text, widgetSrc.File(), nil, []*symbols.Definition{widget}),
		semantic.NewUnit(aSrc.Path, semantic.UnitScript, aSrc.Text, aRoot, nil, nil),
	))

	c := startServer(t, h)
	c.call(protocol.MethodInitialize, map[string]interface{}{})

	uri := common.FilePathToURI(aSrc.Path)
	c.notify(protocol.MethodTextDocumentDidOpen, map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": uri, "languageId": "actionscript", "version": 1, "text": aSrc.Text},
	})
	params := map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": uri},
		"position":     position.NewLineIndex(aSrc.Text).PositionAt(aSrc.Index("Widget", 0) + 1),
		"context":      map[string]interface{}{"includeDeclaration": true},
	}

	msg := c.call(protocol.MethodTextDocumentReferences, params)
	require.Nil(t, msg.Error)
	var locs []protocol.Location
	require.NoError(t, json.Unmarshal(msg.Result, &locs))
	require.Len(t, locs, 2)
	assert.Equal(t, uri, locs[0].URI)

	c.notify(protocol.MethodTextDocumentDidChange, map[string]interface{}{
		"textDocument":   map[string]interface{}{"uri": uri, "version": 2},
		"contentChanges": []map[string]interface{}{{"text": aSrc.Text + "\n"}},
	})
	// notifications are applied before any later request is answered
	msg = c.call(protocol.MethodTextDocumentReferences, params)
	require.Nil(t, msg.Error)
	text, ok := h.Documents().Text(aSrc.Path)
	require.True(t, ok)
	assert.Equal(t, aSrc.Text+"\n", text)

	c.notify(protocol.MethodTextDocumentDidClose, map[string]interface{}{"textDocument": map[string]interface{}{"uri": uri}})
	msg = c.call(protocol.MethodTextDocumentReferences, params)
	require.Nil(t, msg.Error)
	assert.JSONEq(t, "[]", string(msg.Result))
}

func TestCancelRequest(t *testing.T) {
	s := NewServer(nil, io.Discard, newTestHandler())
	ctx, cancel := context.WithCancel(context.Background())
	s.inflight["7"] = cancel

	s.cancel("8")
	assert.NoError(t, ctx.Err())
	s.cancel("7")
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestHandlerRecoversFromPanics(t *testing.T) {
	h := newTestHandler()
	h.providers = providers.New(nil, nil, nil)

	locs, err := h.References(context.Background(), &protocol.ReferenceParams{})
	assert.NoError(t, err)
	assert.Empty(t, locs)

	actions, err := h.CodeAction(context.Background(), &protocol.CodeActionParams{})
	assert.NoError(t, err)
	assert.NotNil(t, actions)
}
