package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mxls/src/internal/errors"
)

func frame(body string) string {
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

func TestReadClassifiesMessages(t *testing.T) {
	stream := frame(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`) +
		frame(`{"jsonrpc":"2.0","method":"initialized","params":{}}`) +
		"Content-Type: application/vscode-jsonrpc; charset=utf-8\r\n" +
		frame(`{"jsonrpc":"2.0","id":"a","result":null}`)
	c := NewConn(strings.NewReader(stream), io.Discard)

	msg, err := c.Read()
	require.NoError(t, err)
	assert.True(t, msg.IsRequest())
	assert.Equal(t, "initialize", msg.Method)
	assert.JSONEq(t, "1", string(msg.ID))

	msg, err = c.Read()
	require.NoError(t, err)
	assert.True(t, msg.IsNotification())

	msg, err = c.Read()
	require.NoError(t, err)
	assert.True(t, msg.IsResponse())

	_, err = c.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReadBadBodies(t *testing.T) {
	c := NewConn(strings.NewReader(frame(`{not json`)+frame(`{"jsonrpc":"1.0","id":2,"method":"x"}`)+frame(`{"jsonrpc":"2.0","method":"ok"}`)), io.Discard)

	_, err := c.Read()
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, ParseError, rpcErr.Code)

	msg, err := c.Read()
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, InvalidRequest, rpcErr.Code)
	assert.JSONEq(t, "2", string(msg.ID))

	msg, err = c.Read()
	require.NoError(t, err, "the stream survives bad bodies")
	assert.Equal(t, "ok", msg.Method)
}

func TestReadRejectsBadHeaders(t *testing.T) {
	for _, stream := range []string{
		"Content-Length: many\r\n\r\n{}",
		"garbage\r\n\r\n{}",
		"Content-Length: 10\r\n\r\n{}",
	} {
		_, err := NewConn(strings.NewReader(stream), io.Discard).Read()
		assert.Error(t, err, stream)
	}
}

func TestReplyShapes(t *testing.T) {
	var buf bytes.Buffer
	c := NewConn(strings.NewReader(""), &buf)

	require.NoError(t, c.Reply(json.RawMessage("7"), nil, nil))
	require.NoError(t, c.Reply(json.RawMessage(`"x"`), nil, NewMethodNotFoundError("foo/bar")))
	require.NoError(t, c.Notify("window/logMessage", map[string]any{"type": 3, "message": "hi"}))

	raw := buf.String()
	assert.Contains(t, raw, `{"jsonrpc":"2.0","id":7,"result":null}`)
	assert.NotContains(t, raw, `"id":"x","result"`)

	r := NewConn(&buf, io.Discard)
	first, err := r.Read()
	require.NoError(t, err)
	assert.True(t, first.IsResponse())
	assert.Nil(t, first.Error)

	second, err := r.Read()
	require.NoError(t, err)
	require.NotNil(t, second.Error)
	assert.Equal(t, MethodNotFound, second.Error.Code)
	assert.Empty(t, second.Result)

	third, err := r.Read()
	require.NoError(t, err)
	assert.True(t, third.IsNotification())
}

func TestFromError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{context.Canceled, errors.RequestCancelled},
		{errors.NewValidationError("position", "bad"), InvalidParams},
		{errors.NewDocumentNotOpenError("/a.as"), errors.InvalidTextDocument},
		{fmt.Errorf("wrapped: %w", NewRPCError(InvalidRequest, "x", nil)), InvalidRequest},
		{fmt.Errorf("boom"), InternalError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, FromError(tt.err).Code, tt.err.Error())
	}
	assert.Nil(t, FromError(nil))
}
