// Package jsonrpc frames JSON-RPC 2.0 messages with LSP Content-Length headers.
package jsonrpc

import (
	"bufio"
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"mxls/src/internal/constants"
	"mxls/src/internal/errors"
)

// JSON-RPC protocol constants
const (
	Version = "2.0"
)

// JSON-RPC error codes (RFC 7309)
const (
	ParseError     = errors.ParseError
	InvalidRequest = errors.InvalidRequest
	MethodNotFound = errors.MethodNotFound
	InvalidParams  = errors.InvalidParams
	InternalError  = errors.InternalError
)

// Message is an incoming request, notification or response. ID and Params
// are kept raw so requests can be decoded per method.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// IsRequest reports whether the message expects a reply
func (m *Message) IsRequest() bool {
	return m.Method != "" && hasID(m.ID)
}

// IsNotification reports whether the message is a method call without id
func (m *Message) IsNotification() bool {
	return m.Method != "" && !hasID(m.ID)
}

// IsResponse reports whether the message answers an earlier request
func (m *Message) IsResponse() bool {
	return m.Method == "" && hasID(m.ID)
}

func hasID(id json.RawMessage) bool {
	return len(id) > 0 && !bytes.Equal(id, []byte("null"))
}

// RPCError represents a JSON-RPC error
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// response always carries result unless it carries an error
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result"`
}

type errorResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Error   *RPCError       `json:"error"`
}

type notification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// Conn reads and writes framed messages. Writes are serialized; reads must
// come from a single goroutine.
type Conn struct {
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex
}

func NewConn(r io.Reader, w io.Writer) *Conn {
	return &Conn{
		reader: bufio.NewReaderSize(r, constants.MessageBufferSize),
		writer: w,
	}
}

// Read returns the next message. io.EOF is returned when the stream ends
// between messages. A body that is not valid JSON yields a *RPCError with
// code ParseError; the stream stays usable.
func (c *Conn) Read() (*Message, error) {
	contentLength := -1
	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && strings.TrimSpace(line) == "" && contentLength < 0 {
				return nil, io.EOF
			}
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if contentLength < 0 {
				// stray blank line between messages
				continue
			}
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("malformed header %q", line)
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid Content-Length %q", value)
			}
			if n > constants.MaxContentLength {
				return nil, fmt.Errorf("message of %d bytes exceeds limit", n)
			}
			contentLength = n
		}
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(c.reader, body); err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, NewRPCError(ParseError, "Parse error", err.Error())
	}
	if msg.JSONRPC != Version || (msg.Method == "" && !hasID(msg.ID)) {
		return &msg, NewRPCError(InvalidRequest, "Invalid Request", nil)
	}
	return &msg, nil
}

// WriteMessage sends v with a Content-Length header
func (c *Conn) WriteMessage(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	_, err = c.writer.Write(data)
	return err
}

// Reply answers the request with the given id. A non-nil rpcErr replaces result.
func (c *Conn) Reply(id json.RawMessage, result interface{}, rpcErr *RPCError) error {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	if rpcErr != nil {
		return c.WriteMessage(errorResponse{JSONRPC: Version, ID: id, Error: rpcErr})
	}
	return c.WriteMessage(response{JSONRPC: Version, ID: id, Result: result})
}

// Notify sends a notification
func (c *Conn) Notify(method string, params interface{}) error {
	return c.WriteMessage(notification{JSONRPC: Version, Method: method, Params: params})
}

// NewRPCError creates a new RPCError with the specified code and message
func NewRPCError(code int, message string, data interface{}) *RPCError {
	return &RPCError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// NewMethodNotFoundError creates a method not found error (-32601)
func NewMethodNotFoundError(method string) *RPCError {
	return NewRPCError(MethodNotFound, "Method not found", method)
}

// FromError maps an error onto the code reported over the wire
func FromError(err error) *RPCError {
	if err == nil {
		return nil
	}
	var rpcErr *RPCError
	if stderrors.As(err, &rpcErr) {
		return rpcErr
	}
	lspErr := errors.ToLSPError(err)
	return NewRPCError(lspErr.Code, lspErr.Message, lspErr.Data)
}
