package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.lsp.dev/protocol"

	"mxls/src/internal/common"
	"mxls/src/internal/constants"
	"mxls/src/internal/errors"
	"mxls/src/server/capabilities"
	"mxls/src/server/jsonrpc"
	"mxls/src/server/workspace"
)

const methodCancelRequest = "$/cancelRequest"

var (
	// ErrExit signals a graceful stop after shutdown and exit
	ErrExit = stderrors.New("exit")
	// ErrExitWithoutShutdown signals an exit notification with no shutdown before it
	ErrExitWithoutShutdown = stderrors.New("exit without shutdown")
)

// Server speaks LSP over a pair of streams. Document notifications are
// applied in arrival order on the read loop; queries run concurrently and
// can be cancelled by id.
type Server struct {
	conn    *jsonrpc.Conn
	handler *Handler
	logger  *common.SafeLogger
	timeout time.Duration
	watch   bool

	mu          sync.Mutex
	initialized bool
	shutdown    bool
	inflight    map[string]context.CancelFunc
	wg          sync.WaitGroup
}

func NewServer(in io.Reader, out io.Writer, handler *Handler) *Server {
	return &Server{
		conn:     jsonrpc.NewConn(in, out),
		handler:  handler,
		logger:   common.LSPLogger,
		timeout:  constants.DefaultRequestTimeout,
		watch:    true,
		inflight: make(map[string]context.CancelFunc),
	}
}

// SetRequestTimeout bounds each query, zero disables the bound
func (s *Server) SetRequestTimeout(d time.Duration) {
	s.timeout = d
}

// SetWatchSnapshots controls whether folders taken from the client reload
// their snapshot on change
func (s *Server) SetWatchSnapshots(watch bool) {
	s.watch = watch
}

// Serve reads messages until exit, end of input or ctx is done. It returns
// nil at end of input, ErrExit or ErrExitWithoutShutdown after exit.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.drain()
	}()

	messages := make(chan *jsonrpc.Message)
	failures := make(chan error, 1)
	go func() {
		defer close(messages)
		for {
			msg, err := s.conn.Read()
			if err != nil {
				var rpcErr *jsonrpc.RPCError
				if stderrors.As(err, &rpcErr) {
					var id json.RawMessage
					if msg != nil {
						id = msg.ID
					}
					s.reply(id, nil, rpcErr)
					continue
				}
				failures <- err
				return
			}
			select {
			case messages <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-failures:
			if stderrors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		case msg, ok := <-messages:
			if !ok {
				select {
				case err := <-failures:
					if !stderrors.Is(err, io.EOF) {
						return fmt.Errorf("read message: %w", err)
					}
				default:
				}
				return nil
			}
			if err := s.dispatch(ctx, msg); err != nil {
				return err
			}
		}
	}
}

// drain cancels in-flight queries and waits a bounded time for their replies
func (s *Server) drain() {
	s.mu.Lock()
	for _, cancel := range s.inflight {
		cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(constants.ShutdownTimeout):
		s.logger.Warn("requests still running after %v", constants.ShutdownTimeout)
	}
}

func (s *Server) dispatch(ctx context.Context, msg *jsonrpc.Message) error {
	if msg.IsResponse() {
		return nil
	}
	if msg.Method == protocol.MethodExit {
		s.mu.Lock()
		shutdown := s.shutdown
		s.mu.Unlock()
		if shutdown {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	}
	if msg.IsNotification() {
		s.notification(msg)
		return nil
	}

	s.mu.Lock()
	initialized, shutdown := s.initialized, s.shutdown
	s.mu.Unlock()
	switch {
	case msg.Method == protocol.MethodInitialize && initialized:
		s.reply(msg.ID, nil, jsonrpc.NewRPCError(jsonrpc.InvalidRequest, "Server already initialized", nil))
		return nil
	case msg.Method == protocol.MethodInitialize:
		s.initialize(msg)
		return nil
	case !initialized:
		s.reply(msg.ID, nil, jsonrpc.NewRPCError(errors.ServerNotInitialized, "Server not initialized", nil))
		return nil
	case shutdown:
		s.reply(msg.ID, nil, jsonrpc.NewRPCError(jsonrpc.InvalidRequest, "Server is shutting down", nil))
		return nil
	case msg.Method == protocol.MethodShutdown:
		s.mu.Lock()
		s.shutdown = true
		s.mu.Unlock()
		s.reply(msg.ID, nil, nil)
		return nil
	}

	query, ok := s.queries()[msg.Method]
	if !ok {
		s.reply(msg.ID, nil, jsonrpc.NewMethodNotFoundError(msg.Method))
		return nil
	}
	s.start(ctx, msg, query)
	return nil
}

type query func(ctx context.Context, params json.RawMessage) (interface{}, error)

func (s *Server) queries() map[string]query {
	return map[string]query{
		protocol.MethodTextDocumentCodeAction: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			var params protocol.CodeActionParams
			if err := requireParams(raw, &params); err != nil {
				return nil, err
			}
			return s.handler.CodeAction(ctx, &params)
		},
		protocol.MethodTextDocumentReferences: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			var params protocol.ReferenceParams
			if err := requireParams(raw, &params); err != nil {
				return nil, err
			}
			return s.handler.References(ctx, &params)
		},
		protocol.MethodTextDocumentImplementation: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			var params protocol.ImplementationParams
			if err := requireParams(raw, &params); err != nil {
				return nil, err
			}
			return s.handler.Implementation(ctx, &params)
		},
	}
}

// start runs a query on its own goroutine, registered for cancellation
func (s *Server) start(ctx context.Context, msg *jsonrpc.Message, run query) {
	var cancel context.CancelFunc
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	key := string(msg.ID)

	s.mu.Lock()
	s.inflight[key] = cancel
	s.mu.Unlock()
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inflight, key)
			s.mu.Unlock()
			cancel()
		}()
		started := time.Now()
		result, err := run(ctx, msg.Params)
		if err != nil {
			rpcErr := jsonrpc.FromError(err)
			if rpcErr.Code == jsonrpc.InternalError {
				s.logger.Error("%s %s failed after %v: %v", msg.Method, key, time.Since(started), err)
			} else {
				s.logger.Debug("%s %s failed after %v (%s, %s): %v", msg.Method, key, time.Since(started),
					common.GetErrorCategory(err), errors.GetErrorCodeCategory(rpcErr.Code), err)
			}
			s.reply(msg.ID, nil, rpcErr)
			return
		}
		s.logger.Debug("%s %s answered in %v", msg.Method, key, time.Since(started))
		s.reply(msg.ID, result, nil)
	}()
}

func (s *Server) initialize(msg *jsonrpc.Message) {
	var params initializeParams
	if err := decodeParams(msg.Params, &params); err != nil {
		s.reply(msg.ID, nil, jsonrpc.FromError(err))
		return
	}
	s.addClientFolders(params)

	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()
	s.reply(msg.ID, capabilities.InitializeResult(), nil)
}

type workspaceFolder struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

type initializeParams struct {
	RootURI          string            `json:"rootUri,omitempty"`
	RootPath         string            `json:"rootPath,omitempty"`
	WorkspaceFolders []workspaceFolder `json:"workspaceFolders,omitempty"`
}

// addClientFolders registers the client's workspace folders when none are
// configured. Each folder's snapshot is read from its .mxls directory.
func (s *Server) addClientFolders(params initializeParams) {
	ws := s.handler.Workspace()
	if len(ws.Folders()) > 0 {
		return
	}
	folders := params.WorkspaceFolders
	switch {
	case len(folders) > 0:
	case params.RootURI != "":
		folders = []workspaceFolder{{URI: params.RootURI}}
	case params.RootPath != "":
		folders = []workspaceFolder{{URI: string(common.FilePathToURI(params.RootPath))}}
	}
	for _, f := range folders {
		if !strings.HasPrefix(f.URI, "file:") {
			s.logger.Warn("skipping workspace folder: %v", common.CreateValidationErrorForURI("not a file URI: "+f.URI))
			continue
		}
		root := common.URIToFilePath(protocol.DocumentURI(f.URI))
		snapshot := filepath.Join(root, constants.ConfigDirName, constants.DefaultSnapshotName)
		folder, err := ws.AddFolder(workspace.FolderOptions{Name: f.Name, Root: root, Snapshot: snapshot, Watch: s.watch})
		if err != nil {
			s.logger.Warn("skipping workspace folder %s: %v", f.URI, err)
			continue
		}
		if !common.FileExists(snapshot) {
			s.logger.Info("no snapshot for %s at %s", folder.Name, snapshot)
			continue
		}
		if err := ws.Reload(folder); err != nil {
			s.logger.Error("failed to load snapshot for %s: %v", folder.Name, err)
		}
	}
	if !s.watch || len(folders) == 0 {
		return
	}
	if err := ws.Watch(); err != nil {
		s.logger.Warn("snapshot watching disabled: %v", err)
	}
}

func (s *Server) notification(msg *jsonrpc.Message) {
	s.mu.Lock()
	initialized := s.initialized
	s.mu.Unlock()
	if !initialized {
		s.logger.Debug("dropping %s before initialize", msg.Method)
		return
	}

	var err error
	switch msg.Method {
	case protocol.MethodInitialized:
	case methodCancelRequest:
		var params struct {
			ID json.RawMessage `json:"id"`
		}
		if err = decodeParams(msg.Params, &params); err == nil {
			s.cancel(string(params.ID))
		}
	case protocol.MethodTextDocumentDidOpen:
		var params protocol.DidOpenTextDocumentParams
		if err = decodeParams(msg.Params, &params); err == nil {
			s.handler.DidOpen(&params)
		}
	case protocol.MethodTextDocumentDidChange:
		var params DidChangeParams
		if err = decodeParams(msg.Params, &params); err == nil {
			err = s.handler.DidChange(&params)
		}
	case protocol.MethodTextDocumentDidClose:
		var params protocol.DidCloseTextDocumentParams
		if err = decodeParams(msg.Params, &params); err == nil {
			s.handler.DidClose(&params)
		}
	default:
		s.logger.Debug("ignoring notification %s", msg.Method)
	}
	if err != nil {
		s.logger.Warn("%s: %v", msg.Method, err)
	}
}

func (s *Server) cancel(key string) {
	s.mu.Lock()
	cancel, ok := s.inflight[key]
	s.mu.Unlock()
	if ok {
		s.logger.Debug("cancelling request %s", key)
		cancel()
	}
}

func (s *Server) reply(id json.RawMessage, result interface{}, rpcErr *jsonrpc.RPCError) {
	if err := s.conn.Reply(id, result, rpcErr); err != nil {
		s.logger.Error("failed to write reply: %v", err)
	}
}

// requireParams is decodeParams for methods whose params are mandatory
func requireParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return errors.NewMissingParameterError("params")
	}
	return decodeParams(raw, v)
}

func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.WrapValidationError("params", err)
	}
	return nil
}
