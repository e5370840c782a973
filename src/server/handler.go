package server

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.lsp.dev/protocol"

	"mxls/src/internal/common"
	"mxls/src/server/documents"
	"mxls/src/server/providers"
	"mxls/src/server/search"
	"mxls/src/server/workspace"
)

// Handler routes editor requests to the providers. A provider that panics
// yields an empty result instead of taking the server down.
type Handler struct {
	docs      *documents.Store
	workspace *workspace.Manager
	providers *providers.Providers
	logger    *common.SafeLogger
}

// NewHandler builds a handler over the document store and workspace
func NewHandler(docs *documents.Store, ws *workspace.Manager, engine *search.Engine) *Handler {
	return &Handler{
		docs:      docs,
		workspace: ws,
		providers: providers.New(docs, ws, engine),
		logger:    common.LSPLogger,
	}
}

// Documents returns the open buffers
func (h *Handler) Documents() *documents.Store {
	return h.docs
}

// Workspace returns the folder manager
func (h *Handler) Workspace() *workspace.Manager {
	return h.workspace
}

func (h *Handler) recover(method string, err *error) {
	if r := recover(); r != nil {
		h.logger.Error("panic in %s: %s\n%s", method, common.SanitizeErrorForLogging(r), debug.Stack())
		*err = nil
	}
}

// CodeAction offers quick fixes for the diagnostics in params
func (h *Handler) CodeAction(ctx context.Context, params *protocol.CodeActionParams) (actions []protocol.CodeAction, err error) {
	defer h.recover(protocol.MethodTextDocumentCodeAction, &err)
	actions = []protocol.CodeAction{}
	found, err := h.providers.CodeAction(ctx, params)
	if err != nil || found == nil {
		return actions, err
	}
	return found, nil
}

// References lists the uses of the symbol under the cursor
func (h *Handler) References(ctx context.Context, params *protocol.ReferenceParams) (locs []protocol.Location, err error) {
	defer h.recover(protocol.MethodTextDocumentReferences, &err)
	locs = []protocol.Location{}
	found, err := h.providers.References(ctx, params)
	if err != nil || found == nil {
		return locs, err
	}
	return found, nil
}

// Implementation lists the classes implementing the interface under the cursor
func (h *Handler) Implementation(ctx context.Context, params *protocol.ImplementationParams) (locs []protocol.Location, err error) {
	defer h.recover(protocol.MethodTextDocumentImplementation, &err)
	locs = []protocol.Location{}
	found, err := h.providers.Implementation(ctx, params)
	if err != nil || found == nil {
		return locs, err
	}
	return found, nil
}

// DidOpen starts tracking a buffer
func (h *Handler) DidOpen(params *protocol.DidOpenTextDocumentParams) {
	item := params.TextDocument
	doc := h.docs.Open(item.URI, int32(item.Version), item.Text)
	h.logger.Debug("opened %s (%s, version %d)", doc.Path, doc.LanguageID, doc.Version)
}

// DidChange applies the content changes of one edit
func (h *Handler) DidChange(params *DidChangeParams) error {
	if err := h.docs.Update(params.TextDocument.URI, params.TextDocument.Version, params.ContentChanges); err != nil {
		return fmt.Errorf("didChange %s: %w", params.TextDocument.URI, err)
	}
	return nil
}

// DidClose stops tracking a buffer
func (h *Handler) DidClose(params *protocol.DidCloseTextDocumentParams) {
	h.docs.Close(params.TextDocument.URI)
}

// DidChangeParams mirrors protocol.DidChangeTextDocumentParams with optional
// change ranges, so full-text replacements decode
type DidChangeParams struct {
	TextDocument struct {
		URI     protocol.DocumentURI `json:"uri"`
		Version int32                `json:"version"`
	} `json:"textDocument"`
	ContentChanges []documents.Change `json:"contentChanges"`
}
