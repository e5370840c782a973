// Package capabilities describes what the server answers.
package capabilities

import (
	"go.lsp.dev/protocol"

	"mxls/src/internal/version"
)

// ServerName is reported in the initialize result
const ServerName = "mxls"

// handled lists the requests and notifications with a handler
var handled = map[string]bool{
	protocol.MethodInitialize:                 true,
	protocol.MethodInitialized:                true,
	protocol.MethodShutdown:                   true,
	protocol.MethodExit:                       true,
	protocol.MethodTextDocumentDidOpen:        true,
	protocol.MethodTextDocumentDidChange:      true,
	protocol.MethodTextDocumentDidClose:       true,
	protocol.MethodTextDocumentCodeAction:     true,
	protocol.MethodTextDocumentReferences:     true,
	protocol.MethodTextDocumentImplementation: true,
}

// SupportsMethod reports whether method has a handler
func SupportsMethod(method string) bool {
	return handled[method]
}

// Server returns the capabilities announced to the client
func Server() protocol.ServerCapabilities {
	return protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: true,
			Change:    protocol.TextDocumentSyncKindIncremental,
		},
		CodeActionProvider: &protocol.CodeActionOptions{
			CodeActionKinds: []protocol.CodeActionKind{protocol.QuickFix},
		},
		ReferencesProvider:     true,
		ImplementationProvider: true,
	}
}

// InitializeResult is the reply to initialize
func InitializeResult() *protocol.InitializeResult {
	return &protocol.InitializeResult{
		Capabilities: Server(),
		ServerInfo: &protocol.ServerInfo{
			Name:    ServerName,
			Version: version.Version,
		},
	}
}
