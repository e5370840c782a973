// Package errors provides unified error types and codes.
package errors

// Standard JSON-RPC error codes as defined in RFC 7309
const (
	ParseError     = -32700 // Invalid JSON was received by the server
	InvalidRequest = -32600 // The JSON sent is not a valid Request object
	MethodNotFound = -32601 // The method does not exist / is not available
	InvalidParams  = -32602 // Invalid method parameter(s)
	InternalError  = -32603 // Internal JSON-RPC error
)

// LSP-specific error codes as defined in the LSP specification
const (
	ServerNotInitialized = -32002 // Server not initialized
	RequestCancelled     = -32800 // Request was cancelled
	ContentModified      = -32801 // Content was modified
)

// mxls custom error codes (range: -33000 to -33099)
const (
	// Validation errors
	InvalidURI          = -33020 // Invalid URI format
	InvalidPosition     = -33021 // Position outside the document
	InvalidTextDocument = -33022 // Document is not open
	MissingParameter    = -33023 // Required parameter missing

	// Model errors
	SnapshotLoadFailure = -33040 // Semantic snapshot could not be loaded
	UnitScopeFailure    = -33041 // A compilation unit scope could not be built
)

// Error code categories for classification and handling
const (
	CategoryJSONRPC    = "jsonrpc"
	CategoryLSP        = "lsp"
	CategoryValidation = "validation"
	CategoryModel      = "model"
	CategoryUnknown    = "unknown"
)

// GetErrorCodeCategory returns the category for a given error code
func GetErrorCodeCategory(code int) string {
	switch {
	case code >= -32700 && code <= -32600:
		return CategoryJSONRPC
	case code >= -32099 && code <= -32000:
		// JSON-RPC reserved for server-defined errors
		return CategoryJSONRPC
	case code >= -32899 && code <= -32800:
		return CategoryLSP
	case code >= -33029 && code <= -33020:
		return CategoryValidation
	case code >= -33049 && code <= -33040:
		return CategoryModel
	default:
		return CategoryUnknown
	}
}

var errorCodeMessages = map[int]string{
	ParseError:           "Parse error",
	InvalidRequest:       "Invalid Request",
	MethodNotFound:       "Method not found",
	InvalidParams:        "Invalid params",
	InternalError:        "Internal error",
	ServerNotInitialized: "Server not initialized",
	RequestCancelled:     "Request cancelled",
	ContentModified:      "Content modified",
	InvalidURI:           "Invalid URI",
	InvalidPosition:      "Invalid position",
	InvalidTextDocument:  "Invalid text document",
	MissingParameter:     "Missing parameter",
	SnapshotLoadFailure:  "Snapshot load failure",
	UnitScopeFailure:     "Unit scope failure",
}

// GetErrorCodeMessage returns the standard message for a given error code
func GetErrorCodeMessage(code int) string {
	if msg, ok := errorCodeMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}
