package common

import (
	"path/filepath"
	"strings"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// URIToFilePath converts a file:// URI to a cleaned file system path
func URIToFilePath(u protocol.DocumentURI) string {
	s := string(u)
	if !strings.HasPrefix(s, "file://") {
		return filepath.Clean(s)
	}
	return filepath.Clean(uri.URI(s).Filename())
}

// FilePathToURI converts a file system path to a file:// URI
func FilePathToURI(path string) protocol.DocumentURI {
	return uri.File(filepath.Clean(path))
}
