package constants

import (
	"path/filepath"
	"strings"
	"time"
)

// Timeout constants
const (
	// Offline CLI queries
	DefaultRequestTimeout = 30 * time.Second
	// In-flight requests allowed to finish after exit
	ShutdownTimeout = 5 * time.Second
)

// Transport constants
const (
	MessageBufferSize = 1 << 20
	// Larger bodies are rejected rather than buffered
	MaxContentLength = 64 << 20
)

// Debounce delay for snapshot file watching
const SnapshotDebounceDelay = 300 * time.Millisecond

// ConfigDirName is created under the user's home directory. Workspace roots
// may carry one holding DefaultSnapshotName.
const (
	ConfigDirName       = ".mxls"
	DefaultSnapshotName = "snapshot.json"
)

// Supported file extensions by language
var SupportedExtensions = map[string][]string{
	"actionscript": {".as"},
	"mxml":         {".mxml"},
}

// LanguageForPath returns the language id of a source file, empty when unsupported
func LanguageForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	for language, exts := range SupportedExtensions {
		for _, e := range exts {
			if e == ext {
				return language
			}
		}
	}
	return ""
}
