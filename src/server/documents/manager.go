package documents

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.lsp.dev/protocol"

	"mxls/src/internal/common"
	"mxls/src/internal/constants"
	"mxls/src/internal/errors"
	"mxls/src/server/position"
)

// DocumentManager tracks the editor buffers requests are computed against
type DocumentManager interface {
	IsOpen(path string) bool
	Text(path string) (string, bool)
	Reader(path string) (io.ReadSeeker, bool)
}

// Change is one content change of a didChange notification. A nil Range
// replaces the whole text.
type Change struct {
	Range *protocol.Range `json:"range,omitempty"`
	Text  string          `json:"text"`
}

// Document is an open buffer
type Document struct {
	Path       string
	URI        protocol.DocumentURI
	LanguageID string
	Version    int32
	Text       string
}

// Store holds open documents keyed by cleaned file path
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewStore creates an empty document store
func NewStore() *Store {
	return &Store{docs: make(map[string]*Document)}
}

// DetectLanguage returns the language id for a file path or URI
func DetectLanguage(path string) string {
	return constants.LanguageForPath(path)
}

// Open starts tracking a buffer, replacing any previous one for the path
func (s *Store) Open(uri protocol.DocumentURI, version int32, text string) *Document {
	path := common.URIToFilePath(uri)
	doc := &Document{Path: path, URI: uri, LanguageID: DetectLanguage(path), Version: version, Text: text}

	s.mu.Lock()
	s.docs[path] = doc
	s.mu.Unlock()
	common.LSPLogger.Debug("opened %s (version %d)", path, version)
	return doc
}

// Update applies content changes in order. Ranged changes are positioned
// against the text produced by the changes before them. A version not newer
// than the buffer's is rejected and leaves the buffer unchanged.
func (s *Store) Update(uri protocol.DocumentURI, version int32, changes []Change) error {
	path := common.URIToFilePath(uri)

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[path]
	if !ok {
		return errors.NewDocumentNotOpenError(path)
	}
	if version <= doc.Version {
		return errors.NewStaleVersionError(path, doc.Version, version)
	}
	text := doc.Text
	for i, c := range changes {
		if c.Range == nil {
			text = c.Text
			continue
		}
		lines := position.NewLineIndex(text)
		start, okStart := lines.OffsetAt(c.Range.Start)
		end, okEnd := lines.OffsetAt(c.Range.End)
		if !okStart || !okEnd || end < start {
			return errors.NewValidationError("contentChanges", fmt.Sprintf("change %d lies outside the document", i))
		}
		text = text[:start] + c.Text + text[end:]
	}
	// stored documents are never mutated
	s.docs[path] = &Document{Path: path, URI: doc.URI, LanguageID: doc.LanguageID, Version: version, Text: text}
	return nil
}

// Close stops tracking a buffer
func (s *Store) Close(uri protocol.DocumentURI) {
	path := common.URIToFilePath(uri)
	s.mu.Lock()
	delete(s.docs, path)
	s.mu.Unlock()
	common.LSPLogger.Debug("closed %s", path)
}

// Get returns the open document at path
func (s *Store) Get(path string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[filepath.Clean(path)]
	return doc, ok
}

func (s *Store) IsOpen(path string) bool {
	_, ok := s.Get(path)
	return ok
}

func (s *Store) Text(path string) (string, bool) {
	doc, ok := s.Get(path)
	if !ok {
		return "", false
	}
	return doc.Text, true
}

// Reader returns a seekable reader over the current text
func (s *Store) Reader(path string) (io.ReadSeeker, bool) {
	text, ok := s.Text(path)
	if !ok {
		return nil, false
	}
	return strings.NewReader(text), true
}

// Paths lists the open documents in sorted order
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.docs))
	for p := range s.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
