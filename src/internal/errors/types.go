package errors

import (
	"fmt"
)

// DocumentNotOpenError is returned for edits against documents the client never opened
type DocumentNotOpenError struct {
	Path string
}

func (e *DocumentNotOpenError) Error() string {
	return fmt.Sprintf("document '%s' is not open", e.Path)
}

// NewDocumentNotOpenError creates a new DocumentNotOpenError
func NewDocumentNotOpenError(path string) error {
	return &DocumentNotOpenError{Path: path}
}

// StaleVersionError is returned for a change older than the buffer it targets
type StaleVersionError struct {
	Path    string
	Current int32
	Version int32
}

func (e *StaleVersionError) Error() string {
	return fmt.Sprintf("document '%s' is at version %d, change has version %d", e.Path, e.Current, e.Version)
}

// NewStaleVersionError creates a new StaleVersionError
func NewStaleVersionError(path string, current, version int32) error {
	return &StaleVersionError{Path: path, Current: current, Version: version}
}
