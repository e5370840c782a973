package common

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"go.lsp.dev/protocol"

	"mxls/src/internal/common"
)

// ParsePosition converts 1-based line and column arguments into an LSP position
func ParsePosition(line, column string) (protocol.Position, error) {
	l, err := strconv.Atoi(line)
	if err != nil || l < 1 {
		return protocol.Position{}, common.CreateValidationErrorForPosition(fmt.Sprintf("invalid line %q", line))
	}
	c, err := strconv.Atoi(column)
	if err != nil || c < 1 {
		return protocol.Position{}, common.CreateValidationErrorForPosition(fmt.Sprintf("invalid column %q", column))
	}
	return protocol.Position{Line: uint32(l - 1), Character: uint32(c - 1)}, nil
}

// PrintJSON writes v indented
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
