// Package position maps editor positions to source offsets and offsets to
// syntax nodes.
package position

import (
	"io"
	"unicode/utf8"

	"go.lsp.dev/protocol"

	"mxls/src/internal/errors"
	"mxls/src/internal/models/semantic"
)

// ToOffset walks r to pos and returns the byte offset it denotes. Lines are
// terminated by '\n'; the column counts UTF-16 code units and is not clamped
// to the line. When inc is non-nil the result is mapped into the including
// unit's offsets. A position past the end of the stream yields
// errors.ErrNoOffsetFound.
func ToOffset(r io.RuneReader, pos protocol.Position, inc *semantic.IncludeMap) (int, error) {
	offset := 0
	for line := uint32(0); line < pos.Line; {
		ch, size, err := r.ReadRune()
		if err != nil {
			return 0, errors.ErrNoOffsetFound
		}
		offset += size
		if ch == '\n' {
			line++
		}
	}
	for units := uint32(0); units < pos.Character; {
		ch, size, err := r.ReadRune()
		if err != nil {
			return 0, errors.ErrNoOffsetFound
		}
		offset += size
		units += utf16Len(ch)
	}
	return inc.Apply(offset), nil
}

func utf16Len(r rune) uint32 {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}
