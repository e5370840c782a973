package jsonutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"mxls/src/internal/common"
)

// Stdin is the path that reads from standard input
const Stdin = "-"

// Decode reads one JSON value of type T
func Decode[T any](r io.Reader) (T, error) {
	var out T
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// ReadFile decodes the JSON file at path, or standard input for "-"
func ReadFile[T any](path string) (T, error) {
	if path == Stdin {
		return Decode[T](os.Stdin)
	}
	var out T
	data, err := common.SafeReadFile(path)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Convert re-shapes v into T through its JSON encoding
func Convert[T any](v any) (T, error) {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, err
	}
	return out, nil
}
