package codeaction

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.lsp.dev/protocol"
)

// Compiler problem codes with quick fixes
const (
	CodeUndefinedProperty      = "1120"
	CodeUnknownType            = "1046"
	CodeUnknownSuperclass      = "1017"
	CodeUnknownInterface       = "1045"
	CodeInaccessibleProperty   = "1178"
	CodeStrictUndefinedMethod  = "1061"
	CodeCallUndefinedMethod    = "1180"
	CodeMissingCatchOrFinally  = "1073"
	CodeUndefinedMember        = "1119"
	CodeUnimplementedInterface = "1044"
	// CodeUnusedImport is reported by the tooling, not the compiler
	CodeUnusedImport = "mxls-unused-import"
)

// Synthesizer builds zero or more fixes for one diagnostic. Declining is
// not an error.
type Synthesizer func(ctx context.Context, req *Request, d protocol.Diagnostic) []protocol.CodeAction

// dispatch lists the synthesizers per code, in the order fixes are offered
var dispatch = map[string][]Synthesizer{
	CodeUndefinedProperty:      {importFix, generateLocalVariable, generateField, generateEventListener},
	CodeUnknownType:            {importFix},
	CodeUnknownSuperclass:      {importFix},
	CodeUnknownInterface:       {importFix},
	CodeInaccessibleProperty:   {importFix},
	CodeStrictUndefinedMethod:  {generateMethod},
	CodeCallUndefinedMethod:    {importFix, generateMethod},
	CodeMissingCatchOrFinally:  {generateCatch},
	CodeUndefinedMember:        {generateField, generateEventListener},
	CodeUnimplementedInterface: {implementInterfaces},
	CodeUnusedImport:           {removeUnusedImport},
}

// oncePerRequest codes are reported for every missing member but fixed as a whole
var oncePerRequest = map[string]bool{
	CodeUnimplementedInterface: true,
}

// Handles reports whether code has registered fixes
func Handles(code string) bool {
	_, ok := dispatch[code]
	return ok
}

// Classify runs the synthesizers registered for each diagnostic's code and
// concatenates their fixes in diagnostic order. It returns ctx.Err() with no
// fixes once the context is done.
func Classify(ctx context.Context, req *Request, diagnostics []protocol.Diagnostic) ([]protocol.CodeAction, error) {
	var actions []protocol.CodeAction
	fired := map[string]bool{}
	for _, d := range diagnostics {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		code, ok := DiagnosticCode(d)
		if !ok {
			continue
		}
		synthesizers, ok := dispatch[code]
		if !ok {
			continue
		}
		if oncePerRequest[code] {
			if fired[code] {
				continue
			}
			fired[code] = true
		}
		for _, synthesize := range synthesizers {
			actions = append(actions, synthesize(ctx, req, d)...)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return actions, nil
}

// DiagnosticCode normalizes a diagnostic code that may arrive as a string or a number
func DiagnosticCode(d protocol.Diagnostic) (string, bool) {
	switch c := d.Code.(type) {
	case nil:
		return "", false
	case string:
		return c, c != ""
	case json.Number:
		return c.String(), true
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32), true
	case int:
		return strconv.Itoa(c), true
	case int32:
		return strconv.FormatInt(int64(c), 10), true
	case int64:
		return strconv.FormatInt(c, 10), true
	case fmt.Stringer:
		return c.String(), true
	}
	return "", false
}
