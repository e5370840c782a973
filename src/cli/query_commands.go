package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"go.lsp.dev/protocol"

	clicommon "mxls/src/cli/common"
	"mxls/src/internal/common"
	"mxls/src/internal/constants"
	"mxls/src/utils/configloader"
	"mxls/src/utils/jsonutil"
	"mxls/src/utils/lspconv"
)

func newQueryContext(configPath string) (*clicommon.CommandContext, error) {
	cfg, err := configloader.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	configloader.ApplyLogLevel(cfg, verbose)
	return clicommon.NewCommandContextFor(cfg, constants.DefaultRequestTimeout)
}

// cursorQuery opens file and builds the position parameters of a query at
// 1-based line and column
func cursorQuery(cc *clicommon.CommandContext, file, line, column string) (protocol.TextDocumentPositionParams, error) {
	pos, err := clicommon.ParsePosition(line, column)
	if err != nil {
		return protocol.TextDocumentPositionParams{}, err
	}
	uri, _, err := cc.Open(file)
	if err != nil {
		return protocol.TextDocumentPositionParams{}, err
	}
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     pos,
	}, nil
}

// FindReferences prints the references of the symbol at a position as JSON
func FindReferences(w io.Writer, configPath, file, line, column string) error {
	cc, err := newQueryContext(configPath)
	if err != nil {
		return err
	}
	defer cc.Cleanup()

	at, err := cursorQuery(cc, file, line, column)
	if err != nil {
		return err
	}
	locs, err := cc.Handler.References(cc.Context, &protocol.ReferenceParams{
		TextDocumentPositionParams: at,
		Context:                    protocol.ReferenceContext{IncludeDeclaration: true},
	})
	if err != nil {
		return common.WrapProcessingError("references", err)
	}
	common.CLILogger.Debug("%d references", len(locs))
	return clicommon.PrintJSON(w, locs)
}

// FindImplementations prints the implementations of the interface at a position as JSON
func FindImplementations(w io.Writer, configPath, file, line, column string) error {
	cc, err := newQueryContext(configPath)
	if err != nil {
		return err
	}
	defer cc.Cleanup()

	at, err := cursorQuery(cc, file, line, column)
	if err != nil {
		return err
	}
	locs, err := cc.Handler.Implementation(cc.Context, &protocol.ImplementationParams{TextDocumentPositionParams: at})
	if err != nil {
		return common.WrapProcessingError("implementations", err)
	}
	common.CLILogger.Debug("%d implementations", len(locs))
	return clicommon.PrintJSON(w, locs)
}

// readDiagnostics accepts a bare diagnostic array or a publishDiagnostics payload
func readDiagnostics(path string) ([]protocol.Diagnostic, error) {
	raw, err := jsonutil.ReadFile[json.RawMessage](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read diagnostics: %w", err)
	}
	var payload struct {
		Diagnostics []protocol.Diagnostic `json:"diagnostics"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		return payload.Diagnostics, nil
	}
	diags, err := jsonutil.Convert[[]protocol.Diagnostic](raw)
	if err != nil {
		return nil, common.ParameterValidationError(fmt.Sprintf("diagnostics: %v", err))
	}
	return diags, nil
}

func codeActions(cc *clicommon.CommandContext, file, diagnosticsPath string) ([]protocol.CodeAction, protocol.DocumentURI, string, error) {
	diags, err := readDiagnostics(diagnosticsPath)
	if err != nil {
		return nil, "", "", err
	}
	uri, text, err := cc.Open(file)
	if err != nil {
		return nil, "", "", err
	}
	actions, err := cc.Handler.CodeAction(cc.Context, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Context:      protocol.CodeActionContext{Diagnostics: diags},
	})
	if err != nil {
		return nil, "", "", common.WrapProcessingError("code actions", err)
	}
	return actions, uri, text, nil
}

// ListCodeActions prints the quick fixes for a file's diagnostics as JSON
func ListCodeActions(w io.Writer, configPath, file, diagnosticsPath string) error {
	cc, err := newQueryContext(configPath)
	if err != nil {
		return err
	}
	defer cc.Cleanup()

	actions, _, _, err := codeActions(cc, file, diagnosticsPath)
	if err != nil {
		return err
	}
	return clicommon.PrintJSON(w, actions)
}

// ApplyCodeAction applies the index-th quick fix and prints the edited text
func ApplyCodeAction(w io.Writer, configPath, file, diagnosticsPath string, index int) error {
	cc, err := newQueryContext(configPath)
	if err != nil {
		return err
	}
	defer cc.Cleanup()

	actions, uri, text, err := codeActions(cc, file, diagnosticsPath)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(actions) {
		return common.ParameterValidationError(fmt.Sprintf("action %d out of range, %d available", index, len(actions)))
	}
	action := actions[index]
	if action.Edit == nil {
		return fmt.Errorf("action %q has no edit", action.Title)
	}
	common.CLILogger.Debug("applying %q", action.Title)
	edited, err := lspconv.ApplyEdits(text, action.Edit.Changes[uri])
	if err != nil {
		return fmt.Errorf("failed to apply %q: %w", action.Title, err)
	}
	_, err = io.WriteString(w, edited)
	return err
}

// ShowStatus prints the configured folders and their snapshots
func ShowStatus(w io.Writer, configPath string) error {
	cc, err := newQueryContext(configPath)
	if err != nil {
		return err
	}
	defer cc.Cleanup()
	writeStatusTable(w, folderStatuses(cc.Workspace))
	return nil
}
