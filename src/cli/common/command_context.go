package common

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.lsp.dev/protocol"

	"mxls/src/config"
	"mxls/src/internal/common"
	"mxls/src/internal/errors"
	"mxls/src/server"
	"mxls/src/server/documents"
	"mxls/src/server/search"
	"mxls/src/server/workspace"
	"mxls/src/utils/configloader"
)

// CommandContext holds what an offline query needs: the loaded workspace,
// a request handler over it and a bounded context
type CommandContext struct {
	Config    *config.Config
	Workspace *workspace.Manager
	Handler   *server.Handler
	Context   context.Context
	Cancel    context.CancelFunc
}

// NewCommandContext loads configuration and every folder's snapshot
func NewCommandContext(configPath string, timeout time.Duration) (*CommandContext, error) {
	cfg, err := configloader.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	return NewCommandContextFor(cfg, timeout)
}

// NewCommandContextFor builds a context over an already loaded configuration
func NewCommandContextFor(cfg *config.Config, timeout time.Duration) (*CommandContext, error) {
	ws, err := configloader.BuildWorkspace(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	ctx, cancel := common.CreateContext(timeout)
	return &CommandContext{
		Config:    cfg,
		Workspace: ws,
		Handler:   server.NewHandler(documents.NewStore(), ws, search.NewEngine(cfg.Workers())),
		Context:   ctx,
		Cancel:    cancel,
	}, nil
}

// Open makes path an open document, read from disk or else taken from the
// compiled unit's text
func (c *CommandContext) Open(path string) (protocol.DocumentURI, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	uri := common.FilePathToURI(abs)

	var text string
	if data, err := common.SafeReadFile(abs); err == nil {
		text = string(data)
	} else {
		folder, ok := c.Workspace.FolderForFile(abs)
		if !ok || folder.Project() == nil || folder.Project().UnitForPath(abs) == nil {
			return "", "", errors.NewDocumentNotOpenError(abs)
		}
		text = folder.Project().UnitForPath(abs).Text()
	}
	c.Handler.Documents().Open(uri, 0, text)
	return uri, text, nil
}

// Cleanup cancels the context and stops snapshot watching
func (c *CommandContext) Cleanup() {
	if c.Cancel != nil {
		c.Cancel()
	}
	if c.Workspace != nil {
		_ = c.Workspace.Close()
	}
}
