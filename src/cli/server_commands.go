package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mxls/src/internal/common"
	"mxls/src/server"
	"mxls/src/server/documents"
	"mxls/src/server/search"
	"mxls/src/utils/configloader"
)

// RunServer serves LSP on stdin and stdout until the client exits or a
// termination signal arrives
func RunServer(configPath string, watch bool) error {
	cfg, err := configloader.LoadForServer(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	configloader.ApplyLogLevel(cfg, verbose)

	ws, err := configloader.BuildWorkspace(cfg)
	if err != nil {
		return fmt.Errorf("failed to load workspace: %w", err)
	}
	defer ws.Close()
	if watch {
		if err := ws.Watch(); err != nil {
			common.CLILogger.Warn("Snapshot watching disabled: %v", err)
		}
	}
	displayWorkspaceStatus(ws)

	handler := server.NewHandler(documents.NewStore(), ws, search.NewEngine(cfg.Workers()))
	srv := server.NewServer(os.Stdin, os.Stdout, handler)
	srv.SetWatchSnapshots(watch)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	common.CLILogger.Info("mxls language server listening on stdio")
	err = srv.Serve(ctx)
	switch {
	case err == nil, errors.Is(err, server.ErrExit):
		common.CLILogger.Info("Server stopped")
		return nil
	case errors.Is(err, context.Canceled):
		common.CLILogger.Info("Received shutdown signal, server stopped")
		return nil
	}
	return err
}
