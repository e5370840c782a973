package cli

import (
	"fmt"
	"io"
	"strings"

	"mxls/src/internal/common"
	"mxls/src/server/workspace"
)

// FolderStatus summarizes one workspace folder
type FolderStatus struct {
	Name     string `json:"name"`
	Root     string `json:"root"`
	Snapshot string `json:"snapshot"`
	Loaded   bool   `json:"loaded"`
	Units    int    `json:"units"`
	Sources  int    `json:"sources"`
}

func folderStatuses(ws *workspace.Manager) []FolderStatus {
	var out []FolderStatus
	for _, f := range ws.Folders() {
		st := FolderStatus{Name: f.Name, Root: f.Root, Snapshot: f.SnapshotPath()}
		if p := f.Project(); p != nil {
			st.Loaded = true
			for _, u := range p.CompilationUnits() {
				st.Units++
				if u.Kind().IsSource() {
					st.Sources++
				}
			}
		}
		out = append(out, st)
	}
	return out
}

// displayWorkspaceStatus logs the folders served at startup
func displayWorkspaceStatus(ws *workspace.Manager) {
	statuses := folderStatuses(ws)
	if len(statuses) == 0 {
		common.CLILogger.Info("No folders configured, waiting for the editor's workspace folders")
		return
	}
	for _, st := range statuses {
		if !st.Loaded {
			common.CLILogger.Warn("Folder %s (%s): snapshot %s not loaded", st.Name, st.Root, st.Snapshot)
			continue
		}
		common.CLILogger.Info("Folder %s (%s): %d units, %d source", st.Name, st.Root, st.Units, st.Sources)
	}
}

func writeStatusTable(w io.Writer, statuses []FolderStatus) {
	if len(statuses) == 0 {
		fmt.Fprintln(w, "No folders configured")
		return
	}
	fmt.Fprintf(w, "%-16s %-8s %6s %8s  %s\n", "FOLDER", "STATUS", "UNITS", "SOURCES", "SNAPSHOT")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, st := range statuses {
		status := "missing"
		if st.Loaded {
			status = "loaded"
		}
		fmt.Fprintf(w, "%-16s %-8s %6d %8d  %s\n", st.Name, status, st.Units, st.Sources, st.Snapshot)
	}
}
