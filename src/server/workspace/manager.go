// Package workspace maps files to the folders they belong to and keeps each
// folder's semantic snapshot current.
package workspace

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"mxls/src/internal/common"
	"mxls/src/internal/errors"
	"mxls/src/internal/models/semantic"
	"mxls/src/server/watcher"
	"mxls/src/utils/filepattern"
)

// FolderOptions configures one workspace folder
type FolderOptions struct {
	Name        string
	Root        string
	Snapshot    string
	SourcePaths []string
	Watch       bool
}

type loaded struct {
	project semantic.Project
	stamp   uint64
}

// Folder is a workspace root with its current project. The fallback folder
// holds files outside every configured root and never has a project.
type Folder struct {
	Name     string
	Root     string
	Fallback bool

	snapshot string
	watch    bool
	sources  *filepattern.Set
	current  atomic.Pointer[loaded]
}

// Project returns the current snapshot, nil before the first load
func (f *Folder) Project() semantic.Project {
	if l := f.current.Load(); l != nil {
		return l.project
	}
	return nil
}

// SetProject replaces the current snapshot
func (f *Folder) SetProject(p semantic.Project) {
	f.current.Store(&loaded{project: p})
}

// SnapshotPath is the snapshot file the folder loads from
func (f *Folder) SnapshotPath() string {
	return f.snapshot
}

// IsSourceFile reports whether path is under one of the folder's source paths
func (f *Folder) IsSourceFile(path string) bool {
	if f.Fallback || f.sources == nil {
		return false
	}
	return f.sources.Match(path)
}

// IncludeMap returns the inclusion map recorded for path in the current project
func (f *Folder) IncludeMap(path string) *semantic.IncludeMap {
	p := f.Project()
	if p == nil {
		return nil
	}
	return p.IncludeMap(path)
}

func (f *Folder) contains(path string) bool {
	rel, err := filepath.Rel(f.Root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Manager owns the workspace folders
type Manager struct {
	mu       sync.RWMutex
	folders  []*Folder
	fallback *Folder
	watcher  *watcher.FileWatcher
	logger   *common.SafeLogger
}

func NewManager() *Manager {
	return &Manager{
		fallback: &Folder{Name: "fallback", Fallback: true},
		logger:   common.WorkspaceLogger,
	}
}

// AddFolder registers a folder. Its snapshot is not loaded until Reload.
func (m *Manager) AddFolder(opts FolderOptions) (*Folder, error) {
	if opts.Root == "" {
		return nil, errors.NewValidationError("root", "folder root is required")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, err
	}
	sources, err := filepattern.NewSet(root, opts.SourcePaths)
	if err != nil {
		return nil, errors.WrapValidationError("source_paths", err)
	}
	snapshot := opts.Snapshot
	if snapshot != "" && !filepath.IsAbs(snapshot) {
		snapshot = filepath.Join(root, snapshot)
	}
	name := opts.Name
	if name == "" {
		name = filepath.Base(root)
	}
	f := &Folder{
		Name:     name,
		Root:     root,
		snapshot: snapshot,
		watch:    opts.Watch,
		sources:  sources,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.folders {
		if existing.Root == root {
			return nil, fmt.Errorf("folder %s already registered as %q", root, existing.Name)
		}
	}
	m.folders = append(m.folders, f)
	// deepest root first so nested folders win
	sort.SliceStable(m.folders, func(i, j int) bool { return len(m.folders[i].Root) > len(m.folders[j].Root) })
	return f, nil
}

// Folders returns the configured folders, deepest root first
func (m *Manager) Folders() []*Folder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*Folder(nil), m.folders...)
}

// FolderForFile returns the innermost folder containing path. Files outside
// every folder get the fallback folder and false.
func (m *Manager) FolderForFile(path string) (*Folder, bool) {
	path = filepath.Clean(path)
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.folders {
		if f.contains(path) {
			return f, true
		}
	}
	return m.fallback, false
}

// Reload loads the folder's snapshot. An unchanged file keeps the current
// project; a broken file keeps it too and returns the error.
func (m *Manager) Reload(f *Folder) error {
	if f.Fallback || f.snapshot == "" {
		return nil
	}
	data, err := common.SafeReadFile(f.snapshot)
	if err != nil {
		return errors.NewSnapshotError(f.snapshot, err)
	}
	stamp := xxhash.Sum64(data)
	if cur := f.current.Load(); cur != nil && cur.stamp == stamp {
		m.logger.Debug("snapshot %s unchanged", f.snapshot)
		return nil
	}
	project, err := ParseSnapshot(f.snapshot, f.Root, data)
	if err != nil {
		return err
	}
	f.current.Store(&loaded{project: project, stamp: stamp})
	m.logger.Info("loaded snapshot %s for %s (%d units)", f.snapshot, f.Name, len(project.CompilationUnits()))
	return nil
}

// ReloadAll loads every folder, logging failures
func (m *Manager) ReloadAll() {
	for _, f := range m.Folders() {
		if err := m.Reload(f); err != nil {
			m.logger.Error("failed to load snapshot for %s: %v", f.Name, err)
		}
	}
}

// Watch reloads the snapshots of folders configured with watch whenever
// their files change
func (m *Manager) Watch() error {
	var watched []*Folder
	for _, f := range m.Folders() {
		if f.watch && f.snapshot != "" {
			watched = append(watched, f)
		}
	}
	if len(watched) == 0 {
		return nil
	}

	fw, err := watcher.NewFileWatcher(func(events []watcher.FileChangeEvent) {
		for _, e := range events {
			for _, f := range watched {
				if f.snapshot != e.Path || e.Operation == "remove" {
					continue
				}
				if err := m.Reload(f); err != nil {
					m.logger.Warn("snapshot reload for %s failed, keeping previous: %v", f.Name, err)
				}
			}
		}
	})
	if err != nil {
		return err
	}
	for _, f := range watched {
		if err := fw.AddFile(f.snapshot); err != nil {
			_ = fw.Stop()
			return fmt.Errorf("watch %s: %w", f.snapshot, err)
		}
	}
	fw.Start()

	m.mu.Lock()
	previous := m.watcher
	m.watcher = fw
	m.mu.Unlock()
	if previous != nil {
		_ = previous.Stop()
	}
	return nil
}

// Close stops watching
func (m *Manager) Close() error {
	m.mu.Lock()
	fw := m.watcher
	m.watcher = nil
	m.mu.Unlock()
	if fw == nil {
		return nil
	}
	return fw.Stop()
}
