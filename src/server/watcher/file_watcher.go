// Package watcher reports changes to a fixed set of files.
package watcher

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mxls/src/internal/common"
	"mxls/src/internal/constants"
)

// FileChangeEvent represents a change to one watched file
type FileChangeEvent struct {
	Path      string
	Operation string // "write", "create", "remove", "rename"
	Timestamp time.Time
}

// FileWatcher watches individual files through their parent directories so
// that replace-by-rename writes are seen. Bursts are debounced into one
// callback.
type FileWatcher struct {
	watcher       *fsnotify.Watcher
	files         map[string]bool
	dirs          map[string]bool
	onChange      func([]FileChangeEvent)
	debounceDelay time.Duration

	pendingEvents map[string]*FileChangeEvent
	eventMutex    sync.Mutex
	debounceTimer *time.Timer

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewFileWatcher creates a watcher calling onChange after each debounced burst
func NewFileWatcher(onChange func([]FileChangeEvent)) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &FileWatcher{
		watcher:       watcher,
		files:         make(map[string]bool),
		dirs:          make(map[string]bool),
		onChange:      onChange,
		debounceDelay: constants.SnapshotDebounceDelay,
		pendingEvents: make(map[string]*FileChangeEvent),
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}, nil
}

// AddFile starts watching path. The file need not exist yet.
func (fw *FileWatcher) AddFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(absPath)

	fw.eventMutex.Lock()
	defer fw.eventMutex.Unlock()
	if !fw.dirs[dir] {
		if err := fw.watcher.Add(dir); err != nil {
			return err
		}
		fw.dirs[dir] = true
	}
	fw.files[absPath] = true
	common.WorkspaceLogger.Debug("FileWatcher: watching %s", absPath)
	return nil
}

// Files returns the watched paths, sorted
func (fw *FileWatcher) Files() []string {
	fw.eventMutex.Lock()
	defer fw.eventMutex.Unlock()
	out := make([]string, 0, len(fw.files))
	for f := range fw.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Start begins watching for file changes
func (fw *FileWatcher) Start() {
	fw.eventMutex.Lock()
	fw.started = true
	fw.eventMutex.Unlock()
	go fw.watchLoop()
}

func (fw *FileWatcher) watchLoop() {
	defer close(fw.done)

	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			common.WorkspaceLogger.Error("FileWatcher error: %v", err)
		}
	}
}

func operationOf(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	}
	return ""
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	operation := operationOf(event.Op)
	if operation == "" {
		return
	}
	path := filepath.Clean(event.Name)

	fw.eventMutex.Lock()
	defer fw.eventMutex.Unlock()
	if !fw.files[path] {
		return
	}
	fw.pendingEvents[path] = &FileChangeEvent{
		Path:      path,
		Operation: operation,
		Timestamp: time.Now(),
	}
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.debounceTimer = time.AfterFunc(fw.debounceDelay, fw.flushEvents)
}

// flushEvents sends all pending events to the callback
func (fw *FileWatcher) flushEvents() {
	fw.eventMutex.Lock()
	if len(fw.pendingEvents) == 0 {
		fw.eventMutex.Unlock()
		return
	}
	events := make([]FileChangeEvent, 0, len(fw.pendingEvents))
	for _, event := range fw.pendingEvents {
		events = append(events, *event)
	}
	fw.pendingEvents = make(map[string]*FileChangeEvent)
	fw.eventMutex.Unlock()

	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	if fw.onChange != nil && fw.ctx.Err() == nil {
		common.WorkspaceLogger.Debug("FileWatcher: flushing %d file change events", len(events))
		fw.onChange(events)
	}
}

// Stop stops the watcher. Pending events are dropped.
func (fw *FileWatcher) Stop() error {
	fw.cancel()

	fw.eventMutex.Lock()
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	started := fw.started
	fw.eventMutex.Unlock()

	err := fw.watcher.Close()
	if started {
		<-fw.done
	}
	return err
}

// SetDebounceDelay sets the debounce delay for file events
func (fw *FileWatcher) SetDebounceDelay(delay time.Duration) {
	fw.debounceDelay = delay
}
