// Package providers answers code action, references and implementation
// requests against the open documents and their folder's project.
package providers

import (
	"io"

	"go.lsp.dev/protocol"

	"mxls/src/internal/common"
	"mxls/src/internal/models/semantic"
	"mxls/src/server/position"
	"mxls/src/server/search"
	"mxls/src/server/workspace"
	"mxls/src/utils/lspconv"
)

// DocumentTracker is the view of editor buffers the providers need
type DocumentTracker interface {
	IsOpen(path string) bool
	Text(path string) (string, bool)
	Reader(path string) (io.ReadSeeker, bool)
}

// WorkspaceResolver finds the folder a file belongs to
type WorkspaceResolver interface {
	FolderForFile(path string) (*workspace.Folder, bool)
}

// Providers bundles the request handlers
type Providers struct {
	docs      DocumentTracker
	workspace WorkspaceResolver
	search    *search.Engine
	logger    *common.SafeLogger
}

func New(docs DocumentTracker, ws WorkspaceResolver, engine *search.Engine) *Providers {
	if engine == nil {
		engine = search.NewEngine(0)
	}
	return &Providers{
		docs:      docs,
		workspace: ws,
		search:    engine,
		logger:    common.LSPLogger,
	}
}

// target is an open document with the project it was compiled into
type target struct {
	path    string
	folder  *workspace.Folder
	project semantic.Project
	unit    semantic.CompilationUnit
	text    string
}

// locate gathers what a request on uri needs. It returns false when the
// document is closed, outside every folder, or has no compiled unit yet.
func (p *Providers) locate(uri protocol.DocumentURI) (target, bool) {
	path := common.URIToFilePath(uri)
	text, ok := p.docs.Text(path)
	if !ok {
		p.logger.Debug("ignoring request for closed document %s", path)
		return target{}, false
	}
	folder, ok := p.workspace.FolderForFile(path)
	if !ok || folder == nil || folder.Fallback {
		return target{}, false
	}
	project := folder.Project()
	if project == nil {
		p.logger.Debug("no project loaded for %s", folder.Name)
		return target{}, false
	}
	return target{path: path, folder: folder, project: project, text: text}, true
}

// document builds the resolver view. Included files resolve against the
// tree of the unit that includes them.
func (t *target) document(withIncludes bool) (*position.Document, bool) {
	unitPath := t.path
	var includes *semantic.IncludeMap
	if withIncludes {
		if includes = t.folder.IncludeMap(t.path); includes != nil {
			unitPath = includes.ParentPath
		}
	}
	t.unit = t.project.UnitForPath(unitPath)
	if t.unit == nil {
		return nil, false
	}
	return &position.Document{
		Text:     t.text,
		Root:     t.unit.AST(),
		Markup:   t.unit.Markup(),
		Includes: includes,
	}, true
}

// locations converts search results using each unit's compiled text
func locations(project semantic.Project, found []search.Location) []protocol.Location {
	out := lspconv.NewLocations()
	for _, loc := range found {
		var text string
		if unit := project.UnitForPath(loc.Path); unit != nil {
			text = unit.Text()
		}
		out.Add(loc.Path, text, loc.Start, loc.End)
	}
	return out.Result()
}
