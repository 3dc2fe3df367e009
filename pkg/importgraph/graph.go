package importgraph

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"

	apperrors "github.com/matzehuels/importchain/pkg/errors"
)

var (
	// ErrInvalidModuleID is returned by [Graph.AddModule] and [Graph.AddImport]
	// when a module identifier is empty.
	ErrInvalidModuleID = errors.New("module ID must not be empty")

	// ErrSelfImport is returned by [Graph.AddImport] when a module would
	// import itself.
	ErrSelfImport = errors.New("module cannot import itself")
)

// Separator splits module identifiers into their package hierarchy.
// "app.domain.models" is a descendant of "app.domain" and "app".
const Separator = "."

// Metadata stores arbitrary key-value pairs attached to an import, such as
// the source line numbers it was found on. Metadata maps are never nil
// after [Graph.AddImport].
type Metadata map[string]any

// Import is a directed edge: Importer directly imports Imported.
type Import struct {
	Importer string
	Imported string
	Meta     Metadata
}

type edgeKey struct{ from, to string }

// Graph is a directed import graph between named modules.
//
// Unlike a DAG, cycles are allowed: real codebases routinely contain
// mutually-importing modules. Package containment is derived from the
// dotted identifier hierarchy, so a package does not need to exist as a
// module for its descendants to be found.
//
// Graph is safe for concurrent use. Reads may run in parallel; writes take
// an exclusive lock.
type Graph struct {
	mu         sync.RWMutex
	modules    map[string]struct{}
	imports    map[string]map[string]struct{} // importer -> imported
	importedBy map[string]map[string]struct{} // imported -> importers
	meta       map[edgeKey]Metadata
}

// New creates an empty import graph.
func New() *Graph {
	return &Graph{
		modules:    make(map[string]struct{}),
		imports:    make(map[string]map[string]struct{}),
		importedBy: make(map[string]map[string]struct{}),
		meta:       make(map[edgeKey]Metadata),
	}
}

// AddModule adds a module to the graph. Adding an existing module is a no-op.
func (g *Graph) AddModule(id string) error {
	if id == "" {
		return ErrInvalidModuleID
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.modules[id] = struct{}{}
	return nil
}

// AddImport records that imp.Importer directly imports imp.Imported.
// Both modules are added to the graph if they are not known yet. Adding an
// existing import merges its metadata.
func (g *Graph) AddImport(imp Import) error {
	if imp.Importer == "" || imp.Imported == "" {
		return ErrInvalidModuleID
	}
	if imp.Importer == imp.Imported {
		return ErrSelfImport
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.modules[imp.Importer] = struct{}{}
	g.modules[imp.Imported] = struct{}{}
	link(g.imports, imp.Importer, imp.Imported)
	link(g.importedBy, imp.Imported, imp.Importer)

	key := edgeKey{imp.Importer, imp.Imported}
	m, ok := g.meta[key]
	if !ok {
		m = Metadata{}
		g.meta[key] = m
	}
	maps.Copy(m, imp.Meta)
	return nil
}

// RemoveImport removes the import from→to if it exists.
// No error is returned if the import does not exist. Both modules remain
// in the graph.
func (g *Graph) RemoveImport(from, to string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if set, ok := g.imports[from]; ok {
		delete(set, to)
	}
	if set, ok := g.importedBy[to]; ok {
		delete(set, from)
	}
	delete(g.meta, edgeKey{from, to})
}

func link(index map[string]map[string]struct{}, from, to string) {
	set, ok := index[from]
	if !ok {
		set = make(map[string]struct{})
		index[from] = set
	}
	set[to] = struct{}{}
}

// Modules returns all module identifiers in ascending order.
func (g *Graph) Modules() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Sorted(maps.Keys(g.modules))
}

// ContainsModule reports whether id is a known module.
func (g *Graph) ContainsModule(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.modules[id]
	return ok
}

// ModuleCount returns the number of modules in the graph.
func (g *Graph) ModuleCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.modules)
}

// ImportCount returns the number of distinct imports in the graph.
func (g *Graph) ImportCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, set := range g.imports {
		n += len(set)
	}
	return n
}

// DirectImports returns the modules directly imported by id, sorted.
// It returns an UNKNOWN_MODULE error from pkg/errors if id is not a module
// in the graph; a known module without imports yields an empty slice.
func (g *Graph) DirectImports(id string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.modules[id]; !ok {
		return nil, unknownModule(id)
	}
	return slices.Sorted(maps.Keys(g.imports[id])), nil
}

// DirectImportedBy returns the modules that directly import id, sorted.
// Like [Graph.DirectImports], unknown modules yield an UNKNOWN_MODULE error.
func (g *Graph) DirectImportedBy(id string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.modules[id]; !ok {
		return nil, unknownModule(id)
	}
	return slices.Sorted(maps.Keys(g.importedBy[id])), nil
}

// DirectImportExists reports whether importer directly imports imported.
func (g *Graph) DirectImportExists(importer, imported string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.imports[importer][imported]
	return ok
}

// ImportMeta returns the metadata recorded for an import and whether the
// import exists. The returned map is a copy.
func (g *Graph) ImportMeta(importer, imported string) (Metadata, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, ok := g.meta[edgeKey{importer, imported}]
	if !ok {
		return nil, false
	}
	return maps.Clone(m), true
}

// Imports returns every import in the graph ordered by importer, then
// imported. The metadata maps are copies.
func (g *Graph) Imports() []Import {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []Import
	for _, from := range slices.Sorted(maps.Keys(g.imports)) {
		for _, to := range slices.Sorted(maps.Keys(g.imports[from])) {
			out = append(out, Import{
				Importer: from,
				Imported: to,
				Meta:     maps.Clone(g.meta[edgeKey{from, to}]),
			})
		}
	}
	return out
}

// Descendants returns every module nested under pkg (excluding pkg itself),
// sorted. pkg does not need to be a module: the hierarchy is derived from
// identifiers, so an absent package simply collects its known descendants.
// The error is always nil; it exists to satisfy query interfaces that may
// be backed by fallible stores.
func (g *Graph) Descendants(pkg string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	prefix := pkg + Separator
	var out []string
	for id := range g.modules {
		if strings.HasPrefix(id, prefix) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out, nil
}

// Children returns the modules exactly one level below pkg, sorted.
func (g *Graph) Children(pkg string) []string {
	desc, _ := g.Descendants(pkg)
	prefix := pkg + Separator
	return slices.DeleteFunc(desc, func(id string) bool {
		return strings.Contains(strings.TrimPrefix(id, prefix), Separator)
	})
}

// Ancestors returns the known modules that contain id, nearest first.
// For "a.b.c" with modules "a" and "a.b" present it returns ["a.b", "a"].
func (g *Graph) Ancestors(id string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []string
	for i := strings.LastIndex(id, Separator); i > 0; i = strings.LastIndex(id[:i], Separator) {
		if _, ok := g.modules[id[:i]]; ok {
			out = append(out, id[:i])
		}
	}
	return out, nil
}

// Clone returns a deep copy of the graph. The copy shares no mutable state
// with g.
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c := New()
	maps.Copy(c.modules, g.modules)
	for from, set := range g.imports {
		c.imports[from] = maps.Clone(set)
	}
	for to, set := range g.importedBy {
		c.importedBy[to] = maps.Clone(set)
	}
	for k, m := range g.meta {
		c.meta[k] = maps.Clone(m)
	}
	return c
}

func unknownModule(id string) error {
	return apperrors.New(apperrors.ErrCodeUnknownModule, "unknown module %q", id)
}
