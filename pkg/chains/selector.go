package chains

import "github.com/charmbracelet/log"

// Backend is a full import graph that can be wrapped by a [Selector].
// Besides the queries the finder needs, it provides ancestor lookup, its
// own single-chain search, and deep copying into a value of type B.
//
// *importgraph.Graph satisfies Backend[*importgraph.Graph].
type Backend[B any] interface {
	Graph
	LegacyFinder
	Ancestors(module string) ([]string, error)
	Clone() B
}

// Selector wraps a backend graph and chooses which algorithm answers
// FindShortestChains: the breadth-first all-shortest-chains search in this
// package, or the backend's own single-chain search. All other queries go
// straight to the backend.
type Selector[B Backend[B]] struct {
	backend B
	useBFS  bool

	// Logger is passed to the breadth-first search for tracing. Nil
	// disables tracing.
	Logger *log.Logger
}

// NewSelector wraps backend. With useBFS set, FindShortestChains uses
// [FindShortestChains]; otherwise it defers to the backend.
func NewSelector[B Backend[B]](backend B, useBFS bool) *Selector[B] {
	return &Selector[B]{backend: backend, useBFS: useBFS}
}

// Backend returns the wrapped graph for operations the selector does not
// expose.
func (s *Selector[B]) Backend() B { return s.backend }

// UsesBFS reports whether the breadth-first search is selected.
func (s *Selector[B]) UsesBFS() bool { return s.useBFS }

// FindShortestChains returns the shortest chains from importer to imported
// using the selected algorithm.
func (s *Selector[B]) FindShortestChains(importer, imported string, asPackages bool) (*Set, error) {
	if s.useBFS {
		return FindShortestChains(s.backend, importer, imported, Options{
			AsPackages: asPackages,
			Logger:     s.Logger,
		})
	}
	return legacySet(s.backend, importer, imported, asPackages)
}

func legacySet(l LegacyFinder, importer, imported string, asPackages bool) (*Set, error) {
	found, err := l.FindShortestChains(importer, imported, asPackages)
	if err != nil {
		return nil, err
	}
	set := &Set{}
	for _, c := range found {
		set.Add(c)
	}
	return set, nil
}

// Modules forwards to the backend.
func (s *Selector[B]) Modules() []string { return s.backend.Modules() }

// DirectImports forwards to the backend.
func (s *Selector[B]) DirectImports(module string) ([]string, error) {
	return s.backend.DirectImports(module)
}

// Descendants forwards to the backend.
func (s *Selector[B]) Descendants(module string) ([]string, error) {
	return s.backend.Descendants(module)
}

// Ancestors forwards to the backend.
func (s *Selector[B]) Ancestors(module string) ([]string, error) {
	return s.backend.Ancestors(module)
}

// Clone returns an independent selector over a deep copy of the backend,
// keeping the algorithm choice and logger.
func (s *Selector[B]) Clone() *Selector[B] {
	return &Selector[B]{
		backend: s.backend.Clone(),
		useBFS:  s.useBFS,
		Logger:  s.Logger,
	}
}
