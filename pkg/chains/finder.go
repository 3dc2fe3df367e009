package chains

import (
	"io"
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/importchain/pkg/errors"
)

// Graph is the read-only view of an import graph the finder needs.
//
// DirectImports and Descendants should report identifiers that are not in
// the graph with an UNKNOWN_MODULE error from pkg/errors; the finder treats
// those as "no candidates". Any other error aborts the search and is
// returned to the caller unchanged.
type Graph interface {
	// Modules returns every known module identifier.
	Modules() []string
	// DirectImports returns the modules directly imported by module.
	DirectImports(module string) ([]string, error)
	// Descendants returns the modules nested under module, excluding itself.
	Descendants(module string) ([]string, error)
}

// moduleChecker is implemented by graphs that can answer membership
// without listing every module.
type moduleChecker interface {
	ContainsModule(module string) bool
}

// Options configures a shortest-chain search.
type Options struct {
	// AsPackages expands every visited node to itself plus its descendants
	// and follows the imports of all of them. When false, only direct
	// imports landing exactly on the imported module are followed.
	AsPackages bool

	// MaxDepth bounds the number of imports in a chain. Partial chains that
	// already hold more than MaxDepth modules are not expanded.
	// Zero means unbounded.
	MaxDepth int

	// Logger receives debug-level traces of visited nodes, pruning
	// decisions and candidate edges. Nil disables tracing.
	Logger *log.Logger
}

var discard = log.New(io.Discard)

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return discard
	}
	return o.Logger
}

// FindShortestChains returns every shortest import chain from importer to
// imported.
//
// The search is breadth-first over partial chains held in a FIFO queue.
// The first time imported is reached fixes the shortest length; all chains
// of that length are collected and anything at or beyond it is pruned.
// Chains never revisit a module. An empty set means no chain exists.
//
// importer and imported must be non-empty and distinct; otherwise an
// INVALID_INPUT error is returned. g is never modified.
func FindShortestChains(g Graph, importer, imported string, opts Options) (*Set, error) {
	if importer == "" || imported == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "importer and imported must not be empty")
	}
	if importer == imported {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "importer and imported must differ (both %q)", importer)
	}

	s := &search{
		g:        g,
		imported: imported,
		opts:     opts,
		logger:   opts.logger(),
		known:    knownModules(g),
	}
	return s.run(importer)
}

type search struct {
	g        Graph
	imported string
	opts     Options
	logger   *log.Logger
	known    func(string) bool
}

func (s *search) run(importer string) (*Set, error) {
	found := &Set{}
	shortest := 0
	queue := [][]string{{importer}}

	for len(queue) > 0 {
		path := queue[0]
		queue[0] = nil
		queue = queue[1:]

		node := path[len(path)-1]
		depth := len(path)
		s.logger.Debug("visit", "node", node, "depth", depth)

		if node == s.imported {
			// Longer chains queued before the first hit still arrive here.
			if shortest > 0 && depth > shortest {
				s.logger.Debug("prune", "node", node, "depth", depth, "shortest", shortest)
				continue
			}
			found.Add(path)
			if shortest == 0 {
				shortest = depth
			}
			s.logger.Debug("target reached", "chain", Chain(path).String(), "depth", depth)
			continue
		}
		if shortest > 0 && depth >= shortest {
			s.logger.Debug("prune", "node", node, "depth", depth, "shortest", shortest)
			continue
		}
		if s.opts.MaxDepth > 0 && depth > s.opts.MaxDepth {
			s.logger.Debug("prune", "node", node, "depth", depth, "max_depth", s.opts.MaxDepth)
			continue
		}

		next, err := s.nextHops(node)
		if err != nil {
			return nil, err
		}
		if len(next) == 0 {
			continue
		}

		onPath := make(map[string]struct{}, len(path))
		for _, id := range path {
			onPath[id] = struct{}{}
		}
		for _, id := range next {
			if _, ok := onPath[id]; ok {
				s.logger.Debug("skip cycle", "node", node, "candidate", id)
				continue
			}
			s.logger.Debug("enqueue", "from", node, "to", id)
			queue = append(queue, append(slices.Clip(path), id))
		}
	}
	return found, nil
}

// nextHops returns the sorted candidate modules reachable from node in one step.
func (s *search) nextHops(node string) ([]string, error) {
	if !s.opts.AsPackages {
		if !s.known(node) {
			return nil, nil
		}
		imports, err := s.directImports(node)
		if err != nil {
			return nil, err
		}
		if slices.Contains(imports, s.imported) {
			return []string{s.imported}, nil
		}
		return nil, nil
	}

	members, err := s.g.Descendants(node)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrCodeUnknownModule) {
			return nil, err
		}
		members = nil
	}
	members = append([]string{node}, members...)
	s.logger.Debug("expand package", "node", node, "members", len(members))

	candidates := make(map[string]struct{})
	for _, m := range members {
		if !s.known(m) {
			continue
		}
		imports, err := s.directImports(m)
		if err != nil {
			return nil, err
		}
		for _, id := range imports {
			candidates[id] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(candidates)), nil
}

func (s *search) directImports(module string) ([]string, error) {
	imports, err := s.g.DirectImports(module)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCodeUnknownModule) {
			return nil, nil
		}
		return nil, err
	}
	return imports, nil
}

func knownModules(g Graph) func(string) bool {
	if mc, ok := g.(moduleChecker); ok {
		return mc.ContainsModule
	}
	set := make(map[string]struct{})
	for _, id := range g.Modules() {
		set[id] = struct{}{}
	}
	return func(id string) bool {
		_, ok := set[id]
		return ok
	}
}
