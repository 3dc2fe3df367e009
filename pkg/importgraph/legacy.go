package importgraph

import (
	"maps"
	"slices"

	apperrors "github.com/matzehuels/importchain/pkg/errors"
)

// FindShortestChain finds a single shortest import chain from importer to
// imported using breadth-first search with parent tracking.
//
// With asPackages set, every known module under importer is a start point
// and every known module under imported is a goal, so the returned chain
// begins and ends at concrete modules rather than at the package names.
// Packages that overlap (one containing the other) are rejected.
//
// The result holds at most one chain. Ties are broken by identifier order,
// so repeated calls on the same graph return the same chain.
func (g *Graph) FindShortestChain(importer, imported string, asPackages bool) ([]string, error) {
	sources := g.expand(importer, asPackages)
	targets := g.expand(imported, asPackages)
	for id := range sources {
		if _, ok := targets[id]; ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
				"modules %q and %q overlap", importer, imported)
		}
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	parent := make(map[string]string)
	visited := make(map[string]bool)
	queue := slices.Sorted(maps.Keys(sources))
	for _, id := range queue {
		visited[id] = true
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range slices.Sorted(maps.Keys(g.imports[current])) {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = current

			if _, ok := targets[next]; ok {
				chain := []string{next}
				for p, ok := parent[next]; ok; p, ok = parent[p] {
					chain = append(chain, p)
				}
				slices.Reverse(chain)
				return chain, nil
			}
			queue = append(queue, next)
		}
	}
	return nil, nil
}

// FindShortestChains adapts [Graph.FindShortestChain] to the multi-chain
// shape: it returns either no chains or exactly one.
func (g *Graph) FindShortestChains(importer, imported string, asPackages bool) ([][]string, error) {
	chain, err := g.FindShortestChain(importer, imported, asPackages)
	if err != nil || chain == nil {
		return nil, err
	}
	return [][]string{chain}, nil
}

// expand returns the known modules that id stands for.
func (g *Graph) expand(id string, asPackages bool) map[string]struct{} {
	out := make(map[string]struct{})
	if g.ContainsModule(id) {
		out[id] = struct{}{}
	}
	if asPackages {
		desc, _ := g.Descendants(id)
		for _, d := range desc {
			out[d] = struct{}{}
		}
	}
	return out
}
