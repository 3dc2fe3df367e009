// Package chains finds every shortest import chain between two modules.
//
// # Overview
//
// An import chain is a path a -> b -> c where each module directly imports
// the next. Architecture checks ("the ui layer must not import the db
// layer") need every minimal chain as evidence, not just one, so
// [FindShortestChains] returns a [Set] holding all chains tied for the
// shortest length.
//
// # Algorithm
//
// The search is breadth-first over partial chains kept in a FIFO queue.
// FIFO order means chains are processed in non-decreasing length, so the
// first chain that reaches the target has minimal length. Every other chain
// of that length is still in the queue at that point and is collected;
// anything at or beyond that length is dropped without expansion. A module
// is never added to a chain that already contains it.
//
// Two expansion modes are supported:
//
//   - Package mode ([Options].AsPackages): a node stands for itself and all
//     of its descendants, and the imports of all of them are followed. A
//     package "app" whose submodule "app.ui" imports "db" yields the chain
//     app -> db.
//   - Module mode: only direct imports landing exactly on the target are
//     followed, so the only possible chain is the direct import itself.
//
// # Basic Usage
//
//	set, err := chains.FindShortestChains(g, "app.ui", "app.db", chains.Options{AsPackages: true})
//	for _, c := range set.Chains() {
//	    fmt.Println(c) // app.ui -> app.domain -> app.db
//	}
//
// # Graph Interface
//
// The finder reads the graph through the three-method [Graph] interface.
// *importgraph.Graph implements it, as does [Selector], which additionally
// lets callers switch to the backend's legacy single-chain search.
//
// # Batches and Caching
//
// [FindAll] runs many searches concurrently over a shared read-only graph
// and [CachedFinder] memoizes results in a pkg/cache backend keyed by graph
// content hash.
package chains
