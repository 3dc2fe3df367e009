// Package pkg provides the core libraries for importchain.
//
// # Overview
//
// importchain answers "how does module A end up importing module B?" for a
// codebase's import graph. It lists every shortest chain of direct imports
// between two modules and checks architectural contracts built on those
// chains. The pkg directory is organized into four areas:
//
//  1. Domain logic: [importgraph], [chains], [contract]
//  2. Serialization and output: [io], [render], [render/nodelink]
//  3. Infrastructure: [cache], [store], [server], [observability]
//  4. Shared: [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	JSON import graph
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [importgraph] package (graph structure + package hierarchy)
//	         ↓
//	    [chains] package (all shortest chains, batched and cached)
//	         ↓
//	    [contract] package (forbidden imports, layers)
//	         ↓
//	    terminal / JSON / SVG / PDF / PNG / HTTP
//
// # Quick Start
//
//	g, _ := io.ImportJSON("graph.json")
//	set, _ := chains.FindShortestChains(g, "app.web", "app.db", chains.Options{
//	    AsPackages: true,
//	})
//	for _, c := range set.Chains() {
//	    fmt.Println(c)
//	}
//
// # Main Packages
//
// [importgraph] - Directed import graph between dotted module identifiers.
// Cycles are allowed; package containment comes from the identifiers. Also
// carries a single-chain search used as the legacy algorithm.
//
// [chains] - Breadth-first search returning every shortest chain, a
// [chains.Selector] that switches between algorithms, concurrent batch
// search and a cache-backed finder.
//
// [contract] - TOML contract files and the checker that turns forbidden
// dependencies into violations with their chains.
//
// [io] - JSON graph format, content hashing and line-number metadata.
//
// [render/nodelink] - Graphviz diagrams of chain sets. [render] converts SVG
// to PDF and PNG and formats chains and durations for humans.
//
// [cache] - Result cache with file, Redis and null backends plus
// deterministic key generation.
//
// [store] - Graph snapshots in memory or MongoDB for the HTTP API.
//
// [server] - chi-based HTTP API over stored graphs.
//
// [observability] - Hooks for searches, cache activity and HTTP requests.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/chains/...             # Specific package
//	go test -run Example                 # Examples only
//
// [importgraph]: https://pkg.go.dev/github.com/matzehuels/importchain/pkg/importgraph
// [chains]: https://pkg.go.dev/github.com/matzehuels/importchain/pkg/chains
// [contract]: https://pkg.go.dev/github.com/matzehuels/importchain/pkg/contract
// [io]: https://pkg.go.dev/github.com/matzehuels/importchain/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/importchain/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/importchain/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/importchain/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/importchain/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/importchain/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/importchain/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/importchain/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/importchain/pkg/buildinfo
package pkg
