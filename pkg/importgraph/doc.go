// Package importgraph provides the directed module import graph that chain
// searches run against.
//
// # Overview
//
// Nodes are module identifiers such as "app.domain.models" and edges are
// direct imports. Cycles are allowed. The package hierarchy is derived from
// the identifiers themselves: [Graph.Descendants], [Graph.Children] and
// [Graph.Ancestors] split on [Separator].
//
// # Basic Usage
//
//	g := importgraph.New()
//	g.AddImport(importgraph.Import{Importer: "app.ui", Imported: "app.domain"})
//	g.AddImport(importgraph.Import{Importer: "app.domain", Imported: "app.db"})
//
//	imports, err := g.DirectImports("app.ui") // ["app.domain"]
//	desc, _ := g.Descendants("app")           // ["app.db", "app.domain", "app.ui"]
//
// Querying an identifier that is not a module returns an error carrying the
// UNKNOWN_MODULE code from pkg/errors, which callers can test with
// errors.Is(err, errors.ErrCodeUnknownModule).
//
// # Legacy Search
//
// [Graph.FindShortestChain] is the classic single-result BFS with parent
// tracking. The chains package wraps it behind an algorithm selector so
// results can be compared against the all-shortest-chains search.
//
// # Concurrency
//
// Graph guards its indexes with a read/write mutex. Any number of searches
// can read the same graph concurrently; mutations wait for readers.
package importgraph
