package chains

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/importchain/pkg/observability"
)

// Query is one shortest-chain search in a batch.
type Query struct {
	Importer string
	Imported string
	Options  Options
}

// Result pairs a query with the chains found for it.
type Result struct {
	Query  Query
	Chains *Set
}

// FindAll runs every query against g and returns results in query order.
//
// Searches run concurrently on up to workers goroutines (GOMAXPROCS when
// workers <= 0); each individual search is still single-threaded. g must be
// safe for concurrent reads. The first failing search cancels the rest and
// its error is returned. Cancelling ctx stops queries that have not started.
func FindAll(ctx context.Context, g Graph, queries []Query, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(queries))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, q := range queries {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			set, err := find(ctx, g, q)
			if err != nil {
				return err
			}
			results[i] = Result{Query: q, Chains: set}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// find runs one search and reports it to the observability hooks.
func find(ctx context.Context, g Graph, q Query) (*Set, error) {
	hooks := observability.Search()
	hooks.OnSearchStart(ctx, q.Importer, q.Imported)
	start := time.Now()

	set, err := FindShortestChains(g, q.Importer, q.Imported, q.Options)

	hooks.OnSearchComplete(ctx, q.Importer, q.Imported, set.Len(), set.Length(), time.Since(start), err)
	return set, err
}
