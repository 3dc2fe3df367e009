package chains

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/importchain/pkg/cache"
	"github.com/matzehuels/importchain/pkg/observability"
)

// CachedFinder memoizes searches against one graph.
//
// Results are keyed by GraphHash, a content hash of the graph the caller
// computed (see io.Hash), plus the query parameters. A cache failure never
// fails a search: it is logged and the search runs uncached.
type CachedFinder struct {
	Graph     Graph
	GraphHash string
	Cache     cache.Cache
	Keyer     cache.Keyer
	TTL       time.Duration
	Logger    *log.Logger

	// Legacy, when set, answers searches with its single-chain algorithm
	// instead of the breadth-first search. Its results are cached apart.
	Legacy LegacyFinder
}

// LegacyFinder is a graph's own single-chain search, as used by [Selector].
type LegacyFinder interface {
	FindShortestChains(importer, imported string, asPackages bool) ([][]string, error)
}

// NewCachedFinder creates a finder over g. A nil cache disables caching and
// a nil logger discards cache warnings.
func NewCachedFinder(g Graph, graphHash string, c cache.Cache, logger *log.Logger) *CachedFinder {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = discard
	}
	return &CachedFinder{
		Graph:     g,
		GraphHash: graphHash,
		Cache:     c,
		Keyer:     cache.NewDefaultKeyer(),
		TTL:       cache.ChainsTTL,
		Logger:    logger,
	}
}

// Find returns the shortest chains from importer to imported and whether
// they came from the cache. opts.Logger traces the search itself.
func (f *CachedFinder) Find(ctx context.Context, importer, imported string, opts Options) (*Set, bool, error) {
	key := f.Keyer.ChainsKey(f.GraphHash, cache.ChainsKeyOpts{
		Importer:   importer,
		Imported:   imported,
		AsPackages: opts.AsPackages,
		MaxDepth:   opts.MaxDepth,
		Legacy:     f.Legacy != nil,
	})

	if data, hit, err := f.Cache.Get(ctx, key); err != nil {
		f.Logger.Warn("cache read failed", "err", err)
	} else if hit {
		set := &Set{}
		if err := json.Unmarshal(data, set); err == nil {
			observability.Cache().OnCacheHit(ctx, "chains")
			return set, true, nil
		}
		f.Logger.Warn("discarding corrupt cache entry", "key", key)
	}
	observability.Cache().OnCacheMiss(ctx, "chains")

	set, err := f.search(ctx, importer, imported, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(set); err == nil {
		if err := f.Cache.Set(ctx, key, data, f.TTL); err != nil {
			f.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "chains", len(data))
		}
	}
	return set, false, nil
}

func (f *CachedFinder) search(ctx context.Context, importer, imported string, opts Options) (*Set, error) {
	if f.Legacy == nil {
		return find(ctx, f.Graph, Query{Importer: importer, Imported: imported, Options: opts})
	}
	return legacySet(f.Legacy, importer, imported, opts.AsPackages)
}
