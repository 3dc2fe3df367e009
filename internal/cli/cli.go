// Package cli implements the importchain command-line interface.
//
// # Commands
//
//   - chains: list every shortest import chain between two modules
//   - check: verify a contract file against a graph
//   - render: draw the chains between two modules as SVG, PDF, PNG or DOT
//   - serve: run the HTTP API
//   - cache: inspect and clear the result cache
//   - completion: generate shell completion scripts
//
// All commands take --verbose (-v) for debug logging, which includes a
// trace of the chain search.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/importchain/pkg/buildinfo"
	"github.com/matzehuels/importchain/pkg/cache"
	"github.com/matzehuels/importchain/pkg/importgraph"
	gio "github.com/matzehuels/importchain/pkg/io"
)

const (
	// appName names the cache directory and the binary.
	appName = "importchain"

	envRedisAddr = "IMPORTCHAIN_REDIS_ADDR"
	envMongoURI  = "IMPORTCHAIN_MONGO_URI"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "importchain finds the shortest import chains between modules",
		Long: `importchain answers "how does module A end up importing module B?" by
listing every shortest chain of direct imports between them, and checks
architectural contracts (forbidden imports, layers) against an import graph.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.chainsCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	return root
}

// cacheFlags are shared by commands that read and write the result cache.
type cacheFlags struct {
	noCache   bool
	redisAddr string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().StringVar(&f.redisAddr, "redis", os.Getenv(envRedisAddr), "use a Redis cache at this address instead of the local one (env "+envRedisAddr+")")
}

// open returns the configured cache. A local cache that cannot be created
// degrades to no caching.
func (f *cacheFlags) open(ctx context.Context, logger *log.Logger) (cache.Cache, error) {
	if f.noCache {
		return cache.NewNullCache(), nil
	}
	if f.redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: f.redisAddr, Prefix: appName + ":"})
		if err != nil {
			return nil, err
		}
		logger.Debug("using redis cache", "addr", f.redisAddr)
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// loadGraph reads a JSON graph file and returns it with its content hash.
func (c *CLI) loadGraph(path string) (*importgraph.Graph, string, error) {
	prog := newProgress(c.Logger)
	g, err := gio.ImportJSON(path)
	if err != nil {
		return nil, "", err
	}
	prog.done("loaded graph", "modules", g.ModuleCount(), "imports", g.ImportCount())
	return g, gio.Hash(g), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/importchain/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
