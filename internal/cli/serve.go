package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/importchain/pkg/server"
	"github.com/matzehuels/importchain/pkg/store"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	addr     string
	mongoURI string
	database string
	workers  int
	maxBody  int64
	cache    cacheFlags
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := &serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for uploading graphs and querying chains and contracts.

Graphs are kept in memory unless --mongo-uri is set. Search results are
cached locally, or in Redis with --redis.`,
		Example: `  importchain serve --addr :8080
  importchain serve --mongo-uri mongodb://localhost:27017 --redis localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", os.Getenv(envMongoURI), "store graphs in MongoDB (env "+envMongoURI+")")
	cmd.Flags().StringVar(&opts.database, "mongo-db", "importchain", "MongoDB database name")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent searches per contract check (0 = number of CPUs)")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", server.DefaultMaxBody, "maximum request body in bytes")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	graphs, err := c.openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := graphs.Close(closeCtx); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()

	results, err := opts.cache.open(ctx, c.Logger)
	if err != nil {
		return err
	}
	defer results.Close()

	srv := server.New(server.Options{
		Store:   graphs,
		Cache:   results,
		Logger:  c.Logger,
		Workers: opts.workers,
		MaxBody: opts.maxBody,
	})
	return srv.ListenAndServe(ctx, opts.addr)
}

func (c *CLI) openStore(ctx context.Context, opts *serveOpts) (store.GraphStore, error) {
	if opts.mongoURI == "" {
		c.Logger.Info("storing graphs in memory")
		return store.NewMemoryStore(), nil
	}
	s, err := store.NewMongoStore(ctx, store.MongoOptions{URI: opts.mongoURI, Database: opts.database})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("storing graphs in MongoDB", "database", opts.database)
	return s, nil
}
