package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/importchain/pkg/cache"
	"github.com/matzehuels/importchain/pkg/contract"
	"github.com/matzehuels/importchain/pkg/importgraph"
)

// ErrContractsBroken is returned by the check command when any contract is
// broken. The report has already been printed.
var ErrContractsBroken = errors.New("contracts broken")

// checkOpts holds the flags of the check command.
type checkOpts struct {
	config  string
	workers int
	json    bool
	cache   cacheFlags
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	opts := &checkOpts{}

	cmd := &cobra.Command{
		Use:   "check GRAPH",
		Short: "Check architectural contracts against an import graph",
		Long: `Check the forbidden-import and layer contracts in a TOML file against GRAPH.

Every violation is reported with the shortest chains that realize it. The
command exits with status 1 when any contract is broken.`,
		Example: `  importchain check graph.json --config contracts.toml
  importchain check graph.json -c contracts.toml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "contracts.toml", "contract file")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent searches per contract (0 = number of CPUs)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, graphPath string, opts *checkOpts) error {
	cfg, err := contract.Load(opts.config)
	if err != nil {
		return err
	}
	g, hash, err := c.loadGraph(graphPath)
	if err != nil {
		return err
	}
	store, err := opts.cache.open(ctx, c.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	report, cached, err := c.checkCached(ctx, store, g, hash, cfg, opts.workers)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(report, cached)
	}
	if !report.Kept() {
		return ErrContractsBroken
	}
	return nil
}

// checkCached returns the report for cfg against g, reusing a cached one
// when the graph and the contract file are unchanged.
func (c *CLI) checkCached(ctx context.Context, store cache.Cache, g *importgraph.Graph, graphHash string, cfg *contract.Config, workers int) (*contract.Report, bool, error) {
	key := cache.NewDefaultKeyer().ReportKey(graphHash, cfg.Hash())

	if data, hit, err := store.Get(ctx, key); err != nil {
		c.Logger.Warn("cache read failed", "err", err)
	} else if hit {
		var report contract.Report
		if err := json.Unmarshal(data, &report); err == nil {
			c.Logger.Debug("report cache hit", "key", key)
			return &report, true, nil
		}
		c.Logger.Warn("discarding corrupt cache entry", "key", key)
	}

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Checking %d contracts...", len(cfg.Contracts)))
	spinner.Start()
	checker := &contract.Checker{Workers: workers, Logger: c.Logger}
	report, err := checker.Check(ctx, g, cfg)
	spinner.Stop()
	if err != nil {
		return nil, false, err
	}
	report.GraphHash = graphHash

	if data, err := json.Marshal(report); err == nil {
		if err := store.Set(ctx, key, data, cache.ReportTTL); err != nil {
			c.Logger.Warn("cache write failed", "err", err)
		}
	}
	return report, false, nil
}
