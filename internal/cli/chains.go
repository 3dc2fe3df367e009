package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/importchain/pkg/chains"
)

// chainsOpts holds the flags of the chains command.
type chainsOpts struct {
	asPackages  bool
	maxDepth    int
	legacy      bool
	interactive bool
	cache       cacheFlags
}

// chainsCommand creates the chains command.
func (c *CLI) chainsCommand() *cobra.Command {
	opts := &chainsOpts{}

	cmd := &cobra.Command{
		Use:   "chains GRAPH IMPORTER IMPORTED",
		Short: "List every shortest import chain between two modules",
		Long: `List every shortest chain of direct imports from IMPORTER to IMPORTED.

GRAPH is a JSON import graph. With --as-packages (the default) both modules
stand for themselves and every module nested under them.`,
		Example: `  importchain chains graph.json app.web app.db
  importchain chains graph.json app.web.views app.db.models --as-packages=false
  importchain chains graph.json app.web app.db --interactive`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runChains(cmd, args[0], args[1], args[2], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.asPackages, "as-packages", true, "treat both modules as packages including their descendants")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "maximum number of imports in a chain (0 = unbounded)")
	cmd.Flags().BoolVar(&opts.legacy, "legacy", false, "use the single-chain search instead of listing every shortest chain")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the chains interactively")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runChains(cmd *cobra.Command, graphPath, importer, imported string, opts *chainsOpts) error {
	ctx := cmd.Context()

	g, hash, err := c.loadGraph(graphPath)
	if err != nil {
		return err
	}
	store, err := opts.cache.open(ctx, c.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	finder := chains.NewCachedFinder(g, hash, store, c.Logger)
	if opts.legacy {
		finder.Legacy = g
	}

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Searching %s → %s...", importer, imported))
	spinner.Start()
	prog := newProgress(c.Logger)
	set, cached, err := finder.Find(ctx, importer, imported, chains.Options{
		AsPackages: opts.asPackages,
		MaxDepth:   opts.maxDepth,
		Logger:     c.Logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	if spinner.Cancelled() {
		return ctx.Err()
	}
	prog.done("search finished", "chains", set.Len(), "cached", cached)

	if opts.interactive && !set.Empty() {
		_, err := tea.NewProgram(NewChainBrowserModel(importer, imported, set), tea.WithContext(ctx)).Run()
		return err
	}

	printChains(importer, imported, set, cached)
	if !set.Empty() {
		printNextStep("Draw them", fmt.Sprintf("importchain render %s %s %s -o chains.svg", graphPath, importer, imported))
	}
	return nil
}
