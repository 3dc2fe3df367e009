package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/importchain/pkg/chains"
	apperrors "github.com/matzehuels/importchain/pkg/errors"
	"github.com/matzehuels/importchain/pkg/importgraph"
	gio "github.com/matzehuels/importchain/pkg/io"
	"github.com/matzehuels/importchain/pkg/render"
	"github.com/matzehuels/importchain/pkg/render/nodelink"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output     string
	asPackages bool
	maxDepth   int
	noLines    bool
	scale      float64
	cache      cacheFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := &renderOpts{}

	cmd := &cobra.Command{
		Use:   "render GRAPH IMPORTER IMPORTED",
		Short: "Draw the shortest import chains between two modules",
		Long: `Draw every shortest import chain from IMPORTER to IMPORTED as a diagram.

The output format follows the file extension: .svg, .dot, .pdf or .png.
PDF and PNG need rsvg-convert. Edges are labelled with the source lines
recorded in the graph unless --no-lines is set.`,
		Example: `  importchain render graph.json app.web app.db -o chains.svg
  importchain render graph.json app.web app.db -o chains.png --scale 3`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], args[1], args[2], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "chains.svg", "output file (.svg, .dot, .pdf, .png)")
	cmd.Flags().BoolVar(&opts.asPackages, "as-packages", true, "treat both modules as packages including their descendants")
	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", 0, "maximum number of imports in a chain (0 = unbounded)")
	cmd.Flags().BoolVar(&opts.noLines, "no-lines", false, "omit line numbers from edge labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG resolution multiplier")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, graphPath, importer, imported string, opts *renderOpts) error {
	if _, err := outputFormat(opts.output); err != nil {
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

	set, _, err := chains.NewCachedFinder(g, hash, store, c.Logger).Find(ctx, importer, imported, chains.Options{
		AsPackages: opts.asPackages,
		MaxDepth:   opts.maxDepth,
		Logger:     c.Logger,
	})
	if err != nil {
		return err
	}
	if set.Empty() {
		printWarning("No chain from %s to %s, nothing to draw", importer, imported)
		return nil
	}

	dotOpts := nodelink.Options{Title: importer + " → " + imported}
	if !opts.noLines {
		dotOpts.Lines = lineLookup(g)
	}

	prog := newProgress(c.Logger)
	data, err := renderChains(ctx, set, dotOpts, opts.output, opts.scale)
	if err != nil {
		return err
	}
	prog.done("rendered", "format", filepath.Ext(opts.output), "bytes", len(data))

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "write %s", opts.output)
	}
	printSuccess("Rendered %d chains", set.Len())
	printFile(opts.output)
	return nil
}

// outputFormat returns the lower-cased extension of path without the dot,
// or an UNSUPPORTED error for formats render cannot write.
func outputFormat(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "svg", "dot", "pdf", "png":
		return ext, nil
	}
	return "", apperrors.New(apperrors.ErrCodeUnsupported, "unsupported output format %q (want .svg, .dot, .pdf or .png)", filepath.Ext(path))
}

// renderChains draws set in the format implied by the output path.
func renderChains(ctx context.Context, set *chains.Set, opts nodelink.Options, output string, scale float64) ([]byte, error) {
	format, err := outputFormat(output)
	if err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(set, opts)
	if format == "dot" {
		return []byte(dot), nil
	}

	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	switch format {
	case "pdf":
		return render.ToPDF(ctx, svg)
	case "png":
		return render.ToPNG(ctx, svg, scale)
	}
	return svg, nil
}

// lineLookup reads edge line numbers from the graph's import metadata.
func lineLookup(g *importgraph.Graph) nodelink.LineLookup {
	return func(importer, imported string) []int {
		meta, ok := g.ImportMeta(importer, imported)
		if !ok {
			return nil
		}
		return gio.LineNumbers(meta)
	}
}
