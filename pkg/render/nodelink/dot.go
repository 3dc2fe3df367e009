package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/importchain/pkg/chains"
)

// LineLookup returns the source lines on which importer imports imported.
type LineLookup func(importer, imported string) []int

// Options configures chain diagram rendering.
type Options struct {
	// Title is drawn above the diagram when set.
	Title string

	// Lines labels each edge with its line numbers when set.
	Lines LineLookup
}

type edge struct{ from, to string }

// ToDOT converts a chain set to Graphviz DOT. Output is deterministic for
// a given set. An empty set yields a graph without nodes.
func ToDOT(set *chains.Set, opts Options) string {
	var (
		nodes []string
		edges []edge
		seenN = map[string]bool{}
		seenE = map[edge]bool{}
		first string
		last  string
	)
	for _, c := range set.Chains() {
		first, last = c[0], c[len(c)-1]
		for i, id := range c {
			if !seenN[id] {
				seenN[id] = true
				nodes = append(nodes, id)
			}
			if i == 0 {
				continue
			}
			e := edge{c[i-1], id}
			if !seenE[e] {
				seenE[e] = true
				edges = append(edges, e)
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	for _, id := range nodes {
		attrs := []string{fmt.Sprintf("label=%q", id)}
		switch id {
		case first:
			attrs = append(attrs, "fillcolor=\"#d7ecff\"", "penwidth=2")
		case last:
			attrs = append(attrs, "fillcolor=\"#ffd9d9\"", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}
	if first != "" {
		fmt.Fprintf(&buf, "  { rank=min; %q; }\n  { rank=max; %q; }\n", first, last)
	}

	buf.WriteString("\n")
	for _, e := range edges {
		if label := edgeLabel(opts.Lines, e); label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.from, e.to, label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.from, e.to)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeLabel(lines LineLookup, e edge) string {
	if lines == nil {
		return ""
	}
	nums := slices.Clone(lines(e.from, e.to))
	if len(nums) == 0 {
		return ""
	}
	slices.Sort(nums)
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return "l." + strings.Join(parts, ", ")
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based root element so the
// SVG scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
