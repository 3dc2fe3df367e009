// Package render turns chain search results into text and diagrams.
//
// Text helpers ([FormatChain], [FormatDuration]) back the CLI and API
// output. Diagrams are produced by the [nodelink] subpackage as Graphviz
// DOT and rendered in-process to SVG; [ToPDF] and [ToPNG] convert that SVG
// with the external rsvg-convert tool.
//
//	dot := nodelink.ToDOT(set, nodelink.Options{Title: "web -> db"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/importchain/pkg/render/nodelink
package render
