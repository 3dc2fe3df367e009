// Package nodelink renders shortest import chains as node-link diagrams.
//
// # Usage
//
// Convert a chain set to DOT, then render it to SVG:
//
//	dot := nodelink.ToDOT(set, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Every module on any chain appears once; shared hops are drawn once. The
// importer is drawn at the top and the imported module at the bottom, both
// highlighted.
//
// # Options
//
//   - Title: graph label shown above the diagram
//   - Lines: optional lookup adding source line numbers to edges
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion lives in the parent render package.
package nodelink
