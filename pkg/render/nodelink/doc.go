// Package nodelink renders molecular graphs as ball-and-stick style
// node-link diagrams.
//
// # Usage
//
// Convert a molecule to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{ShowIndex: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Title: caption drawn above the structure
//   - ShowIndex: label atoms as "C7" instead of "C", useful to compare an
//     input numbering with its canonical numbering
//   - ShowPartition: add each atom's partition id below its symbol
//
// Atoms are filled with their element color from package elements, with
// black or white text chosen for contrast. The layout engine is neato, which
// suits small undirected graphs.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
