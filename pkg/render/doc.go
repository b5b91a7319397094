// Package render provides output-format handling for structure diagrams.
//
// # Overview
//
// Diagrams are produced as Graphviz DOT by the [nodelink] subpackage and laid
// out to SVG in-process. This package converts that SVG to other formats
// using the external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [FormatFromPath] maps an output file name to a [Format], so commands can
// accept "--out ferrocene.png" without a separate format flag.
//
// [nodelink]: github.com/matzehuels/molcanon/pkg/render/nodelink
package render
