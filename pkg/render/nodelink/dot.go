package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/molcanon/pkg/elements"
	"github.com/matzehuels/molcanon/pkg/molecule"
	"github.com/matzehuels/molcanon/pkg/render"
)

// Options configures structure diagram rendering.
type Options struct {
	// Title is drawn above the diagram when non-empty.
	Title string
	// ShowIndex appends the 1-based atom number to each label.
	ShowIndex bool
	// ShowPartition appends the partition id to each label.
	ShowPartition bool
}

// ToDOT converts a molecule to an undirected Graphviz graph. Atoms are drawn
// as circles filled with their element color; bonds are plain edges.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(g *molecule.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph molecule {\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", opts.Title)
		buf.WriteString("  labelloc=t;\n")
	}
	buf.WriteString("  node [shape=circle, style=filled, fontname=\"Helvetica\", fontsize=14, width=0.5, fixedsize=true];\n")
	buf.WriteString("  edge [penwidth=2];\n")
	buf.WriteString("\n")

	for _, a := range g.Atoms() {
		color := elements.Color(a.Symbol)
		fmt.Fprintf(&buf, "  %d [label=%q, fillcolor=%q, fontcolor=%q];\n",
			a.Index+1, fmtLabel(a, opts), color, fontColor(color))
	}

	buf.WriteString("\n")
	for _, b := range g.Bonds() {
		fmt.Fprintf(&buf, "  %d -- %d;\n", b.A+1, b.B+1)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(a molecule.Atom, opts Options) string {
	label := a.Symbol
	if opts.ShowIndex {
		label += strconv.Itoa(a.Index + 1)
	}
	if opts.ShowPartition {
		label += fmt.Sprintf("\n(%d)", a.Partition)
	}
	return label
}

// fontColor picks black or white text for a #RRGGBB fill.
func fontColor(hex string) string {
	if len(hex) != 7 || hex[0] != '#' {
		return "black"
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return "black"
	}
	r, g, b := float64(v>>16&0xff), float64(v>>8&0xff), float64(v&0xff)
	if 0.299*r+0.587*g+0.114*b < 128 {
		return "white"
	}
	return "black"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

// Render produces the diagram of g in the given format.
func Render(ctx context.Context, g *molecule.Graph, format render.Format, opts Options) ([]byte, error) {
	dot := ToDOT(g, opts)
	switch format {
	case render.FormatDOT:
		return []byte(dot), nil
	case render.FormatPDF:
		return RenderPDF(ctx, dot)
	case render.FormatPNG:
		return RenderPNG(ctx, dot, 2.0)
	default:
		return RenderSVG(ctx, dot)
	}
}
