package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/molcanon/pkg/errors"
	molio "github.com/matzehuels/molcanon/pkg/io"
	"github.com/matzehuels/molcanon/pkg/render"
	"github.com/matzehuels/molcanon/pkg/render/nodelink"
)

// FormatJSON exports the canonical graph as JSON instead of a diagram.
const FormatJSON = "json"

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	string(render.FormatDOT): true,
	string(render.FormatSVG): true,
	string(render.FormatPNG): true,
	string(render.FormatPDF): true,
	FormatJSON:               true,
}

// ValidateFormat checks if a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be dot, svg, png, pdf, or json)", format)
	}
	return nil
}

// Render draws the canonical graph of res in each requested format. Labels
// show canonical numbers and partitions.
func Render(ctx context.Context, res *Result, formats []string) (map[string][]byte, error) {
	if res == nil || res.Graph == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to render")
	}
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
	}

	opts := nodelink.Options{Title: res.Formula, ShowIndex: true, ShowPartition: true}
	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		var (
			data []byte
			err  error
		)
		if f == FormatJSON {
			var buf bytes.Buffer
			err = molio.WriteJSON(res.Graph, &buf)
			data = buf.Bytes()
		} else {
			data, err = nodelink.Render(ctx, res.Graph, render.Format(f), opts)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[f] = data
	}
	return artifacts, nil
}
