package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molcanon/pkg/errors"
	molio "github.com/matzehuels/molcanon/pkg/io"
	"github.com/matzehuels/molcanon/pkg/pipeline"
	"github.com/matzehuels/molcanon/pkg/render"
)

// canonicalizeOpts holds the flags of the canonicalize command.
type canonicalizeOpts struct {
	canonFlags
	permute int64
	dot     string
	svg     string
	png     string
	pdf     string
	output  string
	asJSON  bool
}

func (c *CLI) canonicalizeCommand() *cobra.Command {
	var opts canonicalizeOpts

	cmd := &cobra.Command{
		Use:     "canonicalize <molfile|graph.json>",
		Aliases: []string{"canon"},
		Short:   "Print the canonical key of a molfile",
		Long: `Canonicalize reads a V3000 molfile, numbers its atoms canonically and
prints the canonical key. Two molfiles describe the same molecule exactly when
their keys are equal.

A .json argument is read as a graph in the JSON export format instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts := c.options(cmd, &opts.canonFlags)
			if cmd.Flags().Changed("permute") {
				if err := errors.ValidateSeed(opts.permute); err != nil {
					return err
				}
				seed := uint64(opts.permute)
				popts.PermuteSeed = &seed
			}
			return c.runCanonicalize(cmd.Context(), cmd.OutOrStdout(), args[0], popts, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().Int64Var(&opts.permute, "permute", 0, "shuffle atoms with this seed before canonicalizing")
	cmd.Flags().StringVar(&opts.dot, "dot", "", "write the canonical graph as Graphviz DOT")
	cmd.Flags().StringVar(&opts.svg, "svg", "", "write a structure diagram as SVG")
	cmd.Flags().StringVar(&opts.png, "png", "", "write a structure diagram as PNG (needs rsvg-convert)")
	cmd.Flags().StringVar(&opts.pdf, "pdf", "", "write a structure diagram as PDF (needs rsvg-convert)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the canonical graph; format from extension (dot, svg, png, pdf, json)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the full result as JSON")

	return cmd
}

func (c *CLI) runCanonicalize(ctx context.Context, out io.Writer, path string, popts pipeline.Options, opts *canonicalizeOpts) error {
	logger := loggerFromContext(ctx)

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	prog := newProgress(logger)
	var (
		res *pipeline.Result
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		res, err = canonicalizeGraphFile(ctx, runner, path, popts)
	} else {
		var in pipeline.Input
		if in, err = readInput(path); err == nil {
			res, err = runner.Canonicalize(ctx, in, popts)
		}
	}
	if err != nil {
		return err
	}
	prog.done("Canonicalized " + filepath.Base(path))

	if opts.asJSON {
		if err := writeJSON(out, res); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, res.Key)
		logger.Debug(resultStats(res))
	}

	targets := map[string]string{
		string(render.FormatDOT): opts.dot,
		string(render.FormatSVG): opts.svg,
		string(render.FormatPNG): opts.png,
		string(render.FormatPDF): opts.pdf,
	}
	if opts.output != "" {
		targets[outputFormat(opts.output)] = opts.output
	}
	return writeArtifacts(ctx, res, targets)
}

// canonicalizeGraphFile canonicalizes a graph stored in the JSON export
// format. Such input has no molfile bytes to key the cache with.
func canonicalizeGraphFile(ctx context.Context, runner *pipeline.Runner, path string, popts pipeline.Options) (*pipeline.Result, error) {
	if popts.PermuteSeed != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--permute applies to molfiles only")
	}
	g, err := molio.ImportJSON(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "import graph")
	}
	res, err := runner.CanonicalizeGraph(ctx, g, popts)
	if err != nil {
		return nil, err
	}
	res.Name = filepath.Base(path)
	return res, nil
}

// outputFormat maps an output path to a render format, treating .json as the
// graph export.
func outputFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return pipeline.FormatJSON
	}
	return string(render.FormatFromPath(path))
}

// writeArtifacts renders res in every format that has a target path.
func writeArtifacts(ctx context.Context, res *pipeline.Result, targets map[string]string) error {
	var formats []string
	for f, path := range targets {
		if path != "" {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return nil
	}
	slices.Sort(formats)
	artifacts, err := pipeline.Render(ctx, res, formats)
	if err != nil {
		return err
	}
	for _, f := range formats {
		path := targets[f]
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// readInput loads exactly one molfile.
func readInput(path string) (pipeline.Input, error) {
	inputs, err := pipeline.ReadInputs([]string{path})
	if err != nil {
		return pipeline.Input{}, err
	}
	if len(inputs) != 1 {
		return pipeline.Input{}, errors.New(errors.ErrCodeInvalidPath, "%s: expected a single molfile", path)
	}
	in := inputs[0]
	in.Name = filepath.Base(in.Name)
	return in, nil
}
