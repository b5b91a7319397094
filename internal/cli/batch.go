package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molcanon/pkg/errors"
	"github.com/matzehuels/molcanon/pkg/pipeline"
)

type batchOpts struct {
	canonFlags
	workers int
	asJSON  bool
}

// batchLine is one row of the JSON batch report.
type batchLine struct {
	Name  string `json:"name"`
	Key   string `json:"key,omitempty"`
	Error string `json:"error,omitempty"`
}

func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "batch <dir|molfile>...",
		Short: "Canonicalize many molfiles and report duplicates",
		Long: `Batch canonicalizes every molfile given directly or found in the given
directories, prints one "name<TAB>key" line per file and lists the files that
describe the same molecule.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), cmd.OutOrStdout(), args, c.options(cmd, &opts.canonFlags), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", pipeline.DefaultWorkers, "concurrent canonicalizations")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print results and duplicate groups as JSON")

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, out io.Writer, paths []string, popts pipeline.Options, opts *batchOpts) error {
	logger := loggerFromContext(ctx)

	inputs, err := pipeline.ReadInputs(paths)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no molfiles found in %s", strings.Join(paths, ", "))
	}
	logger.Debugf("Found %d molfiles", len(inputs))

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Canonicalizing %d molfiles...", len(inputs)))
	spin.Start()
	prog := newProgress(logger)
	items, err := runner.Batch(ctx, inputs, popts, opts.workers)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Canonicalized %d molfiles", len(items)))

	groups := pipeline.Duplicates(items)
	failed := 0
	for _, it := range items {
		if it.Err != nil {
			failed++
		}
	}

	if opts.asJSON {
		lines := make([]batchLine, len(items))
		for i, it := range items {
			lines[i] = batchLine{Name: it.Input.Name}
			if it.Err != nil {
				lines[i].Error = errors.UserMessage(it.Err)
			} else {
				lines[i].Key = it.Result.Key
			}
		}
		if groups == nil {
			groups = []pipeline.Group{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"results": lines, "duplicates": groups})
	}

	for _, it := range items {
		if it.Err != nil {
			printError("%s: %s", filepath.Base(it.Input.Name), errors.UserMessage(it.Err))
			continue
		}
		fmt.Fprintf(out, "%s\t%s\n", it.Input.Name, it.Result.Key)
	}

	if len(groups) == 0 {
		printSuccess("No duplicates among %d molecules", len(items)-failed)
	}
	for _, g := range groups {
		printWarning("%d files describe %s", len(g.Members), g.Key)
		for _, m := range g.Members {
			printDetail("%s", items[m].Input.Name)
		}
	}
	if failed > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%d of %d molfiles failed", failed, len(items))
	}
	return nil
}
