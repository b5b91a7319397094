package cli

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/spf13/cobra"

	"github.com/matzehuels/molcanon/pkg/errors"
	"github.com/matzehuels/molcanon/pkg/molecule"
	"github.com/matzehuels/molcanon/pkg/molfile"
	"github.com/matzehuels/molcanon/pkg/walk"
)

// Traversal orders accepted by --order.
const (
	orderBFS   = "bfs"
	orderDFS   = "dfs"
	orderEdges = "edges"
)

func (c *CLI) walkCommand() *cobra.Command {
	var (
		order     string
		from      int
		canonical bool
		flags     canonFlags
	)

	cmd := &cobra.Command{
		Use:   "walk <molfile>",
		Short: "Print the edges a graph traversal discovers",
		Long: `Walk traverses a molecule from one atom and prints each discovered edge as
"C1 -> O2", numbering atoms from 1. With --canonical the canonical graph is
walked instead of the file order, so the output is the same for every atom
ordering of the molecule.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := readInput(args[0])
			if err != nil {
				return err
			}

			var g *molecule.Graph
			if canonical {
				runner := c.newRunner(ctx, flags.noCache)
				defer runner.Close()
				res, err := runner.Canonicalize(ctx, in, c.options(cmd, &flags))
				if err != nil {
					return err
				}
				g = res.Graph
			} else if g, err = molfile.Read(bytes.NewReader(in.Molfile)); err != nil {
				return err
			}

			if from < 0 || from >= g.Len() {
				return errors.New(errors.ErrCodeInvalidInput, "--from %d is outside 0..%d", from, g.Len()-1)
			}
			edges, err := traversal(g, order, from)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for a, b := range edges {
				fmt.Fprintf(out, "%s%d -> %s%d\n", g.Atom(a).Symbol, a+1, g.Atom(b).Symbol, b+1)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&order, "order", orderBFS, "traversal: bfs, dfs or edges (depth-first, including ring closures)")
	cmd.Flags().IntVar(&from, "from", 0, "0-based atom to start from")
	cmd.Flags().BoolVar(&canonical, "canonical", false, "walk the canonical graph")

	return cmd
}

func traversal(g *molecule.Graph, order string, from int) (iter.Seq2[int, int], error) {
	switch order {
	case orderBFS:
		return walk.BFS(g, from), nil
	case orderDFS:
		return walk.DFS(g, from), nil
	case orderEdges:
		return walk.EdgeDFS(g, from), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown order %q (want bfs, dfs or edges)", order)
	}
}
