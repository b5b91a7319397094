package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) compareCommand() *cobra.Command {
	var (
		flags    canonFlags
		exitCode bool
	)

	cmd := &cobra.Command{
		Use:   "compare <a.mol> <b.mol>",
		Short: "Report whether two molfiles describe the same molecule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner := c.newRunner(ctx, flags.noCache)
			defer runner.Close()

			opts := c.options(cmd, &flags)
			var keys [2]string
			for i, path := range args {
				in, err := readInput(path)
				if err != nil {
					return err
				}
				res, err := runner.Canonicalize(ctx, in, opts)
				if err != nil {
					return err
				}
				keys[i] = res.Key
			}

			out := cmd.OutOrStdout()
			if keys[0] == keys[1] {
				fmt.Fprintln(out, "same")
				printDetail("%s", keys[0])
				return nil
			}
			fmt.Fprintln(out, "different")
			printKeyValue(args[0], keys[0])
			printKeyValue(args[1], keys[1])
			if exitCode {
				return errDifferent
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "fail when the molecules differ")

	return cmd
}

var errDifferent = stderrors.New("molecules differ")
