package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/molcanon/pkg/errors"
	"github.com/matzehuels/molcanon/pkg/registry"
)

func (c *CLI) registryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "registry",
		Aliases: []string{"reg"},
		Short:   "Register and look up molecules by canonical key",
	}

	cmd.AddCommand(c.registryAddCommand())
	cmd.AddCommand(c.registryGetCommand())
	cmd.AddCommand(c.registryListCommand())
	cmd.AddCommand(c.registryBrowseCommand())

	return cmd
}

// withRegistry opens the configured store for the duration of fn.
func (c *CLI) withRegistry(ctx context.Context, fn func(registry.Store) error) error {
	store, err := c.openRegistry(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *CLI) registryAddCommand() *cobra.Command {
	var (
		flags  canonFlags
		name   string
		source string
	)

	cmd := &cobra.Command{
		Use:   "add <molfile>...",
		Short: "Canonicalize molfiles and register them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if name != "" && len(args) > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--name applies to a single molfile")
			}
			runner := c.newRunner(ctx, flags.noCache)
			defer runner.Close()
			opts := c.options(cmd, &flags)

			return c.withRegistry(ctx, func(store registry.Store) error {
				for _, path := range args {
					in, err := readInput(path)
					if err != nil {
						return err
					}
					res, err := runner.Canonicalize(ctx, in, opts)
					if err != nil {
						return err
					}
					entry := registry.Entry{Key: res.Key, Name: name, Source: source}
					if entry.Name == "" {
						entry.Name = in.Name
					}
					if entry.Source == "" {
						entry.Source = path
					}
					stored, created, err := store.Put(ctx, entry)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", stored.ID, stored.Key)
					if created {
						printSuccess("Registered %s as %s", in.Name, StyleKey.Render(stored.Formula))
					} else {
						printInfo("%s is already registered as %s", in.Name, stored.Name)
					}
				}
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "display name (default: file name)")
	cmd.Flags().StringVar(&source, "source", "", "provenance note (default: file path)")

	return cmd
}

func (c *CLI) registryGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show the entry registered under a canonical key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withRegistry(cmd.Context(), func(store registry.Store) error {
				e, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), e)
			})
		},
	}
}

func (c *CLI) registryListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered molecules ordered by key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withRegistry(cmd.Context(), func(store registry.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					if entries == nil {
						entries = []registry.Entry{}
					}
					return writeJSON(out, entries)
				}
				for _, e := range entries {
					fmt.Fprintf(out, "%s\t%s\t%s\n", e.Formula, e.Name, e.Key)
				}
				if len(entries) == 0 {
					printInfo("Registry is empty")
					printNextStep("Add a molecule", appName+" registry add molecule.mol")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func (c *CLI) registryBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse registered molecules interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withRegistry(cmd.Context(), func(store registry.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					printInfo("Registry is empty")
					return nil
				}

				final, err := tea.NewProgram(NewEntryListModel(entries), tea.WithContext(cmd.Context())).Run()
				if err != nil {
					return err
				}
				if m, ok := final.(EntryListModel); ok && m.Selected != nil {
					printKeyValue("Name", m.Selected.Name)
					printKeyValue("Formula", m.Selected.Formula)
					printKeyValue("Key", m.Selected.Key)
					printKeyValue("ID", m.Selected.ID)
					printKeyValue("Source", m.Selected.Source)
				}
				return nil
			})
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
