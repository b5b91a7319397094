package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/molcanon/pkg/api"
	"github.com/matzehuels/molcanon/pkg/config"
	"github.com/matzehuels/molcanon/pkg/pipeline"
	"github.com/matzehuels/molcanon/pkg/registry"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		workers    int
		noRegistry bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve canonicalization and the registry over HTTP",
		Long: `Serve starts the HTTP API. Settings come from the [server], [cache] and
[registry] sections of the config file; flags override them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("workers") {
				cfg.Server.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			runner := c.newRunner(ctx, noCache)
			defer runner.Close()

			var store registry.Store
			if !noRegistry {
				s, err := c.openRegistry(ctx)
				if err != nil {
					return err
				}
				defer s.Close()
				store = s
			}

			metrics := api.NewMetrics()
			metrics.Install()

			srv := api.New(runner, store, c.Logger.WithPrefix("api"), api.Options{
				Defaults: pipeline.Options{
					Root:       cfg.Canon.Root,
					Priorities: cfg.Canon.Priorities,
				},
				Workers: cfg.Server.Workers,
				Timeout: cfg.Server.WriteTimeout.Duration,
				Metrics: metrics,
			})
			printInfo("Listening on %s", StyleKey.Render(cfg.Server.Addr))
			printDetail("cache: %s, registry: %s", cfg.Cache.Backend, registryLabel(cfg, noRegistry))
			return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout.Duration, cfg.Server.WriteTimeout.Duration)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent canonicalizations per batch request")
	cmd.Flags().BoolVar(&noRegistry, "no-registry", false, "disable the registry routes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func registryLabel(cfg *config.Config, disabled bool) string {
	if disabled {
		return "disabled"
	}
	return cfg.Registry.Backend
}
