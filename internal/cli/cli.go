// Package cli implements the molcanon command-line interface.
//
// # Commands
//
//   - canonicalize: print the canonical key of a molfile, optionally drawing it
//   - permute: shuffle the atom order of a molfile
//   - batch: canonicalize many molfiles and report duplicates
//   - compare: decide whether two molfiles describe the same molecule
//   - walk: print the edges of a breadth- or depth-first traversal
//   - registry: add, look up, list and browse registered molecules
//   - serve: run the HTTP API
//   - cache: manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging; the [log]
// section of the config file sets the default level. Loggers are passed
// through context.Context so long-running commands can report progress.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/molcanon/pkg/buildinfo"
	"github.com/matzehuels/molcanon/pkg/cache"
	"github.com/matzehuels/molcanon/pkg/config"
	"github.com/matzehuels/molcanon/pkg/pipeline"
	"github.com/matzehuels/molcanon/pkg/registry"
)

// =============================================================================
// Constants
// =============================================================================

const (
	appName = "molcanon"

	// redisPrefix namespaces molcanon keys in a shared Redis.
	redisPrefix = "molcanon:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded configuration.
func (c *CLI) Config() *config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
// Configuration is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "molcanon assigns canonical atom numberings to molecules",
		Long:         `molcanon reads molfiles, computes a canonical numbering of their atoms and emits a key that is identical for every atom ordering of the same molecule.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.SetLogLevel(cfg.LogLevel())
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.canonicalizeCommand())
	root.AddCommand(c.permuteCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.walkCommand())
	root.AddCommand(c.registryCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	r := pipeline.NewRunner(c.newCache(ctx, noCache), nil, c.Logger)
	r.TTL = c.cfg.Cache.TTL.Duration
	return r
}

// newCache opens the configured cache. An unreachable backend degrades to no
// caching with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	cc := c.cfg.Cache
	switch cc.Backend {
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
			Prefix:   redisPrefix,
		})
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache()
		}
		return rc
	case config.CacheFile:
		fc, err := cache.NewFileCache(cc.Dir)
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache()
		}
		return fc
	default:
		return cache.NewNullCache()
	}
}

func (c *CLI) openRegistry(ctx context.Context) (registry.Store, error) {
	return registry.Open(ctx, c.cfg.Registry, c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// canonFlags are the canonicalization flags shared by several commands.
type canonFlags struct {
	root       int
	priorities string
	noCache    bool
	refresh    bool
}

func (f *canonFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.root, "root", 0, "traversal root, an index into the refined graph (default from config)")
	cmd.Flags().StringVar(&f.priorities, "priorities", "", "neighbor visit order, e.g. lt,gt,eq (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
}

// options merges config defaults with flags the user set explicitly.
func (c *CLI) options(cmd *cobra.Command, f *canonFlags) pipeline.Options {
	opts := pipeline.Options{
		Root:       c.cfg.Canon.Root,
		Priorities: c.cfg.Canon.Priorities,
		Refresh:    f.refresh,
	}
	if cmd.Flags().Changed("root") {
		opts.Root = f.root
	}
	if cmd.Flags().Changed("priorities") {
		opts.Priorities = splitList(f.priorities)
	}
	return opts
}

// splitList parses a comma-separated flag value.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
