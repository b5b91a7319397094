package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/molcanon/pkg/cache"
	"github.com/matzehuels/molcanon/pkg/canon"
	"github.com/matzehuels/molcanon/pkg/key"
	"github.com/matzehuels/molcanon/pkg/molecule"
	"github.com/matzehuels/molcanon/pkg/molfile"
	"github.com/matzehuels/molcanon/pkg/observability"
)

// Runner encapsulates canonicalization with caching.
//
// The Runner keeps no per-call state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL applies to cached results; zero means DefaultTTL.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer means cache.DefaultKeyer, a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Canonicalize loads in.Molfile and returns its canonical key, consulting
// the cache first unless opts.Refresh is set.
func (r *Runner) Canonicalize(ctx context.Context, in Input, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := opts.logger(r.Logger)

	cacheKey := r.Keyer.MoleculeKey(cache.Hash(in.Molfile), opts.KeyOpts())
	if !opts.Refresh {
		if res, ok := r.fromCache(ctx, cacheKey); ok {
			res.Name = in.Name
			logger.Debug("cache hit", "name", in.Name, "key", res.Key)
			return res, nil
		}
	}

	g, err := r.load(ctx, in)
	if err != nil {
		return nil, err
	}

	var perm []int
	if opts.PermuteSeed != nil {
		perm = molecule.Permutation(g.Len(), *opts.PermuteSeed)
		g, err = g.Relabel(perm)
		if err != nil {
			return nil, err
		}
		logger.Debug("permuted atoms", "seed", *opts.PermuteSeed)
	}

	res, err := r.CanonicalizeGraph(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	if perm != nil {
		mapping := make([]int, len(perm))
		for i, p := range perm {
			mapping[i] = res.Mapping[p]
		}
		res.Mapping = mapping
	}
	res.Name = in.Name

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl()); err != nil {
			logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return res, nil
}

// CanonicalizeGraph canonicalizes an already loaded graph without caching.
func (r *Runner) CanonicalizeGraph(ctx context.Context, g *molecule.Graph, opts Options) (*Result, error) {
	copts, err := opts.canonOptions()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := opts.logger(r.Logger)

	hooks := observability.Pipeline()
	hooks.OnCanonicalizeStart(ctx, g.Len())
	start := time.Now()
	out, err := canon.Canonicalize(g, copts)
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnCanonicalizeComplete(ctx, g.Len(), 0, elapsed, err)
		return nil, err
	}
	hooks.OnCanonicalizeComplete(ctx, g.Len(), out.Rounds, elapsed, nil)

	res := &Result{
		Key:        key.Serialize(out.Graph),
		Formula:    key.Formula(out.Graph),
		Atoms:      out.Graph.Len(),
		Bonds:      out.Graph.BondCount(),
		Rounds:     out.Rounds,
		Mapping:    out.Mapping,
		Partitions: out.Graph.Partitions(),
		Graph:      out.Graph,
	}
	logger.Info("canonicalized",
		"formula", res.Formula,
		"atoms", res.Atoms,
		"rounds", res.Rounds,
		"duration", elapsed)
	return res, nil
}

func (r *Runner) load(ctx context.Context, in Input) (*molecule.Graph, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, "molfile")
	start := time.Now()
	g, err := molfile.Read(bytes.NewReader(in.Molfile))
	atoms := 0
	if g != nil {
		atoms = g.Len()
	}
	hooks.OnParseComplete(ctx, "molfile", atoms, time.Since(start), err)
	return g, err
}

// fromCache decodes a cached result and rebuilds its graph from the key.
// Undecodable entries count as misses.
func (r *Runner) fromCache(ctx context.Context, cacheKey string) (*Result, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, cacheKey)
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		hooks.OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	g, err := key.Parse(res.Key)
	if err == nil {
		g, err = g.WithPartitions(res.Partitions)
	}
	if err != nil {
		hooks.OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	hooks.OnCacheHit(ctx, cacheKeyType)
	res.Graph = g
	res.Cached = true
	return &res, true
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return DefaultTTL
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
