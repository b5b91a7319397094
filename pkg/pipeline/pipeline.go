// Package pipeline runs canonicalization end to end for the CLI and the API.
//
// A [Runner] loads a molfile, optionally permutes it, canonicalizes it and
// serializes the key, caching the outcome by the hash of the molfile bytes and
// the options that shaped it. [Runner.Batch] does the same for many inputs on
// a bounded number of goroutines.
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Canonicalize(ctx, pipeline.Input{Name: "ethanol", Molfile: data}, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Key)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/molcanon/pkg/cache"
	"github.com/matzehuels/molcanon/pkg/canon"
	"github.com/matzehuels/molcanon/pkg/errors"
	"github.com/matzehuels/molcanon/pkg/molecule"
)

const (
	// DefaultTTL is how long a cached result stays valid.
	DefaultTTL = 7 * 24 * time.Hour

	// DefaultWorkers bounds concurrency in Batch when no limit is given.
	DefaultWorkers = 4

	// cacheKeyType labels cache hook events.
	cacheKeyType = "molecule"
)

// Input is one molecule to canonicalize.
type Input struct {
	// Name identifies the input in logs and results, usually its file path.
	Name string
	// Molfile holds the raw V3000 text.
	Molfile []byte
}

// Options controls a single canonicalization.
type Options struct {
	// Root is the traversal start in the refined graph.
	Root int `json:"root"`
	// Priorities orders neighbor groups by name ("lt", "gt", "eq").
	// Empty means the default order.
	Priorities []string `json:"priorities,omitempty"`
	// PermuteSeed shuffles atom order before canonicalizing when set.
	PermuteSeed *uint64 `json:"permute_seed,omitempty"`
	// Refresh skips the cache lookup but still stores the new result.
	Refresh bool `json:"-"`

	Logger *log.Logger `json:"-"`
}

// Validate checks the options and reports an INVALID_INPUT error.
func (o Options) Validate() error {
	if o.Root < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "root must be non-negative, got %d", o.Root)
	}
	_, err := canon.ParsePriorities(o.Priorities)
	return err
}

func (o Options) canonOptions() (canon.Options, error) {
	prio, err := canon.ParsePriorities(o.Priorities)
	if err != nil {
		return canon.Options{}, err
	}
	return canon.Options{Root: o.Root, Priorities: prio}, nil
}

// KeyOpts returns the cache key options for o.
func (o Options) KeyOpts() cache.MoleculeKeyOpts {
	return cache.MoleculeKeyOpts{
		Root:        o.Root,
		Priorities:  slices.Clone(o.Priorities),
		PermuteSeed: o.PermuteSeed,
	}
}

func (o Options) logger(fallback *log.Logger) *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	if fallback != nil {
		return fallback
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// Result is the outcome of canonicalizing one molecule.
type Result struct {
	Name    string `json:"name,omitempty"`
	Key     string `json:"key"`
	Formula string `json:"formula"`
	Atoms   int    `json:"atoms"`
	Bonds   int    `json:"bonds"`
	// Rounds counts refinement passes after the initial partition.
	Rounds int `json:"rounds"`
	// Mapping maps each atom of the molfile (0-based, in file order) to its
	// canonical index.
	Mapping []int `json:"mapping"`
	// Partitions holds the refined partition of each canonical atom.
	Partitions []int `json:"partitions"`
	// Cached reports whether the result came from the cache.
	Cached bool `json:"cached"`

	// Graph is the canonically numbered molecule.
	Graph *molecule.Graph `json:"-"`
}
