package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/molcanon/pkg/errors"
)

// BatchItem pairs an input with its outcome. Exactly one of Result and Err
// is set.
type BatchItem struct {
	Input  Input
	Result *Result
	Err    error
}

// Batch canonicalizes inputs on at most workers goroutines. Items come back
// in input order; a failing input records its error without stopping the
// others. The returned error is non-nil only when ctx ends early.
func (r *Runner) Batch(ctx context.Context, inputs []Input, opts Options, workers int) ([]BatchItem, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	items := make([]BatchItem, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		items[i].Input = in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.Canonicalize(gctx, in, opts)
			items[i].Result, items[i].Err = res, err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return items, err
	}
	if err := ctx.Err(); err != nil {
		return items, err
	}
	return items, nil
}

// Group is a set of batch items that share a canonical key.
type Group struct {
	Key     string `json:"key"`
	Members []int  `json:"members"`
}

// Duplicates groups successful items by key and returns the groups with more
// than one member, ordered by their first member.
func Duplicates(items []BatchItem) []Group {
	index := make(map[string]int)
	var groups []Group
	for i, it := range items {
		if it.Result == nil {
			continue
		}
		k := it.Result.Key
		if gi, ok := index[k]; ok {
			groups[gi].Members = append(groups[gi].Members, i)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, Group{Key: k, Members: []int{i}})
	}
	return slices.DeleteFunc(groups, func(g Group) bool { return len(g.Members) < 2 })
}

// ReadInputs reads molfiles from paths. Directories contribute their *.mol
// and *.molfile entries (not recursively), sorted by name.
func ReadInputs(paths []string) ([]Input, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "stat %s", p)
		}
		if !info.IsDir() {
			if err := errors.ValidateMolfilePath(p); err != nil {
				return nil, err
			}
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read directory %s", p)
		}
		for _, e := range entries {
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if !e.IsDir() && (ext == ".mol" || ext == ".molfile") {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
	}

	inputs := make([]Input, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", f)
		}
		inputs = append(inputs, Input{Name: f, Molfile: data})
	}
	return inputs, nil
}
