package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/molcanon/internal/testmol"
	"github.com/matzehuels/molcanon/pkg/cache"
	"github.com/matzehuels/molcanon/pkg/errors"
	"github.com/matzehuels/molcanon/pkg/key"
	"github.com/matzehuels/molcanon/pkg/molecule"
	"github.com/matzehuels/molcanon/pkg/molfile"
	"github.com/matzehuels/molcanon/pkg/observability"
)

func molfileInput(t *testing.T, name string, g *molecule.Graph) Input {
	t.Helper()
	var buf bytes.Buffer
	if err := molfile.Write(&buf, g, name); err != nil {
		t.Fatal(err)
	}
	return Input{Name: name, Molfile: buf.Bytes()}
}

func seed(v uint64) *uint64 { return &v }

func TestCanonicalize(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	for _, m := range testmol.All() {
		t.Run(m.Name, func(t *testing.T) {
			g := m.Graph()
			res, err := r.Canonicalize(ctx, molfileInput(t, m.Name, g), Options{})
			if err != nil {
				t.Fatal(err)
			}
			if res.Key != m.Canonical {
				t.Errorf("Key = %s, want %s", res.Key, m.Canonical)
			}
			if res.Formula != m.Formula() {
				t.Errorf("Formula = %s, want %s", res.Formula, m.Formula())
			}
			if res.Atoms != g.Len() || res.Bonds != g.BondCount() {
				t.Errorf("counts = %d/%d, want %d/%d", res.Atoms, res.Bonds, g.Len(), g.BondCount())
			}
			if res.Cached {
				t.Error("first run should not be cached")
			}
		})
	}
}

func TestCanonicalizePermuted(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	g := testmol.Bipyridine.Graph()
	in := molfileInput(t, "bipyridine", g)

	for _, s := range []uint64{1, 2, 99} {
		res, err := r.Canonicalize(ctx, in, Options{PermuteSeed: seed(s)})
		if err != nil {
			t.Fatal(err)
		}
		if res.Key != testmol.Bipyridine.Canonical {
			t.Errorf("seed %d: Key = %s, want %s", s, res.Key, testmol.Bipyridine.Canonical)
		}
		// mapping is relative to file order, even after permuting
		relabeled, err := g.Relabel(res.Mapping)
		if err != nil {
			t.Fatalf("seed %d: mapping is not a permutation: %v", s, err)
		}
		if got := key.Serialize(relabeled); got != res.Key {
			t.Errorf("seed %d: input relabeled by Mapping = %s, want %s", s, got, res.Key)
		}
	}
}

func TestCanonicalizeCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	in := molfileInput(t, "ethanol", testmol.Ethanol.Graph())

	first, err := r.Canonicalize(ctx, in, Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Canonicalize(ctx, in, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("second run should come from the cache")
	}
	if second.Key != first.Key || !slices.Equal(second.Mapping, first.Mapping) {
		t.Errorf("cached result differs: %+v vs %+v", second, first)
	}
	if second.Graph == nil || !slices.Equal(second.Graph.Partitions(), first.Graph.Partitions()) {
		t.Error("cached result should rebuild the graph with partitions")
	}

	refreshed, err := r.Canonicalize(ctx, in, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.Cached {
		t.Error("Refresh should bypass the cache")
	}

	other, err := r.Canonicalize(ctx, in, Options{Priorities: []string{"gt", "lt", "eq"}})
	if err != nil {
		t.Fatal(err)
	}
	if other.Cached {
		t.Error("different options should not share a cache entry")
	}
}

func TestCanonicalizeErrors(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	good := molfileInput(t, "water", testmol.Water.Graph())

	tests := []struct {
		name string
		in   Input
		opts Options
		code errors.Code
	}{
		{"garbage", Input{Molfile: []byte("not a molfile")}, Options{}, errors.ErrCodeInvalidMolfile},
		{"negative root", good, Options{Root: -1}, errors.ErrCodeInvalidInput},
		{"root out of range", good, Options{Root: 3}, errors.ErrCodeInvalidInput},
		{"bad priorities", good, Options{Priorities: []string{"lt"}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Canonicalize(ctx, tt.in, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := r.Canonicalize(cancelled, good, Options{}); err != context.Canceled {
		t.Errorf("cancelled context: %v", err)
	}
}

func TestBatch(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	inputs := []Input{
		molfileInput(t, "ethanol", testmol.Ethanol.Graph()),
		molfileInput(t, "ether", testmol.DimethylEther.Graph()),
		{Name: "broken", Molfile: []byte("x")},
		molfileInput(t, "ethanol-shuffled", testmol.Ethanol.Graph().Permute(5)),
		molfileInput(t, "ether-shuffled", testmol.DimethylEther.Graph().Permute(6)),
		molfileInput(t, "water", testmol.Water.Graph()),
	}
	items, err := r.Batch(ctx, inputs, Options{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != len(inputs) {
		t.Fatalf("got %d items, want %d", len(items), len(inputs))
	}
	for i, it := range items {
		if it.Input.Name != inputs[i].Name {
			t.Errorf("item %d is %s, want %s", i, it.Input.Name, inputs[i].Name)
		}
	}
	if items[2].Err == nil || items[2].Result != nil {
		t.Errorf("broken input: %+v", items[2])
	}
	if items[0].Result.Key != testmol.Ethanol.Canonical {
		t.Errorf("ethanol key = %s", items[0].Result.Key)
	}

	dups := Duplicates(items)
	want := []Group{
		{Key: testmol.Ethanol.Canonical, Members: []int{0, 3}},
		{Key: testmol.DimethylEther.Canonical, Members: []int{1, 4}},
	}
	if len(dups) != len(want) {
		t.Fatalf("Duplicates() = %+v, want %+v", dups, want)
	}
	for i := range want {
		if dups[i].Key != want[i].Key || !slices.Equal(dups[i].Members, want[i].Members) {
			t.Errorf("Duplicates()[%d] = %+v, want %+v", i, dups[i], want[i])
		}
	}
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, nil)
	_, err := r.Batch(ctx, []Input{molfileInput(t, "water", testmol.Water.Graph())}, Options{}, 1)
	if err == nil {
		t.Error("Batch on a cancelled context should fail")
	}
}

func TestReadInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mol", "a.MOL", "c.molfile", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.mol"), 0755); err != nil {
		t.Fatal(err)
	}

	inputs, err := ReadInputs([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, in := range inputs {
		names = append(names, filepath.Base(in.Name))
	}
	if !slices.Equal(names, []string{"a.MOL", "b.mol", "c.molfile"}) {
		t.Errorf("ReadInputs(dir) = %v", names)
	}

	if _, err := ReadInputs([]string{filepath.Join(dir, "notes.txt")}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("non-molfile path: %v, want INVALID_PATH", err)
	}
	if _, err := ReadInputs([]string{filepath.Join(dir, "missing.mol")}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing path: %v, want FILE_NOT_FOUND", err)
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	res, err := r.Canonicalize(ctx, molfileInput(t, "water", testmol.Water.Graph()), Options{})
	if err != nil {
		t.Fatal(err)
	}

	out, err := Render(ctx, res, []string{"dot", "json"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out["dot"]), "1 -- 3;") {
		t.Errorf("dot output missing bond:\n%s", out["dot"])
	}
	if !strings.Contains(string(out["json"]), `"symbol": "O"`) {
		t.Errorf("json output:\n%s", out["json"])
	}

	if _, err := Render(ctx, res, []string{"gif"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown format: %v", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	mu                    sync.Mutex
	parsed, canonicalized int
	hits, misses, sets    int
}

func (h *recordingHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.parsed++
}

func (h *recordingHooks) OnCanonicalizeComplete(context.Context, int, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.canonicalized++
}

func (h *recordingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *recordingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *recordingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets++
}

func TestHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	in := molfileInput(t, "methane", testmol.Methane.Graph())
	for range 2 {
		if _, err := r.Canonicalize(context.Background(), in, Options{}); err != nil {
			t.Fatal(err)
		}
	}

	if hooks.parsed != 1 || hooks.canonicalized != 1 {
		t.Errorf("parsed=%d canonicalized=%d, want 1 each", hooks.parsed, hooks.canonicalized)
	}
	if hooks.misses != 1 || hooks.hits != 1 || hooks.sets != 1 {
		t.Errorf("misses=%d hits=%d sets=%d, want 1 each", hooks.misses, hooks.hits, hooks.sets)
	}
}
