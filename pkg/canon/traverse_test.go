package canon

import (
	"slices"
	"testing"

	"github.com/matzehuels/molcanon/pkg/errors"
	"github.com/matzehuels/molcanon/pkg/molecule"
)

func TestTraverseIsBijection(t *testing.T) {
	r, err := Refine(ethanol(t).Permute(5))
	if err != nil {
		t.Fatal(err)
	}
	for root := range r.Len() {
		m, err := Traverse(r, root, nil)
		if err != nil {
			t.Fatalf("root %d: %v", root, err)
		}
		if err := molecule.ValidateMapping(m, r.Len()); err != nil {
			t.Errorf("root %d: %v", root, err)
		}
	}
}

func TestTraverseStaysInBand(t *testing.T) {
	r, err := Refine(ethanol(t))
	if err != nil {
		t.Fatal(err)
	}
	p := r.Partitions()
	m, err := Traverse(r, 0, DefaultPriorities)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range m {
		if p[c] != p[i] {
			t.Errorf("atom %d (partition %d) numbered %d in partition %d", i, p[i], c, p[c])
		}
	}
}

func TestTraverseDisconnected(t *testing.T) {
	g := mustGraph(t, []string{"C", "C", "O", "O"}, []molecule.Bond{{A: 0, B: 2}, {A: 1, B: 3}})
	r, err := Refine(g)
	if err != nil {
		t.Fatal(err)
	}
	m, err := Traverse(r, 0, nil)
	if !errors.Is(err, errors.ErrCodeDisconnectedGraph) {
		t.Fatalf("error = %v, want DISCONNECTED_GRAPH", err)
	}
	if m != nil {
		t.Errorf("mapping = %v, want nil", m)
	}
}

func TestTraverseRootOutOfRange(t *testing.T) {
	r, _ := Refine(ethanol(t))
	for _, root := range []int{-1, r.Len()} {
		if _, err := Traverse(r, root, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("root %d: error = %v, want INVALID_INPUT", root, err)
		}
	}
}

func TestTraverseChain(t *testing.T) {
	// H-C-C-O-H after refinement: partitions are distinct except the hydrogens.
	g := mustGraph(t,
		[]string{"H", "C", "C", "O", "H"},
		[]molecule.Bond{{A: 0, B: 1}, {A: 1, B: 2}, {A: 2, B: 3}, {A: 3, B: 4}},
	)
	r, err := Refine(g)
	if err != nil {
		t.Fatal(err)
	}
	m, err := Traverse(r, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := molecule.ValidateMapping(m, 5); err != nil {
		t.Fatal(err)
	}
	if m[0] != 0 {
		t.Errorf("root numbered %d, want 0", m[0])
	}
}

func TestIndividualize(t *testing.T) {
	// Four-ring: every atom is equivalent until one is singled out.
	adj := [][]int{{1, 3}, {0, 2}, {1, 3}, {0, 2}}
	work := individualize(adj, []int{0, 0, 0, 0}, 0)
	if work[0] != 0 {
		t.Errorf("individualized atom class = %d, want 0", work[0])
	}
	if work[1] != work[3] {
		t.Errorf("neighbors of the split atom should stay equivalent: %v", work)
	}
	if work[2] == work[1] || work[2] == work[0] {
		t.Errorf("opposite atom should get its own class: %v", work)
	}

	single := []int{0, 1, 2}
	if got := individualize([][]int{{1}, {0, 2}, {1}}, single, 1); !slices.Equal(got, single) {
		t.Errorf("singleton class changed: %v", got)
	}
}

func TestParsePriorities(t *testing.T) {
	tests := []struct {
		names   []string
		wantLen int
		wantErr bool
	}{
		{nil, 3, false},
		{[]string{"lt", "gt", "eq"}, 3, false},
		{[]string{"GT", " lt", "eq"}, 3, false},
		{[]string{"lt", "gt"}, 0, true},
		{[]string{"lt", "lt", "eq"}, 0, true},
		{[]string{"lt", "gt", "ne"}, 0, true},
	}

	for _, tt := range tests {
		p, err := ParsePriorities(tt.names)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePriorities(%v) error = %v, wantErr %v", tt.names, err, tt.wantErr)
			continue
		}
		if len(p) != tt.wantLen {
			t.Errorf("ParsePriorities(%v) len = %d, want %d", tt.names, len(p), tt.wantLen)
		}
	}
}

func TestPrioritiesChangeNumbering(t *testing.T) {
	r, err := Refine(ethanol(t))
	if err != nil {
		t.Fatal(err)
	}
	root := r.Len() - 1 // oxygen, the highest partition
	lgE, err := Traverse(r, root, DefaultPriorities)
	if err != nil {
		t.Fatal(err)
	}
	gle, err := Traverse(r, root, Priorities{Higher, Lower, Same})
	if err != nil {
		t.Fatal(err)
	}
	if err := molecule.ValidateMapping(gle, r.Len()); err != nil {
		t.Fatal(err)
	}
	if lgE[root] != gle[root] {
		t.Errorf("root numbered differently: %d vs %d", lgE[root], gle[root])
	}
}
