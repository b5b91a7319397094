package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/molcanon/pkg/molecule"
)

func water(t *testing.T) *molecule.Graph {
	t.Helper()
	g, err := molecule.FromBonds([]string{"O", "H", "H"}, []molecule.Bond{{A: 0, B: 1}, {A: 0, B: 2}})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(water(t), Options{})

	if !strings.HasPrefix(dot, "graph molecule {") {
		t.Error("ToDOT() output missing graph declaration")
	}
	for _, want := range []string{
		`1 [label="O", fillcolor="#FF0D0D"`,
		`2 [label="H", fillcolor="#FFFFFF", fontcolor="black"]`,
		"1 -- 2;",
		"1 -- 3;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() should emit undirected edges")
	}
}

func TestToDOT_Options(t *testing.T) {
	g, _ := water(t).WithPartitions([]int{1, 0, 0})
	dot := ToDOT(g, Options{Title: "water", ShowIndex: true, ShowPartition: true})

	if !strings.Contains(dot, `label="water"`) {
		t.Error("ToDOT() missing title")
	}
	if !strings.Contains(dot, `label="O1\n(1)"`) {
		t.Errorf("ToDOT() missing index/partition label in:\n%s", dot)
	}
}

func TestFontColor(t *testing.T) {
	tests := []struct {
		fill string
		want string
	}{
		{"#FFFFFF", "black"},
		{"#000000", "white"},
		{"#3050F8", "white"},
		{"#FFFF30", "black"},
		{"bogus", "black"},
	}
	for _, tt := range tests {
		if got := fontColor(tt.fill); got != tt.want {
			t.Errorf("fontColor(%s) = %s, want %s", tt.fill, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 10.00 20.00" width="10" height="20"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}
