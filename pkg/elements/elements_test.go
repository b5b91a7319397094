package elements

import (
	"fmt"
	"testing"

	"github.com/matzehuels/molcanon/pkg/errors"
)

func TestTableIsContiguous(t *testing.T) {
	seen := make(map[string]bool)
	for i, e := range table {
		if e.Number != i+1 {
			t.Fatalf("table[%d].Number = %d, want %d", i, e.Number, i+1)
		}
		if seen[e.Symbol] {
			t.Fatalf("duplicate symbol %q", e.Symbol)
		}
		seen[e.Symbol] = true
	}
	if Count() != 118 {
		t.Errorf("Count() = %d, want 118", Count())
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		symbol string
		number int
		color  string
	}{
		{"H", 1, "#FFFFFF"},
		{"C", 6, "#909090"},
		{"N", 7, "#3050F8"},
		{"O", 8, "#FF0D0D"},
		{"Fe", 26, "#E06633"},
		{"Og", 118, DefaultColor},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			e, err := Lookup(tt.symbol)
			if err != nil {
				t.Fatalf("Lookup(%q) error: %v", tt.symbol, err)
			}
			if e.Number != tt.number {
				t.Errorf("Number = %d, want %d", e.Number, tt.number)
			}
			if e.Color != tt.color {
				t.Errorf("Color = %s, want %s", e.Color, tt.color)
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, sym := range []string{"", "Xx", "fe", "CO"} {
		_, err := Lookup(sym)
		if !errors.Is(err, errors.ErrCodeUnknownElement) {
			t.Errorf("Lookup(%q) error = %v, want UNKNOWN_ELEMENT", sym, err)
		}
	}
}

func TestByNumber(t *testing.T) {
	e, ok := ByNumber(8)
	if !ok || e.Symbol != "O" {
		t.Errorf("ByNumber(8) = %v, %v", e, ok)
	}
	for _, z := range []int{0, -1, 119} {
		if _, ok := ByNumber(z); ok {
			t.Errorf("ByNumber(%d) ok = true, want false", z)
		}
	}
}

func TestColorFallback(t *testing.T) {
	if got := Color("Zz"); got != DefaultColor {
		t.Errorf("Color(Zz) = %s, want %s", got, DefaultColor)
	}
}

func ExampleLookup() {
	fe, _ := Lookup("Fe")
	fmt.Println(fe.Number, fe.Name)
	// Output: 26 Iron
}
