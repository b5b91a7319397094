// Package testmol provides reference molecules shared by the test suites.
package testmol

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/molcanon/pkg/molecule"
)

// Molecule is a named reference structure with its expected canonical key.
type Molecule struct {
	Name      string
	Symbols   []string
	Bonds     []molecule.Bond
	Canonical string
}

// Graph builds the molecule's graph. It panics on invalid fixture data.
func (m Molecule) Graph() *molecule.Graph {
	g, err := molecule.FromBonds(m.Symbols, m.Bonds)
	if err != nil {
		panic(fmt.Sprintf("testmol %s: %v", m.Name, err))
	}
	return g
}

// Formula returns the Hill formula prefix of the canonical key.
func (m Molecule) Formula() string {
	f, _, _ := strings.Cut(m.Canonical, "/")
	return f
}

// Literal bond lists of symmetric reference molecules, numbered in element
// bands of ascending atomic number.
const (
	FerroceneLiteral  = "C10H10Fe/1-11/2-15/3-14/4-12/5-13/6-19/7-17/8-18/9-16/10-20/11-12/11-15/11-21/12-13/12-21/13-14/13-21/14-15/14-21/15-21/16-17/16-20/16-21/17-18/17-21/18-19/18-21/19-20/19-21/20-21"
	BipyridineLiteral = "C10H8N2/1-9/2-11/3-15/4-10/5-14/6-13/7-12/8-16/9-10/9-11/10-15/11-17/12-13/12-16/13-14/14-18/15-19/16-20/17-18/17-19/18-20"
	CF3AlkyneLiteral  = "C6H5F3O2/1-9/2-9/3-6/4-6/5-6/6-9/7-8/7-11/8-10/9-13/10-12/10-13/11-14/11-15/11-16"
)

var (
	Ammonia = Molecule{
		Name:      "ammonia",
		Symbols:   []string{"H", "H", "H", "N"},
		Bonds:     []molecule.Bond{{A: 3, B: 0}, {A: 1, B: 3}, {A: 3, B: 2}},
		Canonical: "H3N/1-4/2-4/3-4",
	}
	Water = Molecule{
		Name:      "water",
		Symbols:   []string{"O", "H", "H"},
		Bonds:     []molecule.Bond{{A: 0, B: 1}, {A: 0, B: 2}},
		Canonical: "H2O/1-3/2-3",
	}
	Methane = Molecule{
		Name:      "methane",
		Symbols:   []string{"C", "H", "H", "H", "H"},
		Bonds:     []molecule.Bond{{A: 0, B: 1}, {A: 0, B: 2}, {A: 0, B: 3}, {A: 0, B: 4}},
		Canonical: "CH4/1-5/2-5/3-5/4-5",
	}
	Ethanol = Molecule{
		Name:    "ethanol",
		Symbols: []string{"C", "C", "O", "H", "H", "H", "H", "H", "H"},
		Bonds: []molecule.Bond{
			{A: 0, B: 1}, {A: 1, B: 2}, {A: 0, B: 3}, {A: 0, B: 4},
			{A: 0, B: 5}, {A: 1, B: 6}, {A: 1, B: 7}, {A: 2, B: 8},
		},
		Canonical: "C2H6O/1-7/2-7/3-7/4-8/5-8/6-9/7-8/8-9",
	}
	DimethylEther = Molecule{
		Name:    "dimethylether",
		Symbols: []string{"C", "O", "C", "H", "H", "H", "H", "H", "H"},
		Bonds: []molecule.Bond{
			{A: 0, B: 1}, {A: 1, B: 2}, {A: 0, B: 3}, {A: 0, B: 4},
			{A: 0, B: 5}, {A: 2, B: 6}, {A: 2, B: 7}, {A: 2, B: 8},
		},
		Canonical: "C2H6O/1-7/2-7/3-7/4-8/5-8/6-8/7-9/8-9",
	}
	Benzene = Molecule{
		Name:    "benzene",
		Symbols: []string{"C", "C", "C", "C", "C", "C", "H", "H", "H", "H", "H", "H"},
		Bonds: []molecule.Bond{
			{A: 0, B: 1}, {A: 1, B: 2}, {A: 2, B: 3}, {A: 3, B: 4}, {A: 4, B: 5}, {A: 0, B: 5},
			{A: 0, B: 6}, {A: 1, B: 7}, {A: 2, B: 8}, {A: 3, B: 9}, {A: 4, B: 10}, {A: 5, B: 11},
		},
		Canonical: "C6H6/1-7/2-8/3-9/4-10/5-11/6-12/7-8/7-9/8-10/9-11/10-12/11-12",
	}
	Ferrocene = fromLiteral("ferrocene", FerroceneLiteral,
		"C10H10Fe/1-11/2-12/3-13/4-14/5-15/6-16/7-17/8-18/9-19/10-20/11-12/11-13/11-21/12-14/12-21/13-15/13-21/14-15/14-21/15-21/16-17/16-18/16-21/17-19/17-21/18-20/18-21/19-20/19-21/20-21")
	Bipyridine = fromLiteral("bipyridine", BipyridineLiteral,
		"C10H8N2/1-9/2-10/3-11/4-12/5-13/6-14/7-15/8-16/9-11/9-13/10-12/10-14/11-15/12-16/13-17/14-18/15-19/16-20/17-18/17-19/18-20")
	CF3Alkyne = fromLiteral("cf3alkyne", CF3AlkyneLiteral,
		"C6H5F3O2/1-6/2-6/3-6/4-9/5-9/6-9/7-8/7-10/8-11/9-13/10-12/10-13/11-14/11-15/11-16")
)

// All returns every reference molecule. Names are unique.
func All() []Molecule {
	return []Molecule{Ammonia, Water, Methane, Ethanol, DimethylEther, Benzene, Ferrocene, Bipyridine, CF3Alkyne}
}

// Symmetric returns the reference molecules with non-trivial symmetry.
func Symmetric() []Molecule {
	return []Molecule{Benzene, Ferrocene, Bipyridine, CF3Alkyne}
}

// bandOrder lists the elements used by the literal fixtures by atomic number.
var bandOrder = []string{"H", "C", "N", "O", "F", "Fe"}

// fromLiteral expands a literal key into symbols and bonds without going
// through the key parser under test.
func fromLiteral(name, literal, canonical string) Molecule {
	parts := strings.Split(literal, "/")
	counts := make(map[string]int)
	formula := parts[0]
	for i := 0; i < len(formula); {
		j := i + 1
		if j < len(formula) && formula[j] >= 'a' && formula[j] <= 'z' {
			j++
		}
		sym := formula[i:j]
		k := j
		for k < len(formula) && formula[k] >= '0' && formula[k] <= '9' {
			k++
		}
		n := 1
		if k > j {
			n, _ = strconv.Atoi(formula[j:k])
		}
		counts[sym] = n
		i = k
	}

	var symbols []string
	for _, sym := range bandOrder {
		for range counts[sym] {
			symbols = append(symbols, sym)
		}
	}

	bonds := make([]molecule.Bond, 0, len(parts)-1)
	for _, p := range parts[1:] {
		a, b, _ := strings.Cut(p, "-")
		ai, _ := strconv.Atoi(a)
		bi, _ := strconv.Atoi(b)
		bonds = append(bonds, molecule.Bond{A: ai - 1, B: bi - 1})
	}
	return Molecule{Name: name, Symbols: symbols, Bonds: bonds, Canonical: canonical}
}

// Names returns the names of All in order.
func Names() []string {
	var out []string
	for _, m := range All() {
		out = append(out, m.Name)
	}
	return slices.Clip(out)
}
