// Package key serializes canonical molecular graphs into order-independent
// text keys and parses them back.
//
// A key has the form
//
//	<formula>/<i>-<j>/<i>-<j>/...
//
// The formula lists element counts in Hill order (carbon, then hydrogen, then
// the remaining symbols alphabetically; purely alphabetical when there is no
// carbon), omitting counts of one. Each bond is written with 1-based atom
// numbers, smaller number first, and bonds are sorted. Ferrocene, for example,
// starts with
//
//	C10H10Fe/1-11/2-12/3-13/...
//
// Keys are only order independent when built from a canonical graph; see
// package canon.
package key

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/molcanon/pkg/molecule"
)

// Serialize renders g as "<formula>/<bond-list>".
func Serialize(g *molecule.Graph) string {
	var b strings.Builder
	b.WriteString(Formula(g))
	for _, bond := range g.Bonds() {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(bond.A + 1))
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(bond.B + 1))
	}
	return b.String()
}

// Formula returns the molecular formula of g in Hill order.
func Formula(g *molecule.Graph) string {
	counts := make(map[string]int)
	for _, a := range g.Atoms() {
		counts[a.Symbol]++
	}
	var b strings.Builder
	for _, sym := range hillOrder(counts) {
		b.WriteString(sym)
		if n := counts[sym]; n > 1 {
			b.WriteString(strconv.Itoa(n))
		}
	}
	return b.String()
}

func hillOrder(counts map[string]int) []string {
	syms := make([]string, 0, len(counts))
	for s := range counts {
		syms = append(syms, s)
	}
	_, hasCarbon := counts["C"]
	rank := func(s string) int {
		if !hasCarbon {
			return 0
		}
		switch s {
		case "C":
			return 0
		case "H":
			return 1
		default:
			return 2
		}
	}
	slices.SortFunc(syms, func(a, b string) int {
		if c := cmp.Compare(rank(a), rank(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return syms
}
