// Package elements is the read-only periodic table used by the molfile loader,
// the key parser and the DOT renderer.
//
// Symbols are case-sensitive ("Co" is cobalt, "CO" is not an element). The
// table is never mutated after package initialization, so every function here
// is safe for concurrent use.
package elements

import (
	"github.com/matzehuels/molcanon/pkg/errors"
)

// DefaultColor is used for elements without an assigned display color.
const DefaultColor = "#C0C0C0"

// Element describes one chemical element.
type Element struct {
	Number int    // Atomic number (Z)
	Symbol string // IUPAC symbol, e.g. "Fe"
	Name   string // English name
	Color  string // Display color as #RRGGBB
}

var bySymbol = func() map[string]Element {
	m := make(map[string]Element, len(table))
	for _, e := range table {
		if e.Color == "" {
			e.Color = DefaultColor
		}
		m[e.Symbol] = e
	}
	return m
}()

// Lookup returns the element for symbol, or an UNKNOWN_ELEMENT error.
func Lookup(symbol string) (Element, error) {
	e, ok := bySymbol[symbol]
	if !ok {
		return Element{}, errors.New(errors.ErrCodeUnknownElement, "unknown element %q", symbol)
	}
	return e, nil
}

// BySymbol reports the element for symbol and whether it exists.
func BySymbol(symbol string) (Element, bool) {
	e, ok := bySymbol[symbol]
	return e, ok
}

// ByNumber returns the element with atomic number z.
func ByNumber(z int) (Element, bool) {
	if z < 1 || z > len(table) {
		return Element{}, false
	}
	return bySymbol[table[z-1].Symbol], true
}

// Color returns the display color of symbol, or DefaultColor when the symbol
// is unknown.
func Color(symbol string) string {
	if e, ok := bySymbol[symbol]; ok {
		return e.Color
	}
	return DefaultColor
}

// Count returns the number of elements in the table.
func Count() int { return len(table) }
