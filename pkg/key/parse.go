package key

import (
	"cmp"
	"slices"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/matzehuels/molcanon/pkg/elements"
	"github.com/matzehuels/molcanon/pkg/errors"
	"github.com/matzehuels/molcanon/pkg/molecule"
)

type keyExpr struct {
	Formula []*formulaTerm `parser:"@@+"`
	Bonds   []*bondExpr    `parser:"(\"/\" @@)*"`
}

type formulaTerm struct {
	Symbol string `parser:"@Element"`
	Count  *int   `parser:"@Int?"`
}

type bondExpr struct {
	A int `parser:"@Int \"-\""`
	B int `parser:"@Int"`
}

var keyLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Element", Pattern: `[A-Z][a-z]?`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[/-]`},
})

var parseKeyExpr = participle.MustBuild[keyExpr](participle.Lexer(keyLexer))

// Parse rebuilds the graph a key describes.
//
// Canonical graphs number atoms in bands of ascending atomic number, so the
// formula alone fixes every atom's element: the lightest element takes the
// first indices, the next one follows, and so on. For any canonical key k,
// Serialize(Parse(k)) == k.
//
// Malformed keys, unknown or repeated elements, explicit counts below two,
// formulas above [molecule.MaxAtoms] atoms and bonds that do not fit the
// formula yield an INVALID_KEY error.
func Parse(k string) (*molecule.Graph, error) {
	expr, err := parseKeyExpr.ParseString("", k)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidKey, err, "parse %q", k)
	}

	type term struct {
		el    elements.Element
		count int
	}
	terms := make([]term, 0, len(expr.Formula))
	total := 0
	for _, t := range expr.Formula {
		el, err := elements.Lookup(t.Symbol)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidKey, err, "formula")
		}
		count := 1
		if t.Count != nil {
			if *t.Count < 2 {
				return nil, errors.New(errors.ErrCodeInvalidKey, "formula: %s%d is not a valid count", t.Symbol, *t.Count)
			}
			count = *t.Count
		}
		if slices.ContainsFunc(terms, func(x term) bool { return x.el.Symbol == el.Symbol }) {
			return nil, errors.New(errors.ErrCodeInvalidKey, "formula: element %s listed twice", el.Symbol)
		}
		if count > molecule.MaxAtoms-total {
			return nil, errors.New(errors.ErrCodeInvalidKey, "formula: more than %d atoms", molecule.MaxAtoms)
		}
		total += count
		terms = append(terms, term{el: el, count: count})
	}
	slices.SortFunc(terms, func(a, b term) int { return cmp.Compare(a.el.Number, b.el.Number) })

	symbols := make([]string, 0, total)
	for _, t := range terms {
		for range t.count {
			symbols = append(symbols, t.el.Symbol)
		}
	}

	bonds := make([]molecule.Bond, len(expr.Bonds))
	for i, b := range expr.Bonds {
		bonds[i] = molecule.Bond{A: b.A - 1, B: b.B - 1}
	}
	g, err := molecule.FromBonds(symbols, bonds)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidKey, err, "bonds")
	}
	return g, nil
}

// Equal reports whether two keys describe the same graph. Keys are compared
// after normalization, so bond order and endpoint order do not matter. Keys
// that fail to parse are compared as plain strings.
func Equal(a, b string) bool {
	ga, errA := Parse(a)
	gb, errB := Parse(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return Serialize(ga) == Serialize(gb)
}
