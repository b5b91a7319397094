// Package molfile reads and writes MDL molfiles in the V3000 format.
//
// Only the connection table is used: element symbols from the atom block and
// bond endpoints from the bond block. Coordinates, charges and bond orders are
// ignored when reading and written as neutral placeholders.
//
// The reader expects the layout produced by common chemistry toolkits:
//
//	line 0      molecule name
//	line 1-3    header and "V3000" counts line
//	line 4      M  V30 BEGIN CTAB
//	line 5      M  V30 COUNTS <atoms> <bonds> ...
//	line 6      M  V30 BEGIN ATOM
//	line 7...   M  V30 <idx> <symbol> <x> <y> <z> ...
//	            M  V30 END ATOM
//	            M  V30 BEGIN BOND
//	            M  V30 <idx> <order> <a> <b>
//	            M  V30 END BOND
//
// Bond endpoints are 1-based in the file and 0-based in the returned graph.
package molfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/molcanon/pkg/errors"
	"github.com/matzehuels/molcanon/pkg/molecule"
)

const (
	countsLine = 5
	atomStart  = 7
)

// Molfile is a parsed connection table.
type Molfile struct {
	Name  string
	Graph *molecule.Graph
}

// Read parses a V3000 molfile from r and returns its graph.
func Read(r io.Reader) (*molecule.Graph, error) {
	m, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return m.Graph, nil
}

// ReadFile parses the molfile at path.
func ReadFile(path string) (*molecule.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Read(bytes.NewReader(data))
}

// Decode parses a V3000 molfile from r, keeping the molecule name.
//
// Malformed headers, counts that do not match the blocks or exceed
// [molecule.MaxAtoms] and non-numeric fields yield INVALID_MOLFILE. Unknown
// element symbols yield UNKNOWN_ELEMENT, and bad, duplicate or self bonds
// yield INVALID_BOND.
func Decode(r io.Reader) (*Molfile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read molfile: %w", err)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")

	if len(lines) <= countsLine {
		return nil, invalid("file has %d lines, no counts line", len(lines))
	}
	counts := strings.Fields(lines[countsLine])
	if len(counts) < 5 || counts[2] != "COUNTS" {
		return nil, invalid("line %d: expected 'M  V30 COUNTS <atoms> <bonds>'", countsLine+1)
	}
	na, err := count(counts[3], "atom")
	if err != nil {
		return nil, err
	}
	nb, err := count(counts[4], "bond")
	if err != nil {
		return nil, err
	}

	if na > molecule.MaxAtoms {
		return nil, invalid("atom count %d exceeds the limit of %d", na, molecule.MaxAtoms)
	}
	if atomStart+na >= len(lines) {
		return nil, invalid("counts line declares %d atoms but the file has only %d lines", na, len(lines))
	}
	if nb > 0 && nb > len(lines)-(atomStart+na+2) {
		return nil, invalid("counts line declares %d bonds but the file has only %d lines", nb, len(lines))
	}

	if err := expectMarker(lines, atomStart-1, "BEGIN ATOM"); err != nil {
		return nil, err
	}
	symbols := make([]string, na)
	for i := range na {
		tok := fields(lines, atomStart+i)
		if len(tok) < 4 || tok[0] != "M" || tok[1] != "V30" {
			return nil, invalid("line %d: malformed atom entry", atomStart+i+1)
		}
		symbols[i] = tok[3]
	}
	if err := expectMarker(lines, atomStart+na, "END ATOM"); err != nil {
		return nil, err
	}

	g, err := molecule.New(symbols)
	if err != nil {
		return nil, err
	}

	if nb > 0 {
		if err := expectMarker(lines, atomStart+na+1, "BEGIN BOND"); err != nil {
			return nil, err
		}
		bondStart := atomStart + na + 2
		for i := range nb {
			line := bondStart + i
			tok := fields(lines, line)
			if len(tok) < 6 || tok[0] != "M" || tok[1] != "V30" {
				return nil, invalid("line %d: malformed bond entry", line+1)
			}
			a, errA := strconv.Atoi(tok[4])
			b, errB := strconv.Atoi(tok[5])
			if errA != nil || errB != nil {
				return nil, invalid("line %d: non-numeric bond endpoint", line+1)
			}
			if err := g.AddBond(a-1, b-1); err != nil {
				return nil, fmt.Errorf("line %d: %w", line+1, err)
			}
		}
		if err := expectMarker(lines, bondStart+nb, "END BOND"); err != nil {
			return nil, err
		}
	}

	return &Molfile{Name: strings.TrimSpace(lines[0]), Graph: g}, nil
}

func count(tok, what string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0, invalid("%s count %q is not a non-negative integer", what, tok)
	}
	return n, nil
}

func fields(lines []string, i int) []string {
	if i >= len(lines) {
		return nil
	}
	return strings.Fields(lines[i])
}

func expectMarker(lines []string, i int, marker string) error {
	if i >= len(lines) || !strings.HasSuffix(strings.Join(strings.Fields(lines[i]), " "), marker) {
		return invalid("line %d: expected %q (counts do not match the blocks?)", i+1, marker)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidMolfile, format, args...)
}
