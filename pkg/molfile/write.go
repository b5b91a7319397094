package molfile

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/molcanon/pkg/molecule"
)

// Write emits g as a V3000 molfile. Atoms are placed at the origin and every
// bond is written as a single bond. Read(Write(g)) yields a graph with the
// same symbols and bonds.
func Write(w io.Writer, g *molecule.Graph, name string) error {
	bw := bufio.NewWriter(w)
	bonds := g.Bonds()

	fmt.Fprintln(bw, name)
	fmt.Fprintln(bw, "  molcanon")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "  0  0  0     0  0            999 V3000")
	fmt.Fprintln(bw, "M  V30 BEGIN CTAB")
	fmt.Fprintf(bw, "M  V30 COUNTS %d %d 0 0 0\n", g.Len(), len(bonds))
	fmt.Fprintln(bw, "M  V30 BEGIN ATOM")
	for i, a := range g.Atoms() {
		fmt.Fprintf(bw, "M  V30 %d %s 0.0 0.0 0.0000 0\n", i+1, a.Symbol)
	}
	fmt.Fprintln(bw, "M  V30 END ATOM")
	if len(bonds) > 0 {
		fmt.Fprintln(bw, "M  V30 BEGIN BOND")
		for i, b := range bonds {
			fmt.Fprintf(bw, "M  V30 %d 1 %d %d\n", i+1, b.A+1, b.B+1)
		}
		fmt.Fprintln(bw, "M  V30 END BOND")
	}
	fmt.Fprintln(bw, "M  V30 END CTAB")
	fmt.Fprintln(bw, "M  END")
	return bw.Flush()
}

// WriteFile writes g to path as a V3000 molfile.
func WriteFile(path string, g *molecule.Graph, name string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, g, name); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
