package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/molcanon/pkg/molecule"
)

// ReadJSON decodes a JSON molecule from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - An atom has an unknown element symbol
//   - A bond is out of range, a self bond or a duplicate
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*molecule.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	symbols := make([]string, len(data.Atoms))
	parts := make([]int, len(data.Atoms))
	for i, a := range data.Atoms {
		symbols[i] = a.Symbol
		parts[i] = a.Partition
	}
	g, err := molecule.New(symbols)
	if err != nil {
		return nil, fmt.Errorf("atoms: %w", err)
	}
	for _, b := range data.Bonds {
		if err := g.AddBond(b.A, b.B); err != nil {
			return nil, fmt.Errorf("bond %d-%d: %w", b.A, b.B, err)
		}
	}
	return g.WithPartitions(parts)
}

// ImportJSON reads a JSON file at path and returns the decoded molecule.
// The error wraps the underlying cause with the file path for context.
func ImportJSON(path string) (*molecule.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	g, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
