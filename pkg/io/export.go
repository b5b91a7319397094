package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/molcanon/pkg/molecule"
)

type graph struct {
	Atoms []atom          `json:"atoms"`
	Bonds []molecule.Bond `json:"bonds"`
}

type atom struct {
	Symbol    string `json:"symbol"`
	Partition int    `json:"partition,omitempty"`
}

// WriteJSON encodes g as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(g *molecule.Graph, w io.Writer) error {
	out := graph{
		Atoms: make([]atom, g.Len()),
		Bonds: g.Bonds(),
	}
	for i, a := range g.Atoms() {
		out.Atoms[i] = atom{Symbol: a.Symbol, Partition: a.Partition}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to the file at path, creating or truncating it.
func ExportJSON(g *molecule.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
