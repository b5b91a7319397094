// Package io provides JSON import and export for molecular graphs.
//
// # Overview
//
// Molfiles are the exchange format for structures coming from chemistry
// tools (see package molfile). The JSON form here is meant for programs: it
// carries partitions alongside atoms, so refined and canonical graphs can be
// written out, inspected and re-imported without recomputation.
//
// # JSON Format
//
//	{
//	  "atoms": [
//	    {"symbol": "H", "partition": 0},
//	    {"symbol": "H", "partition": 0},
//	    {"symbol": "O", "partition": 1}
//	  ],
//	  "bonds": [
//	    {"a": 0, "b": 2},
//	    {"a": 1, "b": 2}
//	  ]
//	}
//
// Atom indices are implied by position. Bonds use 0-based indices.
// "partition" is optional and defaults to 0.
//
// # Import
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate element symbols and bonds the same way
// [molecule.FromBonds] does, wrapping failures with the offending position.
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to any
// io.Writer. Export followed by import reproduces the graph exactly,
// partitions included.
package io
