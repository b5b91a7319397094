// Package canon computes a canonical atom numbering for molecular graphs.
//
// # Overview
//
// Two molecules that differ only in the order their atoms were listed are the
// same molecule. Canonicalization renumbers atoms so that the numbering depends
// on the bonding topology alone: isomorphic inputs yield identical outputs.
//
// The pipeline has three stages:
//
//  1. [Refine] groups atoms into partitions. Atoms start out ordered by
//     atomic number and their neighbors' atomic numbers; the order is then
//     refined by partition ids and neighbor partition ids until it stops
//     changing. The result is an equitable partition: atoms in the same
//     partition see the same multiset of neighbor partitions.
//  2. [Traverse] walks the refined graph breadth-first from a root and hands
//     out canonical numbers from each partition's band of indices.
//  3. [molecule.Graph.Relabel] renumbers the graph by the traversal.
//
// [Canonicalize] runs all three:
//
//	res, err := canon.Canonicalize(g, canon.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(key.Serialize(res.Graph))
//
// # Symmetric Molecules
//
// Refinement cannot separate atoms that are symmetric images of each other,
// such as the ten carbons of ferrocene. Traversal breaks such ties by
// splitting each newly discovered atom off from its class and refining the
// working partition again, so the choice among equivalent neighbors depends
// on structure rather than input order.
//
// # Errors
//
// Disconnected molecules are not supported: Traverse returns a
// DISCONNECTED_GRAPH error instead of a partial numbering. Roots outside the
// graph and malformed priority lists are INVALID_INPUT errors. A refinement
// that fails to settle within n+1 rounds is an INTERNAL_ERROR.
//
// # Concurrency
//
// All state lives inside a single call. Canonicalize may run concurrently on
// any number of graphs.
package canon
