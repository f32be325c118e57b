// Package layout computes deterministic hierarchical positions for lineage
// graphs, so that edges flow consistently in one direction with few
// crossings.
//
// # Algorithm
//
// The engine follows the classic Sugiyama layered-drawing recipe:
//
//  1. Cycle breaking: depth-first search marks one back-edge per cycle as
//     ignored, purely for leveling. Ignored edges stay in the graph and are
//     still rendered.
//  2. Leveling: each node's layer is its longest-path distance from a
//     source node, computed with Kahn's topological sort.
//  3. Ordering: barycenter sweeps with adjacent-transpose refinement reduce
//     edge crossings between consecutive layers. Crossings are counted in
//     O(E log V) with a Fenwick tree. Exact minimization is NP-hard; the
//     engine only promises reduction.
//  4. Coordinates: layer index drives the primary axis (rank separation,
//     1.5 × node spacing by default), the position within the layer drives
//     the secondary axis. DirectionLR swaps the axes.
//
// # Determinism
//
// Layout is a pure function of (node set, edge set, direction, spacing).
// All tie-breaks derive from node and edge insertion order, never from map
// iteration, so identical inputs always yield identical positions - the
// property that keeps re-renders stable and tests honest.
package layout
