package layout

import "slices"

// posMap maps each ID in the slice to its index, for fast position lookups
// during crossing calculations.
func posMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// countCrossings returns the total number of edge crossings for the given
// layer orderings, summing over each pair of consecutive layers.
func countCrossings(adj *adjacency, order map[int][]string) int {
	layers := make([]int, 0, len(order))
	for l := range order {
		layers = append(layers, l)
	}
	slices.Sort(layers)

	total := 0
	for i := 0; i+1 < len(layers); i++ {
		total += countLayerCrossings(adj, order[layers[i]], order[layers[i+1]])
	}
	return total
}

// countLayerCrossings counts edge crossings between two adjacent layers
// using a Fenwick tree (binary indexed tree) for O(E log V) performance.
//
// Two edges (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and
// pos(v1) > pos(v2), so crossings equal the inversions in the sequence of
// target positions when edges are sorted by source position. Edges whose
// target is not in the lower layer (long edges spanning several layers,
// back-edges) are ignored here.
func countLayerCrossings(adj *adjacency, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := posMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, id := range upper {
		for _, child := range adj.out[id] {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// Count edges seen so far with target <= e.lower; the rest cross.
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

// pairCrossings counts the crossings contributed by the ordered pair
// (left, right) against one adjacent layer. If useParents is true the layer
// above is considered, otherwise the layer below. Swapping the pair is an
// improvement when pairCrossings(left, right) > pairCrossings(right, left).
func pairCrossings(adj *adjacency, left, right string, adjPos map[string]int, useParents bool) int {
	var lnbr, rnbr []string
	if useParents {
		lnbr, rnbr = adj.in[left], adj.in[right]
	} else {
		lnbr, rnbr = adj.out[left], adj.out[right]
	}

	crossings := 0
	for _, ln := range lnbr {
		lp, ok := adjPos[ln]
		if !ok {
			continue
		}
		for _, rn := range rnbr {
			if rp, ok := adjPos[rn]; ok && lp > rp {
				crossings++
			}
		}
	}
	return crossings
}
