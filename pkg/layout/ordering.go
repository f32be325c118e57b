package layout

import (
	"slices"
	"sort"
)

// orderPasses is the number of alternating barycenter sweeps. Values beyond
// a handful give diminishing returns on catalog-sized graphs.
const orderPasses = 4

// orderLayers computes a left-to-right ordering of nodes within each layer
// that reduces edge crossings with the previous layer.
//
// This is the classic Sugiyama barycenter method: starting from insertion
// order, alternating top-down and bottom-up sweeps reorder each layer by
// the mean position of its neighbors in the fixed adjacent layer, followed
// by a transpose pass that swaps adjacent pairs when doing so removes
// crossings. The best ordering seen across all passes is returned.
//
// Exact crossing minimization is NP-hard; this is a greedy reduction with
// no optimality guarantee, which is all hierarchical rendering needs. The
// result is deterministic: ties keep the current relative order, and the
// initial order is node insertion order.
func orderLayers(adj *adjacency, layers map[string]int) map[int][]string {
	order := make(map[int][]string)
	for _, id := range adj.ids {
		l := layers[id]
		order[l] = append(order[l], id)
	}
	layerIDs := make([]int, 0, len(order))
	for l := range order {
		layerIDs = append(layerIDs, l)
	}
	slices.Sort(layerIDs)
	if len(layerIDs) < 2 {
		return order
	}

	best := cloneOrder(order)
	bestCrossings := countCrossings(adj, best)

	for pass := 0; pass < orderPasses && bestCrossings > 0; pass++ {
		if pass%2 == 0 {
			for i := 1; i < len(layerIDs); i++ {
				barycenterSort(adj, order, layerIDs[i], layerIDs[i-1], true)
			}
		} else {
			for i := len(layerIDs) - 2; i >= 0; i-- {
				barycenterSort(adj, order, layerIDs[i], layerIDs[i+1], false)
			}
		}
		transpose(adj, order, layerIDs)

		if c := countCrossings(adj, order); c < bestCrossings {
			bestCrossings = c
			best = cloneOrder(order)
		}
	}
	return best
}

// barycenterSort reorders one layer by the average position of each node's
// neighbors in the fixed adjacent layer. Nodes with no neighbors there keep
// their current position as their barycenter, and the sort is stable, so
// disconnected nodes do not drift.
func barycenterSort(adj *adjacency, order map[int][]string, layer, fixed int, useParents bool) {
	fixedPos := posMap(order[fixed])
	ids := order[layer]

	weights := make(map[string]float64, len(ids))
	for i, id := range ids {
		var nbrs []string
		if useParents {
			nbrs = adj.in[id]
		} else {
			nbrs = adj.out[id]
		}
		sum, count := 0.0, 0
		for _, n := range nbrs {
			if p, ok := fixedPos[n]; ok {
				sum += float64(p)
				count++
			}
		}
		if count == 0 {
			weights[id] = float64(i)
		} else {
			weights[id] = sum / float64(count)
		}
	}

	sort.SliceStable(ids, func(a, b int) bool {
		return weights[ids[a]] < weights[ids[b]]
	})
}

// transpose greedily swaps adjacent node pairs within each layer while any
// swap strictly reduces crossings against both neighboring layers.
func transpose(adj *adjacency, order map[int][]string, layerIDs []int) {
	improved := true
	for improved {
		improved = false
		for idx, l := range layerIDs {
			ids := order[l]
			var abovePos, belowPos map[string]int
			if idx > 0 {
				abovePos = posMap(order[layerIDs[idx-1]])
			}
			if idx+1 < len(layerIDs) {
				belowPos = posMap(order[layerIDs[idx+1]])
			}

			for i := 0; i+1 < len(ids); i++ {
				left, right := ids[i], ids[i+1]
				current, swapped := 0, 0
				if abovePos != nil {
					current += pairCrossings(adj, left, right, abovePos, true)
					swapped += pairCrossings(adj, right, left, abovePos, true)
				}
				if belowPos != nil {
					current += pairCrossings(adj, left, right, belowPos, false)
					swapped += pairCrossings(adj, right, left, belowPos, false)
				}
				if swapped < current {
					ids[i], ids[i+1] = right, left
					improved = true
				}
			}
		}
	}
}

func cloneOrder(order map[int][]string) map[int][]string {
	out := make(map[int][]string, len(order))
	for l, ids := range order {
		out[l] = slices.Clone(ids)
	}
	return out
}
