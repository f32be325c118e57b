package layout

import "github.com/datamaplabs/lineagraph/pkg/lineage"

// adjacency is the layout engine's working view of a lineage graph:
// node IDs in insertion order and parent/child lists per node. It is built
// once per Build call; the lineage.Graph itself is never modified.
type adjacency struct {
	ids []string
	out map[string][]string // child node IDs in edge insertion order
	in  map[string][]string // parent node IDs in edge insertion order
}

// buildAdjacency flattens the graph's edges into neighbor lists, skipping
// the edge IDs in ignore (back-edges removed for leveling purposes only -
// they stay in the rendered graph).
func buildAdjacency(g *lineage.Graph, ignore map[string]bool) *adjacency {
	adj := &adjacency{
		out: make(map[string][]string),
		in:  make(map[string][]string),
	}
	for _, n := range g.Nodes() {
		adj.ids = append(adj.ids, n.ID)
	}
	for _, e := range g.Edges() {
		if ignore[e.ID] {
			continue
		}
		adj.out[e.Source] = append(adj.out[e.Source], e.Target)
		adj.in[e.Target] = append(adj.in[e.Target], e.Source)
	}
	return adj
}

// breakCycles finds a set of back-edges whose removal makes the graph
// acyclic, using depth-first search with white/gray/black coloring. Source
// nodes (no incoming edges) are visited first so that natural roots anchor
// the traversal; remaining nodes (pure cycles) follow in insertion order,
// which keeps the choice of back-edge deterministic.
//
// The returned set contains edge IDs to ignore during leveling. The edges
// are not removed from the rendered graph.
func breakCycles(g *lineage.Graph) map[string]bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	ignored := make(map[string]bool)

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, e := range g.Outgoing(id) {
			switch color[e.Target] {
			case white:
				dfs(e.Target)
			case gray:
				ignored[e.ID] = true
			}
		}
		color[id] = black
	}

	for _, n := range g.Nodes() {
		if color[n.ID] == white && len(g.Incoming(n.ID)) == 0 {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	return ignored
}

// assignLayers computes the longest-path layer for every node via Kahn's
// topological sort: sources sit at layer 0 and each node lands one past the
// deepest of its parents. The adjacency must be acyclic (run breakCycles
// first); any node still caught in a cycle would keep its default layer 0.
func assignLayers(adj *adjacency) map[string]int {
	inDegree := make(map[string]int, len(adj.ids))
	layers := make(map[string]int, len(adj.ids))
	queue := make([]string, 0, len(adj.ids))

	for _, id := range adj.ids {
		degree := len(adj.in[id])
		inDegree[id] = degree
		layers[id] = 0
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range adj.out[curr] {
			if l := layers[curr] + 1; l > layers[child] {
				layers[child] = l
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return layers
}
