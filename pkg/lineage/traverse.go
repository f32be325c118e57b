package lineage

import "slices"

// PathInfo is the result of a reachability traversal: the node and edge IDs
// visited, and the maximum BFS distance reached. It is a derived view:
// it never feeds back into the graph it was computed from.
type PathInfo struct {
	Nodes map[string]bool `json:"nodes"`
	Edges map[string]bool `json:"edges"`
	Depth int             `json:"depth"`
}

func emptyPathInfo() PathInfo {
	return PathInfo{Nodes: map[string]bool{}, Edges: map[string]bool{}}
}

// HasNode reports whether the traversal visited the node.
func (p PathInfo) HasNode(id string) bool { return p.Nodes[id] }

// HasEdge reports whether the traversal crossed the edge.
func (p PathInfo) HasEdge(id string) bool { return p.Edges[id] }

// NodeIDs returns the visited node IDs in sorted order.
// Sorting makes the result stable for display and testing; BFS layer order
// within the traversal itself is not guaranteed across input orderings.
func (p PathInfo) NodeIDs() []string {
	ids := make([]string, 0, len(p.Nodes))
	for id := range p.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Union merges two traversal results: node and edge sets are united and the
// depth is the maximum of the two. Neither input is modified.
func (p PathInfo) Union(other PathInfo) PathInfo {
	out := emptyPathInfo()
	for id := range p.Nodes {
		out.Nodes[id] = true
	}
	for id := range other.Nodes {
		out.Nodes[id] = true
	}
	for id := range p.Edges {
		out.Edges[id] = true
	}
	for id := range other.Edges {
		out.Edges[id] = true
	}
	out.Depth = max(p.Depth, other.Depth)
	return out
}

type direction int

const (
	directionUp direction = iota
	directionDown
)

// Upstream returns the ancestors of the node: every asset whose data feeds
// into it, found by walking edges backwards. The start node is always
// included. An unknown start node yields an empty PathInfo - callers treat
// "no such node" and "isolated node" identically for display.
func (g *Graph) Upstream(nodeID string) PathInfo {
	return g.walk(nodeID, directionUp)
}

// Downstream returns the descendants of the node: every asset fed by it,
// found by walking edges forwards. The start node is always included.
func (g *Graph) Downstream(nodeID string) PathInfo {
	return g.walk(nodeID, directionDown)
}

// FullPath returns the union of Upstream and Downstream for the node, with
// depth equal to the larger of the two directional depths.
func (g *Graph) FullPath(nodeID string) PathInfo {
	return g.Upstream(nodeID).Union(g.Downstream(nodeID))
}

// Impact returns the set of assets whose contents would be affected by a
// change at the node. It is exactly the downstream reachability set, named
// for how the console presents it.
func (g *Graph) Impact(nodeID string) PathInfo {
	return g.Downstream(nodeID)
}

// walk runs a breadth-first traversal from start in the given direction.
//
// The visited set is seeded with the start node, and each edge is recorded
// the first time it is crossed, so cyclic graphs terminate: a cycle simply
// stops expanding once its nodes are all visited. Depth is carried per
// queued item; the reported depth is the maximum seen anywhere.
func (g *Graph) walk(start string, dir direction) PathInfo {
	info := emptyPathInfo()
	if !g.HasNode(start) {
		return info
	}
	info.Nodes[start] = true

	type item struct {
		id    string
		depth int
	}
	queue := []item{{start, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth > info.Depth {
			info.Depth = cur.depth
		}

		var edgeIDs []string
		if dir == directionDown {
			edgeIDs = g.outgoing[cur.id]
		} else {
			edgeIDs = g.incoming[cur.id]
		}
		for _, eid := range edgeIDs {
			if info.Edges[eid] {
				continue
			}
			info.Edges[eid] = true
			e := g.edges[eid]
			next := e.Target
			if dir == directionUp {
				next = e.Source
			}
			if info.Nodes[next] {
				continue
			}
			info.Nodes[next] = true
			queue = append(queue, item{next, cur.depth + 1})
		}
	}
	return info
}
