package lineage

import (
	"reflect"
	"testing"
)

// chain builds the three-node chain A -> B -> C.
func chain(t *testing.T) *Graph {
	t.Helper()
	g, _, err := Build(
		[]Node{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		[]Edge{
			{ID: "ab", Source: "A", Target: "B", Type: RelReferences},
			{ID: "bc", Source: "B", Target: "C", Type: RelReferences},
		},
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return g
}

func TestUpstreamChain(t *testing.T) {
	g := chain(t)
	info := g.Upstream("C")
	if got, want := info.NodeIDs(), []string{"A", "B", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Upstream(C).nodes = %v, want %v", got, want)
	}
	if info.Depth != 2 {
		t.Errorf("Upstream(C).depth = %d, want 2", info.Depth)
	}
}

func TestDownstreamChain(t *testing.T) {
	g := chain(t)

	info := g.Downstream("A")
	if got, want := info.NodeIDs(), []string{"A", "B", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Downstream(A).nodes = %v, want %v", got, want)
	}
	if info.Depth != 2 {
		t.Errorf("Downstream(A).depth = %d, want 2", info.Depth)
	}

	leaf := g.Downstream("C")
	if got, want := leaf.NodeIDs(), []string{"C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Downstream(C).nodes = %v, want %v", got, want)
	}
	if leaf.Depth != 0 {
		t.Errorf("Downstream(C).depth = %d, want 0", leaf.Depth)
	}
}

func TestDownstreamIncludesStart(t *testing.T) {
	g := chain(t)
	for _, id := range []string{"A", "B", "C"} {
		if !g.Downstream(id).HasNode(id) {
			t.Errorf("Downstream(%s) should contain its start node", id)
		}
	}
}

func TestFullPathIsUnionOfBothDirections(t *testing.T) {
	g := chain(t)
	for _, id := range []string{"A", "B", "C"} {
		up, down, full := g.Upstream(id), g.Downstream(id), g.FullPath(id)
		want := up.Union(down)
		if !reflect.DeepEqual(full.Nodes, want.Nodes) {
			t.Errorf("FullPath(%s).nodes = %v, want %v", id, full.NodeIDs(), want.NodeIDs())
		}
		if !reflect.DeepEqual(full.Edges, want.Edges) {
			t.Errorf("FullPath(%s).edges mismatch", id)
		}
		if full.Depth != max(up.Depth, down.Depth) {
			t.Errorf("FullPath(%s).depth = %d, want %d", id, full.Depth, max(up.Depth, down.Depth))
		}
	}
}

func TestTraversalTerminatesOnCycle(t *testing.T) {
	g, _, err := Build(
		[]Node{{ID: "A"}, {ID: "B"}},
		[]Edge{
			{ID: "ab", Source: "A", Target: "B", Type: RelReferences},
			{ID: "ba", Source: "B", Target: "A", Type: RelReferences},
		},
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	info := g.Downstream("A")
	if got, want := info.NodeIDs(), []string{"A", "B"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Downstream(A).nodes = %v, want %v", got, want)
	}
	if !info.HasEdge("ab") || !info.HasEdge("ba") {
		t.Error("both cycle edges should be recorded as visited")
	}
}

func TestTraversalUnknownStartNode(t *testing.T) {
	g := chain(t)
	info := g.Upstream("nope")
	if len(info.Nodes) != 0 || len(info.Edges) != 0 || info.Depth != 0 {
		t.Errorf("Upstream(unknown) = %+v, want empty PathInfo", info)
	}
}

func TestTraversalEmptyGraph(t *testing.T) {
	g, _, err := Build(nil, nil)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if info := g.Downstream("A"); len(info.Nodes) != 0 {
		t.Errorf("Downstream on empty graph = %+v, want empty", info)
	}
}

func TestImpactEqualsDownstream(t *testing.T) {
	g := chain(t)
	impact, down := g.Impact("A"), g.Downstream("A")
	if !reflect.DeepEqual(impact.Nodes, down.Nodes) {
		t.Errorf("Impact(A) = %v, want downstream set %v", impact.NodeIDs(), down.NodeIDs())
	}
}

func TestDownstreamDiamondDepth(t *testing.T) {
	// A -> B -> D and A -> D: depth is the longest BFS distance, which for
	// BFS is the shortest path per node but max over all queued items.
	g, _, err := Build(
		[]Node{{ID: "A"}, {ID: "B"}, {ID: "D"}},
		[]Edge{
			{ID: "ab", Source: "A", Target: "B", Type: RelReferences},
			{ID: "ad", Source: "A", Target: "D", Type: RelReferences},
			{ID: "bd", Source: "B", Target: "D", Type: RelReferences},
		},
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	info := g.Downstream("A")
	if got, want := info.NodeIDs(), []string{"A", "B", "D"}; !reflect.DeepEqual(got, want) {
		t.Errorf("nodes = %v, want %v", got, want)
	}
	if info.Depth != 1 {
		t.Errorf("depth = %d, want 1 (D first reached at distance 1)", info.Depth)
	}
	if !info.HasEdge("bd") {
		t.Error("edge bd should still be recorded as visited")
	}
}
