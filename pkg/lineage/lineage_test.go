package lineage

import (
	"errors"
	"testing"
)

func TestBuildDuplicateNodeID(t *testing.T) {
	_, _, err := Build([]Node{
		{ID: "a", Type: NodeTable},
		{ID: "a", Type: NodeTable},
	}, nil)
	if !errors.Is(err, ErrDuplicateNodeID) {
		t.Fatalf("err = %v, want ErrDuplicateNodeID", err)
	}
}

func TestBuildEmptyNodeID(t *testing.T) {
	_, _, err := Build([]Node{{ID: ""}}, nil)
	if !errors.Is(err, ErrInvalidNodeID) {
		t.Fatalf("err = %v, want ErrInvalidNodeID", err)
	}
}

func TestBuildDropsDanglingEdges(t *testing.T) {
	g, report, err := Build(
		[]Node{{ID: "a", Type: NodeTable}, {ID: "b", Type: NodeTable}},
		[]Edge{
			{ID: "e1", Source: "a", Target: "b", Type: RelReferences},
			{ID: "e2", Source: "a", Target: "missing", Type: RelReferences},
			{ID: "e3", Source: "ghost", Target: "b", Type: RelReferences},
		},
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if len(report.Warnings) != 2 {
		t.Fatalf("warnings = %d, want 2", len(report.Warnings))
	}
	for _, w := range report.Warnings {
		if w.Code != WarnDanglingEdge {
			t.Errorf("warning code = %q, want %q", w.Code, WarnDanglingEdge)
		}
	}
}

func TestBuildDropsSelfLoops(t *testing.T) {
	g, report, err := Build(
		[]Node{{ID: "a", Type: NodeTable}},
		[]Edge{{ID: "e1", Source: "a", Target: "a", Type: RelReferences}},
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", g.EdgeCount())
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Code != WarnSelfLoop {
		t.Errorf("warnings = %+v, want one self-loop", report.Warnings)
	}
}

func TestBuildDuplicateEdgeIDOverwrites(t *testing.T) {
	g, report, err := Build(
		[]Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]Edge{
			{ID: "e1", Source: "a", Target: "b", Type: RelReferences},
			{ID: "e1", Source: "a", Target: "c", Type: RelReferences},
		},
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	e, ok := g.Edge("e1")
	if !ok || e.Target != "c" {
		t.Errorf("edge e1 target = %q, want c (later edge wins)", e.Target)
	}
	if report.Clean() {
		t.Error("report should record the overwrite")
	}
	if g.HasEdgeBetween("a", "b") {
		t.Error("overwritten edge a→b should be gone from adjacency")
	}
}

func TestBuildConfidenceDefaults(t *testing.T) {
	tests := []struct {
		relType RelationshipType
		want    float64
	}{
		{RelContains, 0.95},
		{RelReferences, 0.9},
		{RelColumnToColumn, 0.85},
		{RelationshipType("custom"), 0.8},
	}
	for _, tt := range tests {
		t.Run(string(tt.relType), func(t *testing.T) {
			g, _, err := Build(
				[]Node{{ID: "a"}, {ID: "b"}},
				[]Edge{{ID: "e1", Source: "a", Target: "b", Type: tt.relType}},
			)
			if err != nil {
				t.Fatalf("Build error: %v", err)
			}
			e, _ := g.Edge("e1")
			if e.Confidence != tt.want {
				t.Errorf("Confidence = %v, want %v", e.Confidence, tt.want)
			}
		})
	}
}

func TestBuildKeepsExplicitConfidence(t *testing.T) {
	g, _, err := Build(
		[]Node{{ID: "a"}, {ID: "b"}},
		[]Edge{{ID: "e1", Source: "a", Target: "b", Type: RelReferences, Confidence: 0.42}},
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	e, _ := g.Edge("e1")
	if e.Confidence != 0.42 {
		t.Errorf("Confidence = %v, want 0.42", e.Confidence)
	}
}

func TestWithEdgesDoesNotMutateReceiver(t *testing.T) {
	g, _, err := Build(
		[]Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]Edge{{ID: "e1", Source: "a", Target: "b", Type: RelReferences}},
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	g2, report := g.WithEdges([]Edge{
		{ID: "e2", Source: "b", Target: "c", Type: RelReferences},
		{ID: "e3", Source: "b", Target: "ghost", Type: RelReferences},
	})
	if g.EdgeCount() != 1 {
		t.Errorf("original EdgeCount = %d, want 1", g.EdgeCount())
	}
	if g2.EdgeCount() != 2 {
		t.Errorf("derived EdgeCount = %d, want 2", g2.EdgeCount())
	}
	if len(report.Warnings) != 1 {
		t.Errorf("warnings = %d, want 1 (dangling e3)", len(report.Warnings))
	}
	if len(g.Outgoing("b")) != 0 {
		t.Error("original adjacency for b should be untouched")
	}
}

func TestParentAndChildren(t *testing.T) {
	g, _, err := Build(
		[]Node{
			{ID: "db.sales", Type: NodeSchema},
			{ID: "t.orders", Type: NodeTable},
			{ID: "c.orders.id", Type: NodeColumn, Label: "id"},
		},
		[]Edge{
			{ID: "e1", Source: "db.sales", Target: "t.orders", Type: RelContains},
			{ID: "e2", Source: "t.orders", Target: "c.orders.id", Type: RelContains},
		},
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	parent, ok := g.Parent("c.orders.id")
	if !ok || parent.ID != "t.orders" {
		t.Errorf("Parent = %v %v, want t.orders", parent.ID, ok)
	}
	if _, ok := g.Parent("db.sales"); ok {
		t.Error("schema should have no container")
	}

	kids := g.Children("t.orders")
	if len(kids) != 1 || kids[0].ID != "c.orders.id" {
		t.Errorf("Children = %v, want [c.orders.id]", kids)
	}
}

func TestNodesPreserveInsertionOrder(t *testing.T) {
	g, _, err := Build([]Node{{ID: "z"}, {ID: "a"}, {ID: "m"}}, nil)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	nodes := g.Nodes()
	want := []string{"z", "a", "m"}
	for i, n := range nodes {
		if n.ID != want[i] {
			t.Errorf("Nodes()[%d] = %q, want %q", i, n.ID, want[i])
		}
	}
}
