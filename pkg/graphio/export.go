package graphio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/datamaplabs/lineagraph/pkg/layout"
	"github.com/datamaplabs/lineagraph/pkg/lineage"
)

// Export is the annotated graph handed to the presentation collaborator:
// the payload shapes plus positions, layers, and the derived highlight and
// impact flags for the currently selected node.
type Export struct {
	Nodes []ExportNode `json:"nodes"`
	Edges []ExportEdge `json:"edges"`
}

// ExportNode is a positioned, annotated node.
type ExportNode struct {
	ID            string          `json:"id"`
	Label         string          `json:"label,omitempty"`
	Type          string          `json:"type,omitempty"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	Layer         int             `json:"layer"`
	Position      layout.Position `json:"position"`
	IsHighlighted bool            `json:"isHighlighted,omitempty"`
	IsImpacted    bool            `json:"isImpacted,omitempty"`
}

// ExportEdge is an edge annotated with highlight state. Positions live on
// nodes only; rendering draws curves between the node coordinates.
type ExportEdge struct {
	ID               string         `json:"id"`
	Source           string         `json:"source"`
	Target           string         `json:"target"`
	RelationshipType string         `json:"relationshipType,omitempty"`
	Confidence       float64        `json:"confidence,omitempty"`
	Label            string         `json:"label,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	IsHighlighted    bool           `json:"isHighlighted,omitempty"`
}

// Annotations carries the optional derived flags for an export. A nil set
// leaves every flag false.
type Annotations struct {
	// Highlight marks the nodes and edges of the selected traversal.
	Highlight *lineage.PathInfo
	// Impact marks the nodes affected by a change at the selected node.
	Impact *lineage.PathInfo
}

// BuildExport assembles the presentation payload from a graph and its
// layout. Node and edge order follows graph insertion order, matching the
// determinism of the layout itself.
func BuildExport(g *lineage.Graph, res layout.Result, ann Annotations) Export {
	out := Export{
		Nodes: make([]ExportNode, 0, g.NodeCount()),
		Edges: make([]ExportEdge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		en := ExportNode{
			ID:       n.ID,
			Label:    n.Label,
			Type:     string(n.Type),
			Metadata: n.Metadata,
			Layer:    res.Layers[n.ID],
			Position: res.Positions[n.ID],
		}
		if ann.Highlight != nil {
			en.IsHighlighted = ann.Highlight.HasNode(n.ID)
		}
		if ann.Impact != nil {
			en.IsImpacted = ann.Impact.HasNode(n.ID)
		}
		out.Nodes = append(out.Nodes, en)
	}
	for _, e := range g.Edges() {
		ee := ExportEdge{
			ID:               e.ID,
			Source:           e.Source,
			Target:           e.Target,
			RelationshipType: string(e.Type),
			Confidence:       e.Confidence,
			Label:            e.Label,
			Metadata:         e.Metadata,
		}
		if ann.Highlight != nil {
			ee.IsHighlighted = ann.Highlight.HasEdge(e.ID)
		}
		out.Edges = append(out.Edges, ee)
	}
	return out
}

// MarshalExport serializes an Export to pretty-printed JSON bytes.
func MarshalExport(e Export) ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// WriteExportFile writes an Export to a JSON file.
func WriteExportFile(e Export, path string) error {
	data, err := MarshalExport(e)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadExportFile reads an Export back from a JSON file.
func ReadExportFile(path string) (Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Export{}, fmt.Errorf("read %s: %w", path, err)
	}
	var e Export
	if err := json.Unmarshal(data, &e); err != nil {
		return Export{}, fmt.Errorf("unmarshal export: %w", err)
	}
	return e, nil
}
