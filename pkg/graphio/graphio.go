package graphio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/datamaplabs/lineagraph/pkg/lineage"
)

// Payload is the wire format the catalog/lineage collaborator produces.
// It is a plain node/edge listing with optional metadata; validation and
// defaulting happen in lineage.Build, not here.
type Payload struct {
	Nodes []PayloadNode `json:"nodes"`
	Edges []PayloadEdge `json:"edges"`
}

// PayloadNode mirrors one catalog asset in the input payload.
type PayloadNode struct {
	ID       string         `json:"id"`
	Label    string         `json:"label,omitempty"`
	Type     string         `json:"type,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// PayloadEdge mirrors one relationship in the input payload.
// Confidence 0 means unset; lineage.Build fills the origin default.
type PayloadEdge struct {
	ID               string         `json:"id"`
	Source           string         `json:"source"`
	Target           string         `json:"target"`
	RelationshipType string         `json:"relationshipType,omitempty"`
	Confidence       float64        `json:"confidence,omitempty"`
	Label            string         `json:"label,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// Decode converts a payload into the model types accepted by lineage.Build.
func Decode(p Payload) ([]lineage.Node, []lineage.Edge) {
	nodes := make([]lineage.Node, len(p.Nodes))
	for i, n := range p.Nodes {
		nodes[i] = lineage.Node{
			ID:       n.ID,
			Label:    n.Label,
			Type:     lineage.NodeType(n.Type),
			Metadata: lineage.Metadata(n.Metadata),
		}
	}
	edges := make([]lineage.Edge, len(p.Edges))
	for i, e := range p.Edges {
		edges[i] = lineage.Edge{
			ID:         e.ID,
			Source:     e.Source,
			Target:     e.Target,
			Type:       lineage.RelationshipType(e.RelationshipType),
			Confidence: e.Confidence,
			Label:      e.Label,
			Metadata:   lineage.Metadata(e.Metadata),
		}
	}
	return nodes, edges
}

// BuildGraph decodes a payload and assembles a validated graph in one step.
func BuildGraph(p Payload) (*lineage.Graph, *lineage.ValidationReport, error) {
	nodes, edges := Decode(p)
	return lineage.Build(nodes, edges)
}

// UnmarshalPayload deserializes JSON bytes into a Payload.
func UnmarshalPayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("unmarshal payload: %w", err)
	}
	return p, nil
}

// ReadPayload decodes a JSON payload from an io.Reader.
func ReadPayload(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	return p, nil
}

// ReadPayloadFile reads a JSON payload file.
func ReadPayloadFile(path string) (Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Payload{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPayload(f)
}

// Encode converts a graph back into the wire payload, including any edges
// added after the original build. Inference results carry their metadata
// markers, so a re-imported payload round-trips the provenance.
func Encode(g *lineage.Graph) Payload {
	p := Payload{
		Nodes: make([]PayloadNode, 0, g.NodeCount()),
		Edges: make([]PayloadEdge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		p.Nodes = append(p.Nodes, PayloadNode{
			ID:       n.ID,
			Label:    n.Label,
			Type:     string(n.Type),
			Metadata: n.Metadata,
		})
	}
	for _, e := range g.Edges() {
		p.Edges = append(p.Edges, PayloadEdge{
			ID:               e.ID,
			Source:           e.Source,
			Target:           e.Target,
			RelationshipType: string(e.Type),
			Confidence:       e.Confidence,
			Label:            e.Label,
			Metadata:         e.Metadata,
		})
	}
	return p
}

// WritePayloadFile writes a payload as pretty-printed JSON.
func WritePayloadFile(p Payload, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// MarshalHash returns the canonical JSON encoding of a graph used for
// content hashing: nodes and edges in insertion order with their effective
// (defaulted) confidences. Two graphs with equal content produce equal
// bytes regardless of how their payloads were formatted.
func MarshalHash(g *lineage.Graph) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.Encode(g.Nodes())
	enc.Encode(g.Edges())
	return buf.Bytes()
}
