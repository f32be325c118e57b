package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datamaplabs/lineagraph/internal/config"
	"github.com/datamaplabs/lineagraph/pkg/pipeline"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := NewServer(logger, runner, time.Minute, config.Default().Layout)
	t.Cleanup(srv.Close)
	return srv
}

func createTestGraph(t *testing.T, srv *Server, body string) graphResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/graphs", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp graphResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

const sampleGraphBody = `{
	"nodes": [
		{"id": "customers", "label": "customers", "type": "table"},
		{"id": "orders", "label": "orders", "type": "table"},
		{"id": "rpt_sales", "label": "rpt_sales", "type": "view"}
	],
	"edges": [
		{"id": "e1", "source": "customers", "target": "orders", "relationshipType": "references"},
		{"id": "e2", "source": "orders", "target": "rpt_sales", "relationshipType": "references"}
	]
}`

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateGraph(t *testing.T) {
	srv := newTestServer(t)
	resp := createTestGraph(t, srv, sampleGraphBody)

	assert.NotEmpty(t, resp.ID)
	assert.NotEmpty(t, resp.GraphHash)
	assert.Equal(t, 3, resp.NodeCount)
	assert.Equal(t, 2, resp.EdgeCount)
	assert.Zero(t, resp.InferredCount)
	assert.Empty(t, resp.Warnings)
}

func TestCreateGraphReportsWarnings(t *testing.T) {
	srv := newTestServer(t)
	body := `{
		"nodes": [{"id": "a"}],
		"edges": [{"id": "e1", "source": "a", "target": "ghost"}]
	}`
	resp := createTestGraph(t, srv, body)

	assert.Equal(t, 1, resp.NodeCount)
	assert.Zero(t, resp.EdgeCount)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "dangling-edge", resp.Warnings[0].Code)
}

func TestCreateGraphMalformedBody(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/graphs", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_PAYLOAD")
}

func TestCreateGraphDuplicateNodeID(t *testing.T) {
	srv := newTestServer(t)
	body := `{"nodes": [{"id": "a"}, {"id": "a"}], "edges": []}`
	req := httptest.NewRequest(http.MethodPost, "/v1/graphs", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_PAYLOAD")
}

func TestCreateGraphWithInference(t *testing.T) {
	srv := newTestServer(t)
	body := `{
		"nodes": [
			{"id": "customers", "label": "customers", "type": "table"},
			{"id": "customers.id", "label": "id", "type": "column", "metadata": {"isPrimaryKey": true}},
			{"id": "invoices", "label": "invoices", "type": "table"},
			{"id": "invoices.customer_id", "label": "customer_id", "type": "column"}
		],
		"edges": [
			{"id": "c1", "source": "customers", "target": "customers.id", "relationshipType": "contains"},
			{"id": "c2", "source": "invoices", "target": "invoices.customer_id", "relationshipType": "contains"}
		],
		"infer": true
	}`
	resp := createTestGraph(t, srv, body)

	assert.Equal(t, 4, resp.NodeCount)
	assert.GreaterOrEqual(t, resp.InferredCount, 1)
	assert.Equal(t, 2+resp.InferredCount, resp.EdgeCount)
}

func TestGetGraph(t *testing.T) {
	srv := newTestServer(t)
	created := createTestGraph(t, srv, sampleGraphBody)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/graphs/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp graphResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, created, resp)
}

func TestGetGraphNotFound(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/graphs/unknown", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "GRAPH_NOT_FOUND")
}

func TestPaths(t *testing.T) {
	srv := newTestServer(t)
	created := createTestGraph(t, srv, sampleGraphBody)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/graphs/"+created.ID+"/paths?node=rpt_sales&mode=upstream", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp pathResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "rpt_sales", resp.Node)
	assert.Equal(t, "upstream", resp.Mode)
	assert.ElementsMatch(t, []string{"customers", "orders", "rpt_sales"}, resp.Nodes)
	assert.ElementsMatch(t, []string{"e1", "e2"}, resp.Edges)
	assert.Equal(t, 2, resp.Depth)
}

func TestPathsUnknownNode(t *testing.T) {
	srv := newTestServer(t)
	created := createTestGraph(t, srv, sampleGraphBody)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/graphs/"+created.ID+"/paths?node=ghost", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NODE_NOT_FOUND")
}

func TestPathsMissingNode(t *testing.T) {
	srv := newTestServer(t)
	created := createTestGraph(t, srv, sampleGraphBody)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/graphs/"+created.ID+"/paths", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_NODE_ID")
}

func TestPathsInvalidMode(t *testing.T) {
	srv := newTestServer(t)
	created := createTestGraph(t, srv, sampleGraphBody)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/graphs/"+created.ID+"/paths?node=orders&mode=sideways", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_MODE")
}

func TestLayout(t *testing.T) {
	srv := newTestServer(t)
	created := createTestGraph(t, srv, sampleGraphBody)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/graphs/"+created.ID+"/layout?direction=LR&spacing=100", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		GraphHash string `json:"graphHash"`
		Cached    bool   `json:"cached"`
		Layout    struct {
			Layers    map[string]int            `json:"layers"`
			Positions map[string]map[string]any `json:"positions"`
			Crossings int                       `json:"crossings"`
		} `json:"layout"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, created.GraphHash, resp.GraphHash)
	assert.Len(t, resp.Layout.Positions, 3)
	assert.Equal(t, 0, resp.Layout.Layers["customers"])
	assert.Equal(t, 2, resp.Layout.Layers["rpt_sales"])
}

func TestLayoutInvalidDirection(t *testing.T) {
	srv := newTestServer(t)
	created := createTestGraph(t, srv, sampleGraphBody)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/graphs/"+created.ID+"/layout?direction=RL", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_DIRECTION")
}

func TestExport(t *testing.T) {
	srv := newTestServer(t)
	created := createTestGraph(t, srv, sampleGraphBody)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/graphs/"+created.ID+"/export?node=orders&mode=impact", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Nodes []struct {
			ID         string `json:"id"`
			IsImpacted bool   `json:"isImpacted"`
		} `json:"nodes"`
		Edges []json.RawMessage `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Nodes, 3)
	require.Len(t, resp.Edges, 2)

	impacted := map[string]bool{}
	for _, n := range resp.Nodes {
		impacted[n.ID] = n.IsImpacted
	}
	assert.True(t, impacted["orders"])
	assert.True(t, impacted["rpt_sales"])
	assert.False(t, impacted["customers"])
}

func TestDeleteGraph(t *testing.T) {
	srv := newTestServer(t)
	created := createTestGraph(t, srv, sampleGraphBody)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/graphs/"+created.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/graphs/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Deleting again is still a 204
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/graphs/"+created.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
