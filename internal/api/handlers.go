package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/datamaplabs/lineagraph/pkg/errors"
	"github.com/datamaplabs/lineagraph/pkg/graphio"
	"github.com/datamaplabs/lineagraph/pkg/pipeline"
)

// createGraphRequest is the POST /v1/graphs body: a graph payload plus
// build options.
type createGraphRequest struct {
	Nodes []graphio.PayloadNode `json:"nodes"`
	Edges []graphio.PayloadEdge `json:"edges"`
	Infer bool                  `json:"infer,omitempty"`
}

type warningJSON struct {
	Code    string `json:"code"`
	EdgeID  string `json:"edgeId,omitempty"`
	Message string `json:"message"`
}

// graphResponse summarizes a stored session.
type graphResponse struct {
	ID            string        `json:"id"`
	GraphHash     string        `json:"graphHash"`
	NodeCount     int           `json:"nodeCount"`
	EdgeCount     int           `json:"edgeCount"`
	InferredCount int           `json:"inferredCount"`
	Warnings      []warningJSON `json:"warnings,omitempty"`
}

type pathResponse struct {
	Node   string   `json:"node"`
	Mode   string   `json:"mode"`
	Nodes  []string `json:"nodes"`
	Edges  []string `json:"edges"`
	Depth  int      `json:"depth"`
	Cached bool     `json:"cached"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	var req createGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, apperrors.Wrap(apperrors.ErrCodeInvalidPayload, err, "malformed request body"))
		return
	}

	payload := graphio.Payload{Nodes: req.Nodes, Edges: req.Edges}
	g, report, inferred, err := s.runner.Build(r.Context(), payload, pipeline.Options{Infer: req.Infer})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	sess := s.sessions.Put(&Session{
		Graph:     g,
		Report:    report,
		Inferred:  inferred,
		GraphHash: pipeline.GraphHash(g),
	})

	s.logger.Info("graph session created",
		"id", sess.ID,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"inferred", len(inferred))

	writeJSON(w, http.StatusCreated, sessionResponse(sess))
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sess))
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	node := r.URL.Query().Get("node")
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = pipeline.DefaultMode
	}
	refresh := r.URL.Query().Get("refresh") == "true"

	path, hit, err := s.runner.AnalyzeWithCacheInfo(r.Context(), sess.Graph, sess.GraphHash, node, mode, refresh)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, pathResponse{
		Node:   node,
		Mode:   mode,
		Nodes:  path.NodeIDs(),
		Edges:  sortedKeys(path.Edges),
		Depth:  path.Depth,
		Cached: hit,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	opts, err := s.layoutOptions(r, sess)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	res, hit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), sess.Graph, sess.GraphHash, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		GraphHash string `json:"graphHash"`
		Cached    bool   `json:"cached"`
		Layout    any    `json:"layout"`
	}{sess.GraphHash, hit, res})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	opts, err := s.layoutOptions(r, sess)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	res, _, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), sess.Graph, sess.GraphHash, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	var ann graphio.Annotations
	if node := r.URL.Query().Get("node"); node != "" {
		mode := r.URL.Query().Get("mode")
		if mode == "" {
			mode = pipeline.DefaultMode
		}
		path, _, err := s.runner.AnalyzeWithCacheInfo(r.Context(), sess.Graph, sess.GraphHash, node, mode, false)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		if mode == pipeline.ModeImpact {
			ann.Impact = &path
		} else {
			ann.Highlight = &path
		}
	}

	export := graphio.BuildExport(sess.Graph, res, ann)
	writeJSON(w, http.StatusOK, export)
}

// session resolves the {id} URL parameter, writing a 404 on failure.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, s.logger, apperrors.New(apperrors.ErrCodeGraphNotFound, "graph session %q not found", id))
		return nil, false
	}
	return sess, true
}

// layoutOptions builds pipeline options from query parameters, falling back
// to the configured layout defaults.
func (s *Server) layoutOptions(r *http.Request, sess *Session) (pipeline.Options, error) {
	q := r.URL.Query()

	opts := pipeline.Options{
		Direction:   s.defaults.Direction,
		NodeSpacing: s.defaults.NodeSpacing,
		Infer:       len(sess.Inferred) > 0,
		Refresh:     q.Get("refresh") == "true",
	}
	if v := q.Get("direction"); v != "" {
		opts.Direction = v
	}
	if v := q.Get("spacing"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return pipeline.Options{}, apperrors.New(apperrors.ErrCodeInvalidSpacing, "spacing must be a number, got %q", v)
		}
		opts.NodeSpacing = parsed
	}
	if v := q.Get("rank_separation"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return pipeline.Options{}, apperrors.New(apperrors.ErrCodeInvalidSpacing, "rank_separation must be a number, got %q", v)
		}
		opts.RankSeparation = parsed
	}
	if err := opts.ValidateForLayout(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func sessionResponse(sess *Session) graphResponse {
	resp := graphResponse{
		ID:            sess.ID,
		GraphHash:     sess.GraphHash,
		NodeCount:     sess.Graph.NodeCount(),
		EdgeCount:     sess.Graph.EdgeCount(),
		InferredCount: len(sess.Inferred),
	}
	for _, warn := range sess.Report.Warnings {
		resp.Warnings = append(resp.Warnings, warningJSON{
			Code:    warn.Code,
			EdgeID:  warn.EdgeID,
			Message: warn.Message,
		})
	}
	return resp
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
