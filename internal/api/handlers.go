package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/catalogtree/pkg/buildinfo"
	"github.com/matzehuels/catalogtree/pkg/errors"
	"github.com/matzehuels/catalogtree/pkg/glossary"
	"github.com/matzehuels/catalogtree/pkg/pipeline"
	"github.com/matzehuels/catalogtree/pkg/render"
	"github.com/matzehuels/catalogtree/pkg/tree"
)

// buildRequest is the body of POST /v1/forest.
type buildRequest struct {
	Records     []tree.Record        `json:"records"`
	IDField     string               `json:"id_field,omitempty"`
	ParentField string               `json:"parent_field,omitempty"`
	Duplicates  tree.DuplicatePolicy `json:"duplicates,omitempty"`
}

// forestResponse is returned by every JSON forest endpoint.
type forestResponse struct {
	Forest      []*tree.Node  `json:"forest"`
	Unreachable []*tree.Node  `json:"unreachable"`
	Stats       statsResponse `json:"stats"`
}

type statsResponse struct {
	Records     int             `json:"records"`
	Roots       int             `json:"roots"`
	Nodes       int             `json:"nodes"`
	Unreachable int             `json:"unreachable"`
	Depth       int             `json:"depth"`
	Cached      bool            `json:"cached"`
	Glossary    *glossary.Stats `json:"glossary,omitempty"`
}

func newForestResponse(f *tree.Forest, records int, cached bool) forestResponse {
	resp := forestResponse{
		Forest:      f.Roots,
		Unreachable: tree.Detach(f.Unreachable),
		Stats: statsResponse{
			Records:     records,
			Roots:       len(f.Roots),
			Nodes:       f.Len(),
			Unreachable: len(f.Unreachable),
			Depth:       tree.Depth(f.Roots),
			Cached:      cached,
		},
	}
	if resp.Forest == nil {
		resp.Forest = []*tree.Node{}
	}
	return resp
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Current()})
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if req.Records == nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "records is required"))
		return
	}

	opts := pipeline.Options{
		IDField:     req.IDField,
		ParentField: req.ParentField,
		Duplicates:  req.Duplicates,
	}
	f, hit, err := s.runner.BuildWithCacheInfo(r.Context(), req.Records, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newForestResponse(f, len(req.Records), hit))
}

func (s *Server) handleGlossaryTree(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = render.FormatJSON
	}
	if format == render.FormatSVG {
		s.serveGlossaryArtifact(w, r, render.FormatSVG)
		return
	}
	if err := pipeline.ValidateOutput(format); err != nil {
		writeError(w, err)
		return
	}
	if format != render.FormatJSON {
		s.serveGlossaryArtifact(w, r, format)
		return
	}

	result, err := s.executeGlossary(r, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := newForestResponse(result.Forest, result.Stats.Records, result.CacheInfo.BuildHit)
	resp.Stats.Glossary = result.Stats.Glossary
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGlossarySVG(w http.ResponseWriter, r *http.Request) {
	s.serveGlossaryArtifact(w, r, render.FormatSVG)
}

var contentTypes = map[string]string{
	render.FormatSVG:     "image/svg+xml",
	render.FormatDOT:     "text/vnd.graphviz; charset=utf-8",
	render.FormatOutline: "text/plain; charset=utf-8",
}

func (s *Server) serveGlossaryArtifact(w http.ResponseWriter, r *http.Request, format string) {
	result, err := s.executeGlossary(r, []string{format})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// executeGlossary resolves {nodeUri} to its path and runs the pipeline over
// that subtree. With no outputs only the forest is built.
func (s *Server) executeGlossary(r *http.Request, outputs []string) (*pipeline.Result, error) {
	path, err := s.runner.ResolveGlossary(r.Context(), chi.URLParam(r, "nodeUri"))
	if err != nil {
		return nil, err
	}
	if outputs == nil {
		outputs = []string{render.FormatJSON}
	}
	return s.runner.Execute(r.Context(), pipeline.Options{
		RootPath: path,
		Outputs:  outputs,
		Refresh:  r.URL.Query().Get("refresh") == "true",
	})
}
