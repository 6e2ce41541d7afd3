package server

import (
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/xdsm/pkg/errors"
	"github.com/matzehuels/xdsm/pkg/io"
	"github.com/matzehuels/xdsm/pkg/observability"
	"github.com/matzehuels/xdsm/pkg/pipeline"
	"github.com/matzehuels/xdsm/pkg/store"
)

// =============================================================================
// Request and response bodies
// =============================================================================

// RenderRequest is the body of POST /v1/render.
type RenderRequest struct {
	Definition *io.Definition   `json:"definition"`
	Options    pipeline.Options `json:"options"`
}

// RenderResponse is the body returned by POST /v1/render.
// Binary artifacts (png) are base64 encoded; text artifacts are returned as is.
type RenderResponse struct {
	Hash       string            `json:"hash"`
	Artifacts  map[string]string `json:"artifacts"`
	GridSize   int               `json:"grid_size"`
	Collisions []CollisionJSON   `json:"collisions,omitempty"`
	Cached     bool              `json:"cached"`
}

// CollisionJSON reports a grid cell that held two connections.
type CollisionJSON struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Replaced string `json:"replaced"`
	By       string `json:"by"`
}

// CreateRequest is the body of POST /v1/diagrams.
type CreateRequest struct {
	Name       string         `json:"name"`
	Definition *io.Definition `json:"definition"`
}

// DiagramResponse describes a stored diagram.
type DiagramResponse struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Hash       string         `json:"hash"`
	Definition *io.Definition `json:"definition,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// contentTypes maps artifact formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatTikZ: "text/x-tex; charset=utf-8",
	pipeline.FormatTeX:  "text/x-tex; charset=utf-8",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Definition == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "definition is required"))
		return
	}

	// Output options are not part of the JSON form, so nothing is written to
	// the server's disk.
	res, err := s.runner.Execute(r.Context(), req.Definition, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := RenderResponse{
		Hash:      res.DiagramHash,
		Artifacts: make(map[string]string, len(res.Artifacts)),
		GridSize:  res.Stats.GridSize,
		Cached:    res.CacheInfo.RenderHit,
	}
	for format, data := range res.Artifacts {
		if format == pipeline.FormatPNG {
			resp.Artifacts[format] = base64.StdEncoding.EncodeToString(data)
		} else {
			resp.Artifacts[format] = string(data)
		}
	}
	for _, c := range res.Collisions {
		resp.Collisions = append(resp.Collisions, CollisionJSON{Row: c.Row, Col: c.Col, Replaced: c.Replaced, By: c.By})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Definition == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "definition is required"))
		return
	}
	if _, err := io.ToDiagram(req.Definition); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := store.New(req.Name, req.Definition)
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("stored diagram", "id", rec.ID, "name", rec.Name)

	resp, err := diagramResponse(rec, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/diagrams/"+rec.ID)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]DiagramResponse, 0, len(recs))
	for _, rec := range recs {
		resp, err := diagramResponse(rec, false)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := diagramResponse(rec, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("deleted diagram", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderStored(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Formats:   []string{format},
		Detailed:  q.Get("detailed") == "true",
		Processes: q.Get("processes") == "true",
	}
	res, err := s.runner.Execute(r.Context(), rec.Definition, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("ETag", `"`+res.DiagramHash+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

func diagramResponse(rec *store.Diagram, withDefinition bool) (DiagramResponse, error) {
	hash, err := pipeline.DiagramHash(rec.Definition)
	if err != nil {
		return DiagramResponse{}, err
	}
	resp := DiagramResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		Hash:      hash,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if withDefinition {
		resp.Definition = rec.Definition
	}
	return resp, nil
}

// decode reads a JSON body into v, rejecting unknown fields. It writes the
// error response and returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", MaxRequestBodyBytes))
		} else {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		}
		return false
	}
	return true
}

// StatusCode maps an error to an HTTP status code.
func StatusCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidPath,
		errors.ErrCodeInvalidName:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidDefinition,
		errors.ErrCodeSelfConnection,
		errors.ErrCodeUnknownReference,
		errors.ErrCodeUnknownComponent,
		errors.ErrCodeUnknownOption:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported, errors.ErrCodeTypesetUnavailable:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
