package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/erdlayout/pkg/buildinfo"
	"github.com/matzehuels/erdlayout/pkg/cache"
	"github.com/matzehuels/erdlayout/pkg/errors"
	"github.com/matzehuels/erdlayout/pkg/graph"
	"github.com/matzehuels/erdlayout/pkg/observability"
	"github.com/matzehuels/erdlayout/pkg/pipeline"
	"github.com/matzehuels/erdlayout/pkg/render"
)

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// handleLayout lays out the posted diagram and stores the result under a
// new ID.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, source, err := s.readRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	d, err := s.runner.Parse(r.Context(), source, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	l, err := s.runner.ComputeLayout(r.Context(), d, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	l.ID = uuid.NewString()
	data, err := graph.MarshalLayout(l)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.runner.Cache.Set(r.Context(), s.runner.Keyer.LayoutIDKey(l.ID), data, cache.LayoutTTL); err != nil {
		s.logger.Warn("store layout", "id", l.ID, "error", err)
	}

	w.Header().Set("Location", "/v1/layouts/"+l.ID)
	writeRaw(w, http.StatusCreated, "application/json", data)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	data, err := s.storedLayout(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, "application/json", data)
}

func (s *Server) handleRenderStored(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := render.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{format}

	data, err := s.storedLayout(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeArtifact(w, r, l, format, opts)
}

// handleRender lays out and renders the posted diagram in one call.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := render.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	opts, source, err := s.readRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{format}

	d, err := s.runner.Parse(r.Context(), source, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	l, err := s.runner.ComputeLayout(r.Context(), d, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeArtifact(w, r, l, format, opts)
}

func (s *Server) writeArtifact(w http.ResponseWriter, r *http.Request, l graph.Layout, format string, opts pipeline.Options) {
	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), l, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	data, ok := artifacts[format]
	if !ok {
		s.fail(w, r, errors.New(errors.ErrCodeInternal, "no artifact rendered for %s", format))
		return
	}
	writeRaw(w, http.StatusOK, render.ContentType(strings.ToLower(format)), data)
}

func (s *Server) storedLayout(r *http.Request) ([]byte, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "layout %q not found", id)
	}
	data, hit, err := s.runner.Cache.Get(r.Context(), s.runner.Keyer.LayoutIDKey(id))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read layout %s", id)
	}
	if !hit {
		return nil, errors.New(errors.ErrCodeNotFound, "layout %q not found", id)
	}
	return data, nil
}

// readRequest reads the diagram body and the query options.
func (s *Server) readRequest(w http.ResponseWriter, r *http.Request) (pipeline.Options, []byte, error) {
	opts, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		return opts, nil, err
	}
	if opts.InputFormat == "" {
		opts.InputFormat = inputFormat(r.Header.Get("Content-Type"))
	}
	opts.Source = "request"

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return opts, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if len(body) == 0 {
		return opts, nil, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}
	return opts, body, nil
}

func inputFormat(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return graph.FormatJSON
	}
	switch mt {
	case "application/toml", "text/toml", "text/x-toml":
		return graph.FormatTOML
	default:
		return graph.FormatJSON
	}
}

// optionsFromQuery maps query parameters onto pipeline options.
func optionsFromQuery(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	var err error

	opts.InputFormat = q.Get("input")
	opts.Style = q.Get("style")
	if opts.HorizontalGap, err = floatParam(q, "hgap"); err != nil {
		return opts, err
	}
	if opts.VerticalGap, err = floatParam(q, "vgap"); err != nil {
		return opts, err
	}
	if opts.Scale, err = floatParam(q, "scale"); err != nil {
		return opts, err
	}
	if v := q.Get("iterations"); v != "" {
		if opts.OrderingIterations, err = strconv.Atoi(v); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid iterations %q", v)
		}
	}
	for name, dst := range map[string]*bool{
		"detailed":    &opts.Detailed,
		"edge_labels": &opts.EdgeLabels,
		"interactive": &opts.Interactive,
		"refresh":     &opts.Refresh,
	} {
		if *dst, err = boolParam(q, name); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func floatParam(q url.Values, name string) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", name, v)
	}
	return f, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", name, v)
	}
	return b, nil
}

// fail writes err as a JSON error and reports it to the HTTP hooks.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)

	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, "application/json", data)
}

func writeRaw(w http.ResponseWriter, status int, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
