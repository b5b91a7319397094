package api

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/molcanon/pkg/buildinfo"
	"github.com/matzehuels/molcanon/pkg/errors"
	"github.com/matzehuels/molcanon/pkg/pipeline"
	"github.com/matzehuels/molcanon/pkg/registry"
)

// CanonicalizeRequest is the JSON form of a canonicalization request. A
// request may also send the molfile as the raw body with options in the
// query string (?root=0&priorities=lt,gt,eq&permute_seed=7&name=x).
type CanonicalizeRequest struct {
	Name        string   `json:"name,omitempty"`
	Molfile     string   `json:"molfile"`
	Root        *int     `json:"root,omitempty"`
	Priorities  []string `json:"priorities,omitempty"`
	PermuteSeed *int64   `json:"permute_seed,omitempty"`
	// Source is stored with registry entries.
	Source string `json:"source,omitempty"`
}

// BatchRequest canonicalizes several molfiles with shared options.
type BatchRequest struct {
	Molecules   []CanonicalizeRequest `json:"molecules"`
	Root        *int                  `json:"root,omitempty"`
	Priorities  []string              `json:"priorities,omitempty"`
	PermuteSeed *int64                `json:"permute_seed,omitempty"`
}

// BatchResponse lists per-molecule outcomes in request order.
type BatchResponse struct {
	Results    []BatchResult    `json:"results"`
	Duplicates []pipeline.Group `json:"duplicates"`
}

// BatchResult is one entry of a BatchResponse.
type BatchResult struct {
	Name   string           `json:"name,omitempty"`
	Result *pipeline.Result `json:"result,omitempty"`
	Error  *apiError        `json:"error,omitempty"`
}

// RegisterResponse is returned by POST /v1/registry.
type RegisterResponse struct {
	Entry   registry.Entry   `json:"entry"`
	Created bool             `json:"created"`
	Result  *pipeline.Result `json:"result"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleCanonicalize(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.canonicalize(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Molecules) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "batch has no molecules"))
		return
	}
	opts, err := s.options(req.Root, req.Priorities, req.PermuteSeed)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	inputs := make([]pipeline.Input, len(req.Molecules))
	for i, m := range req.Molecules {
		inputs[i] = pipeline.Input{Name: m.Name, Molfile: []byte(m.Molfile)}
	}
	items, err := s.runner.Batch(r.Context(), inputs, opts, s.opts.Workers)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := BatchResponse{
		Results:    make([]BatchResult, len(items)),
		Duplicates: pipeline.Duplicates(items),
	}
	if resp.Duplicates == nil {
		resp.Duplicates = []pipeline.Group{}
	}
	reqID := middleware.GetReqID(r.Context())
	for i, it := range items {
		resp.Results[i] = BatchResult{Name: it.Input.Name, Result: it.Result}
		if it.Err != nil {
			e := toAPIError(it.Err, reqID)
			resp.Results[i].Error = &e
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	req, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.canonicalize(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entry, created, err := s.store.Put(r.Context(), registry.Entry{
		Key:     res.Key,
		Formula: res.Formula,
		Name:    req.Name,
		Source:  req.Source,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		s.logger.Info("registered", "key", entry.Key, "id", entry.ID)
	}
	writeJSON(w, status, RegisterResponse{Entry: entry, Created: created, Result: res})
}

func (s *Server) handleRegistryGet(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	k := r.URL.Query().Get("key")
	if k == "" {
		entries, err := s.store.List(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if entries == nil {
			entries = []registry.Entry{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
		return
	}
	entry, err := s.store.Get(r.Context(), k)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleRegistryCount(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	n, err := s.store.Count(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (s *Server) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if s.store == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "registry is disabled on this server"))
		return false
	}
	return true
}

func (s *Server) canonicalize(ctx context.Context, req CanonicalizeRequest) (*pipeline.Result, error) {
	if strings.TrimSpace(req.Molfile) == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "molfile is empty")
	}
	opts, err := s.options(req.Root, req.Priorities, req.PermuteSeed)
	if err != nil {
		return nil, err
	}
	return s.runner.Canonicalize(ctx, pipeline.Input{Name: req.Name, Molfile: []byte(req.Molfile)}, opts)
}

// options overlays request values on the server defaults.
func (s *Server) options(root *int, prio []string, seed *int64) (pipeline.Options, error) {
	opts := s.opts.Defaults
	opts.Logger = nil
	if root != nil {
		opts.Root = *root
	}
	if len(prio) > 0 {
		opts.Priorities = prio
	}
	if seed != nil {
		if err := errors.ValidateSeed(*seed); err != nil {
			return pipeline.Options{}, err
		}
		v := uint64(*seed)
		opts.PermuteSeed = &v
	}
	return opts, opts.Validate()
}

// decodeRequest accepts either a JSON CanonicalizeRequest or a raw molfile
// body with options in the query string.
func decodeRequest(w http.ResponseWriter, r *http.Request) (CanonicalizeRequest, error) {
	var req CanonicalizeRequest
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		err := decodeJSON(w, r, &req)
		return req, err
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return req, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	req.Molfile = string(body)

	q := r.URL.Query()
	req.Name = q.Get("name")
	req.Source = q.Get("source")
	if v := q.Get("root"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New(errors.ErrCodeInvalidInput, "root %q is not an integer", v)
		}
		req.Root = &n
	}
	if v := q.Get("priorities"); v != "" {
		req.Priorities = strings.Split(v, ",")
	}
	if v := q.Get("permute_seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, errors.New(errors.ErrCodeInvalidInput, "permute_seed %q is not an integer", v)
		}
		req.PermuteSeed = &n
	}
	return req, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}
