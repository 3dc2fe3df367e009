package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/importchain/pkg/buildinfo"
	"github.com/matzehuels/importchain/pkg/chains"
	"github.com/matzehuels/importchain/pkg/contract"
	apperrors "github.com/matzehuels/importchain/pkg/errors"
	"github.com/matzehuels/importchain/pkg/importgraph"
	gio "github.com/matzehuels/importchain/pkg/io"
	"github.com/matzehuels/importchain/pkg/store"
)

// ChainsRequest is the body of POST /graphs/{id}/chains.
type ChainsRequest struct {
	Importer   string `json:"importer"`
	Imported   string `json:"imported"`
	AsPackages bool   `json:"as_packages"`
	MaxDepth   int    `json:"max_depth,omitempty"`
}

// ChainsResponse is the result of a chain search. Length is the number of
// modules per chain, 0 when none exist.
type ChainsResponse struct {
	Chains *chains.Set `json:"chains"`
	Length int         `json:"length"`
	Cached bool        `json:"cached"`
}

// SnapshotInfo summarizes a stored graph.
type SnapshotInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	GraphHash string `json:"graph_hash"`
	Modules   int    `json:"modules"`
	Imports   int    `json:"imports"`
}

type errorResponse struct {
	Error     string         `json:"error"`
	Code      apperrors.Code `json:"code,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	g, err := gio.ReadJSON(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap := store.NewSnapshot(r.URL.Query().Get("name"), g)
	saved, err := s.store.Save(r.Context(), snap)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusCreated
	if saved.ID != snap.ID {
		status = http.StatusOK
	}
	s.writeJSON(w, r, status, info(saved))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("full") != "" {
		s.writeJSON(w, r, http.StatusOK, snap)
		return
	}
	s.writeJSON(w, r, http.StatusOK, info(snap))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChains(w http.ResponseWriter, r *http.Request) {
	var req ChainsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if err := apperrors.ValidateEndpoints(req.Importer, req.Imported); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.MaxDepth < 0 {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "max_depth must not be negative"))
		return
	}

	snap, g, err := s.loadGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	finder := chains.NewCachedFinder(g, snap.GraphHash, s.cache, s.logger)
	finder.Keyer = s.keyer
	set, hit, err := finder.Find(r.Context(), req.Importer, req.Imported, chains.Options{
		AsPackages: req.AsPackages,
		MaxDepth:   req.MaxDepth,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, ChainsResponse{Chains: set, Length: set.Length(), Cached: hit})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	cfg, err := contract.Parse(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, g, err := s.loadGraph(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	checker := &contract.Checker{Workers: s.workers, Logger: s.logger}
	report, err := checker.Check(r.Context(), g, cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report.GraphHash = snap.GraphHash
	s.writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) loadGraph(r *http.Request) (*store.Snapshot, *importgraph.Graph, error) {
	snap, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, nil, err
	}
	g, err := snap.Graph()
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "snapshot %s", snap.ID)
	}
	return snap, g, nil
}

func info(s *store.Snapshot) SnapshotInfo {
	return SnapshotInfo{
		ID:        s.ID,
		Name:      s.Name,
		GraphHash: s.GraphHash,
		Modules:   len(s.Modules),
		Imports:   len(s.Imports),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "id", RequestID(r.Context()), "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
	}
	s.writeJSON(w, r, status, errorResponse{
		Error:     apperrors.UserMessage(err),
		Code:      apperrors.GetCode(err),
		RequestID: RequestID(r.Context()),
	})
}

// statusFor maps errors to HTTP status codes.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	}
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidGraph,
		apperrors.ErrCodeInvalidContract, apperrors.ErrCodeInvalidModule,
		apperrors.ErrCodeUnknownModule:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
