package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
)

var (
	errUnableToFetchSnapshot = errors.New("unable to fetch snapshot")
	errNoSnapshot            = errors.New("no prices resolved yet")
	errUnknownCategory       = errors.New("unknown category")
	errCategoryUnavailable   = errors.New("category unavailable in the latest snapshot")
)

func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	resp := &HealthResponse{
		Status: statusOK,
	}

	if s.health != nil {
		h := s.health()

		resp.Health = &h

		if h.Degraded {
			resp.Status = statusDegraded
		}
	}

	// Always 200, degradation is reported in the body
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) Prices(w http.ResponseWriter, r *http.Request) {
	snap, err := s.storage.LatestSnapshot(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch snapshot",
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetchSnapshot)

		return
	}

	if snap == nil {
		writeError(w, http.StatusNotFound, errNoSnapshot)

		return
	}

	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) Price(w http.ResponseWriter, r *http.Request) {
	id := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "category")))

	if _, ok := s.registry.Category(id); !ok {
		writeError(w, http.StatusNotFound, errUnknownCategory)

		return
	}

	snap, err := s.storage.LatestSnapshot(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch snapshot",
			"err", err,
		)

		writeError(w, http.StatusInternalServerError, errUnableToFetchSnapshot)

		return
	}

	if snap == nil {
		writeError(w, http.StatusNotFound, errNoSnapshot)

		return
	}

	entry, ok := snap.Prices[id]
	if !ok {
		writeError(w, http.StatusNotFound, errCategoryUnavailable)

		return
	}

	writeJSON(w, http.StatusOK, &PriceResponse{
		PriceEntry: entry,
		Category:   id,
		SnapshotID: snap.ID,
	})
}

func (s *Server) Categories(w http.ResponseWriter, _ *http.Request) {
	categories := s.registry.Categories()

	resp := &CategoriesResponse{
		Results: make([]CategoryInfo, 0, len(categories)),
	}

	for _, c := range categories {
		sources := make([]string, 0, len(c.Sources))
		for _, src := range c.Sources {
			sources = append(sources, src.Name)
		}

		resp.Results = append(resp.Results, CategoryInfo{
			Min:       c.Min,
			Max:       c.Max,
			ID:        c.ID,
			Name:      c.Name,
			Group:     c.Group.String(),
			Unit:      c.Unit.String(),
			Sources:   sources,
			Precision: c.Precision,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	_ = enc.Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
