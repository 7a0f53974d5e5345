package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	derrors "github.com/fullstackmenu/stackdocs/internal/errors"
	"github.com/fullstackmenu/stackdocs/internal/observability"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.renderer.Index(r.Context(), &buf); err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := observability.WithRoute(r.Context(), r.URL.Path)
	pm, err := s.content.PageMap(ctx)
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	var buf bytes.Buffer
	page, err := s.renderer.Page(ctx, &buf, r.URL.Path)
	if err != nil {
		if derrors.HasCategory(err, derrors.CategoryNotFound) {
			s.writeNotFound(w, r)
			return
		}
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	// The footer year is part of every document.
	etag := fmt.Sprintf(`"%s-%s-%d"`, page.Fingerprint, pm.Version, s.renderer.Year())
	w.Header().Set("ETag", etag)
	if !page.LastModified.IsZero() {
		w.Header().Set("Last-Modified", page.LastModified.UTC().Format(http.TimeFormat))
	}
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeNotFound(w, r)
}

func (s *Server) writeNotFound(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.renderer.NotFound(r.Context(), &buf, r.URL.Path); err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	writeHTML(w, http.StatusNotFound, buf.Bytes())
}

type searchResponse struct {
	Query   string `json:"query"`
	Results any    `json:"results"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	limit := defaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.errorAdapter.WriteErrorResponse(w, r, derrors.ValidationError("limit must be a positive integer").
				WithContext("limit", v).Build())
			return
		}
		limit = min(n, maxSearchLimit)
	}

	results, err := s.content.Search(r.Context(), q, limit)
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if results == nil {
		writeJSON(w, http.StatusOK, searchResponse{Query: q, Results: []struct{}{}})
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: q, Results: results})
}

func (s *Server) handleSearchIndex(w http.ResponseWriter, r *http.Request) {
	docs, err := s.content.SearchIndex(r.Context())
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
