package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Razepriv/scrapperpro-fr/internal/export"
)

// requireStore guards the endpoints that need a database.
func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "No database configured")
		return false
	}
	return true
}

// limitParam reads an optional ?limit= query parameter.
func limitParam(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	records, err := s.store.ListProperties(r.Context(), limitParam(r))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid property ID")
		return
	}

	record, err := s.store.GetProperty(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, "Property not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid property ID")
		return
	}

	existing, err := s.store.GetProperty(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if existing == nil {
		s.errorResponse(w, http.StatusNotFound, "Property not found")
		return
	}

	record := *existing
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// Identity and provenance are immutable; images keep their invariant.
	record.ID = id
	record.OriginURL = existing.OriginURL
	record.OriginalTitle = existing.OriginalTitle
	record.OriginalDescription = existing.OriginalDescription
	record.CreatedAt = existing.CreatedAt
	if len(record.ImageURLs) == 0 {
		record.ImageURLs = existing.ImageURLs
	}
	record.ImageURL = record.ImageURLs[0]

	if err := s.store.UpdateProperty(r.Context(), record); err != nil {
		if strings.Contains(err.Error(), "not found") {
			s.errorResponse(w, http.StatusNotFound, "Property not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid property ID")
		return
	}

	if err := s.store.DeleteProperty(r.Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			s.errorResponse(w, http.StatusNotFound, "Property not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	entries, err := s.store.ListHistory(r.Context(), limitParam(r))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.store.ListProperties(r.Context(), limitParam(r))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	data, err := export.Export(records, format)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Export error: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(time.Now())))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		// Response already started; nothing to recover.
		return
	}
}
