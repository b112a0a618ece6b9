package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Razepriv/scrapperpro-fr/internal/fetch"
	"github.com/Razepriv/scrapperpro-fr/internal/pipeline"
)

type ScrapeURLRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type ScrapeHTMLRequest struct {
	HTML      string `json:"html" validate:"required"`
	OriginURL string `json:"origin_url" validate:"omitempty,url"`
}

type ScrapeBulkRequest struct {
	URLs string `json:"urls" validate:"required"`
}

func (s *Server) handleScrapeURL(w http.ResponseWriter, r *http.Request) {
	var req ScrapeURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	records, err := s.scraper.ScrapeFromURL(r.Context(), req.URL)
	if err != nil {
		s.scrapeErrorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleScrapeHTML(w http.ResponseWriter, r *http.Request) {
	var req ScrapeHTMLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	records, err := s.scraper.ScrapeFromHTML(r.Context(), req.HTML, req.OriginURL)
	if err != nil {
		s.scrapeErrorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleScrapeBulk(w http.ResponseWriter, r *http.Request) {
	var req ScrapeBulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result, err := s.scraper.ScrapeBulk(r.Context(), req.URLs)
	if err != nil {
		s.scrapeErrorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// scrapeErrorResponse maps pipeline errors to HTTP status codes: bad input is
// the caller's fault, an unreachable upstream page is a gateway problem.
func (s *Server) scrapeErrorResponse(w http.ResponseWriter, err error) {
	var valErr *pipeline.ValidationError
	if errors.As(err, &valErr) {
		s.errorResponse(w, http.StatusBadRequest, valErr.Error())
		return
	}
	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) {
		s.errorResponse(w, http.StatusBadGateway, fetchErr.Error())
		return
	}
	s.errorResponse(w, http.StatusInternalServerError, err.Error())
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
