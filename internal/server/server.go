// Package server provides the HTTP REST API for the property scraper.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Razepriv/scrapperpro-fr/internal/types"
)

// Scraper runs scrape jobs. Implemented by pipeline.Orchestrator.
type Scraper interface {
	ScrapeFromURL(ctx context.Context, url string) ([]types.Property, error)
	ScrapeFromHTML(ctx context.Context, html, originURL string) ([]types.Property, error)
	ScrapeBulk(ctx context.Context, urlListText string) (*types.BulkResult, error)
}

// PropertyStore reads and edits persisted records and history. Implemented by
// store.DB. A nil store disables the persistence endpoints.
type PropertyStore interface {
	ListProperties(ctx context.Context, limit int) ([]types.Property, error)
	GetProperty(ctx context.Context, id uuid.UUID) (*types.Property, error)
	UpdateProperty(ctx context.Context, record types.Property) error
	DeleteProperty(ctx context.Context, id uuid.UUID) error
	ListHistory(ctx context.Context, limit int) ([]types.HistoryEntry, error)
}

// Config holds server configuration
type Config struct {
	Addr string
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	scraper    Scraper
	store      PropertyStore
	validator  *validator.Validate
	uploadsDir string
}

// New creates a new server instance. store may be nil when no database is
// configured; the endpoints that need it return 503. uploadsDir, when
// non-empty, is served under /uploads/ so materialized image references
// resolve.
func New(cfg Config, scraper Scraper, store PropertyStore, uploadsDir string) *Server {
	s := &Server{
		scraper:    scraper,
		store:      store,
		validator:  validator.New(),
		uploadsDir: uploadsDir,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for scrape jobs
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// routes builds the request router.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Scrape endpoints
	mux.HandleFunc("POST /scrape/url", s.handleScrapeURL)
	mux.HandleFunc("POST /scrape/html", s.handleScrapeHTML)
	mux.HandleFunc("POST /scrape/bulk", s.handleScrapeBulk)

	// Property CRUD endpoints
	mux.HandleFunc("GET /properties", s.handleListProperties)
	mux.HandleFunc("GET /properties/{id}", s.handleGetProperty)
	mux.HandleFunc("PUT /properties/{id}", s.handleUpdateProperty)
	mux.HandleFunc("DELETE /properties/{id}", s.handleDeleteProperty)

	// History and export endpoints
	mux.HandleFunc("GET /history", s.handleListHistory)
	mux.HandleFunc("GET /export/{format}", s.handleExport)

	mux.HandleFunc("GET /health", s.handleHealth)

	if s.uploadsDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploadsDir))))
	}

	return mux
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
