package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Razepriv/scrapperpro-fr/internal/fetch"
	"github.com/Razepriv/scrapperpro-fr/internal/pipeline"
	"github.com/Razepriv/scrapperpro-fr/internal/types"
)

// stubScraper returns canned responses.
type stubScraper struct {
	records    []types.Property
	bulkResult *types.BulkResult
	err        error

	gotURL    string
	gotHTML   string
	gotOrigin string
}

func (s *stubScraper) ScrapeFromURL(_ context.Context, url string) ([]types.Property, error) {
	s.gotURL = url
	return s.records, s.err
}

func (s *stubScraper) ScrapeFromHTML(_ context.Context, html, originURL string) ([]types.Property, error) {
	s.gotHTML = html
	s.gotOrigin = originURL
	return s.records, s.err
}

func (s *stubScraper) ScrapeBulk(_ context.Context, _ string) (*types.BulkResult, error) {
	return s.bulkResult, s.err
}

// stubStore holds records in a map.
type stubStore struct {
	records map[uuid.UUID]types.Property
	history []types.HistoryEntry
	err     error
}

func newStubStore(records ...types.Property) *stubStore {
	s := &stubStore{records: map[uuid.UUID]types.Property{}}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return s
}

func (s *stubStore) ListProperties(_ context.Context, _ int) ([]types.Property, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []types.Property
	for _, r := range s.records {
		out = append(out, r)
	}
	return out, nil
}

func (s *stubStore) GetProperty(_ context.Context, id uuid.UUID) (*types.Property, error) {
	if s.err != nil {
		return nil, s.err
	}
	r, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *stubStore) UpdateProperty(_ context.Context, record types.Property) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.records[record.ID]; !ok {
		return errors.New("record not found: " + record.ID.String())
	}
	s.records[record.ID] = record
	return nil
}

func (s *stubStore) DeleteProperty(_ context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.records[id]; !ok {
		return errors.New("record not found: " + id.String())
	}
	delete(s.records, id)
	return nil
}

func (s *stubStore) ListHistory(_ context.Context, _ int) ([]types.HistoryEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.history, nil
}

func newTestServer(scraper Scraper, store PropertyStore) *Server {
	return New(Config{Addr: ":0"}, scraper, store, "")
}

func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	return rec
}

func sampleProperty() types.Property {
	return types.Property{
		ID: uuid.New(),
		PropertyDraft: types.PropertyDraft{
			Title:       "Two-bedroom apartment",
			Description: "Near the marina.",
		},
		OriginURL:           "https://example.com/listing/1",
		OriginalTitle:       "2BR",
		OriginalDescription: "marina",
		ImageURL:            "/uploads/a/1.jpg",
		ImageURLs:           []string{"/uploads/a/1.jpg"},
		CreatedAt:           time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&stubScraper{}, nil)
	rec := doRequest(s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleScrapeURL(t *testing.T) {
	scraper := &stubScraper{records: []types.Property{sampleProperty()}}
	s := newTestServer(scraper, nil)

	rec := doRequest(s, http.MethodPost, "/scrape/url", ScrapeURLRequest{URL: "https://example.com/listing/1"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://example.com/listing/1", scraper.gotURL)

	var resp map[string][]types.Property
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp["records"], 1)
}

func TestHandleScrapeURLRejectsBadInput(t *testing.T) {
	s := newTestServer(&stubScraper{}, nil)

	rec := doRequest(s, http.MethodPost, "/scrape/url", map[string]string{"url": "not-a-url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(s, http.MethodPost, "/scrape/url", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/scrape/url", bytes.NewBufferString("{not json"))
	recorder := httptest.NewRecorder()
	s.routes().ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleScrapeURLMapsPipelineErrors(t *testing.T) {
	s := newTestServer(&stubScraper{err: &pipeline.ValidationError{Field: "url", Message: "bad"}}, nil)
	rec := doRequest(s, http.MethodPost, "/scrape/url", ScrapeURLRequest{URL: "https://example.com/x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s = newTestServer(&stubScraper{err: &fetch.Error{URL: "https://example.com/x", StatusCode: 404, Message: "not found"}}, nil)
	rec = doRequest(s, http.MethodPost, "/scrape/url", ScrapeURLRequest{URL: "https://example.com/x"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	s = newTestServer(&stubScraper{err: errors.New("boom")}, nil)
	rec = doRequest(s, http.MethodPost, "/scrape/url", ScrapeURLRequest{URL: "https://example.com/x"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleScrapeHTML(t *testing.T) {
	scraper := &stubScraper{records: []types.Property{sampleProperty()}}
	s := newTestServer(scraper, nil)

	rec := doRequest(s, http.MethodPost, "/scrape/html", ScrapeHTMLRequest{
		HTML:      "<html><body>listing content</body></html>",
		OriginURL: "https://example.com/listing/1",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://example.com/listing/1", scraper.gotOrigin)
	assert.Contains(t, scraper.gotHTML, "listing content")
}

func TestHandleScrapeHTMLRequiresHTML(t *testing.T) {
	s := newTestServer(&stubScraper{}, nil)
	rec := doRequest(s, http.MethodPost, "/scrape/html", map[string]string{"origin_url": "https://example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleScrapeBulk(t *testing.T) {
	scraper := &stubScraper{bulkResult: &types.BulkResult{
		Records: []types.Property{sampleProperty()},
		Errors:  []types.BulkError{{URL: "https://bad.example", Error: "fetch failed"}},
	}}
	s := newTestServer(scraper, nil)

	rec := doRequest(s, http.MethodPost, "/scrape/bulk", ScrapeBulkRequest{URLs: "https://a.example\nhttps://bad.example"})

	assert.Equal(t, http.StatusOK, rec.Code)
	var result types.BulkResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.Records, 1)
	assert.Len(t, result.Errors, 1)
}

func TestStoreEndpointsWithoutDatabase(t *testing.T) {
	s := newTestServer(&stubScraper{}, nil)

	for _, path := range []string{"/properties", "/history", "/export/json"} {
		rec := doRequest(s, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "path %s", path)
	}
}

func TestHandleGetProperty(t *testing.T) {
	record := sampleProperty()
	s := newTestServer(&stubScraper{}, newStubStore(record))

	rec := doRequest(s, http.MethodGet, "/properties/"+record.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got types.Property
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, record.ID, got.ID)

	rec = doRequest(s, http.MethodGet, "/properties/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(s, http.MethodGet, "/properties/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpdatePropertyPreservesProvenance(t *testing.T) {
	record := sampleProperty()
	store := newStubStore(record)
	s := newTestServer(&stubScraper{}, store)

	rec := doRequest(s, http.MethodPut, "/properties/"+record.ID.String(), map[string]string{
		"title":          "Edited title",
		"original_title": "tampered",
		"origin_url":     "https://tampered.example",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	updated := store.records[record.ID]
	assert.Equal(t, "Edited title", updated.Title)
	assert.Equal(t, record.OriginalTitle, updated.OriginalTitle)
	assert.Equal(t, record.OriginURL, updated.OriginURL)
	assert.Equal(t, record.ImageURLs, updated.ImageURLs)
	assert.Equal(t, updated.ImageURLs[0], updated.ImageURL)
}

func TestHandleDeleteProperty(t *testing.T) {
	record := sampleProperty()
	store := newStubStore(record)
	s := newTestServer(&stubScraper{}, store)

	rec := doRequest(s, http.MethodDelete, "/properties/"+record.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.records)

	rec = doRequest(s, http.MethodDelete, "/properties/"+record.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListHistory(t *testing.T) {
	store := newStubStore()
	store.history = []types.HistoryEntry{{ID: uuid.New(), JobKind: types.JobKindURL, PropertyCount: 3}}
	s := newTestServer(&stubScraper{}, store)

	rec := doRequest(s, http.MethodGet, "/history", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]types.HistoryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp["entries"], 1)
	assert.Equal(t, 3, resp["entries"][0].PropertyCount)
}

func TestHandleExport(t *testing.T) {
	s := newTestServer(&stubScraper{}, newStubStore(sampleProperty()))

	rec := doRequest(s, http.MethodGet, "/export/csv", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "Two-bedroom apartment")

	rec = doRequest(s, http.MethodGet, "/export/json", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = doRequest(s, http.MethodGet, "/export/xml", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
