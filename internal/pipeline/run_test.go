package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Razepriv/scrapperpro-fr/internal/fetch"
	"github.com/Razepriv/scrapperpro-fr/internal/types"
)

// stubExtractor returns a fixed set of drafts and records the HTML it saw.
type stubExtractor struct {
	mu      sync.Mutex
	drafts  []types.PropertyDraft
	gotHTML []string
}

func (s *stubExtractor) Extract(_ context.Context, html string) []types.PropertyDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gotHTML = append(s.gotHTML, html)
	return s.drafts
}

// stubEnhancer prefixes both fields, sleeping per-title so tests can stagger
// record completion order.
type stubEnhancer struct {
	delays map[string]time.Duration
}

func (s *stubEnhancer) Enhance(_ context.Context, title, description string) (string, string) {
	if d, ok := s.delays[title]; ok {
		time.Sleep(d)
	}
	return "Enhanced: " + title, "Enhanced: " + description
}

// stubImages returns one durable-looking reference per candidate, or a
// placeholder when there are none.
type stubImages struct{}

func (stubImages) Materialize(_ context.Context, recordID string, candidates []string, _, _ string) []string {
	if len(candidates) == 0 {
		return []string{"placeholder.jpg"}
	}
	refs := make([]string, len(candidates))
	for i := range candidates {
		refs[i] = fmt.Sprintf("/uploads/%s/%d.jpg", recordID, i)
	}
	return refs
}

// memoryPersistence implements RecordStore and HistoryRecorder in memory.
type memoryPersistence struct {
	mu       sync.Mutex
	saved    []types.Property
	entries  []types.HistoryEntry
	failSave bool
}

func (m *memoryPersistence) SaveProperties(_ context.Context, records []types.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("save failed")
	}
	m.saved = append(m.saved, records...)
	return nil
}

func (m *memoryPersistence) AppendHistory(_ context.Context, entry types.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func newTestOrchestrator(drafts []types.PropertyDraft, persistence *memoryPersistence) (*Orchestrator, *stubExtractor) {
	extractor := &stubExtractor{drafts: drafts}
	var records RecordStore
	var history HistoryRecorder
	if persistence != nil {
		records = persistence
		history = persistence
	}
	o := New(extractor, &stubEnhancer{}, stubImages{}, records, history, Options{})
	return o, extractor
}

func listingHTML() string {
	return "<html><body><h1>Apartment for rent</h1><p>Spacious two-bedroom with balcony near the marina, available now.</p></body></html>"
}

func TestScrapeFromURLRejectsInvalidURL(t *testing.T) {
	o, _ := newTestOrchestrator(nil, nil)

	for _, bad := range []string{"", "not-a-url", "ftp://example.com/x", "/relative/path"} {
		_, err := o.ScrapeFromURL(context.Background(), bad)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr, "url %q", bad)
		assert.Equal(t, "url", valErr.Field)
	}
}

func TestScrapeFromURLPropagatesFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	persistence := &memoryPersistence{}
	o, _ := newTestOrchestrator(nil, persistence)

	_, err := o.ScrapeFromURL(context.Background(), server.URL)
	var fetchErr *fetch.Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)

	// A job that never got past fetching leaves no trace in storage.
	assert.Empty(t, persistence.saved)
	assert.Empty(t, persistence.entries)
}

func TestScrapeFromURLProducesFinalizedRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, listingHTML())
	}))
	defer server.Close()

	drafts := []types.PropertyDraft{
		{Title: "Two-bedroom apartment", Description: "Near the marina.", ImageCandidates: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}},
		{Title: "Studio flat", Description: "City centre."},
	}
	persistence := &memoryPersistence{}
	o, extractor := newTestOrchestrator(drafts, persistence)

	records, err := o.ScrapeFromURL(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", first.ID.String())
	assert.Equal(t, server.URL, first.OriginURL)
	assert.Equal(t, "Two-bedroom apartment", first.OriginalTitle)
	assert.Equal(t, "Near the marina.", first.OriginalDescription)
	assert.Equal(t, "Enhanced: Two-bedroom apartment", first.Title)
	assert.Equal(t, "Enhanced: Near the marina.", first.Description)
	assert.Len(t, first.ImageURLs, 2)
	assert.Equal(t, first.ImageURLs[0], first.ImageURL)
	assert.Nil(t, first.ImageCandidates)
	assert.False(t, first.CreatedAt.IsZero())

	// A draft with no candidates still ends up with a non-empty image list.
	assert.Equal(t, []string{"placeholder.jpg"}, records[1].ImageURLs)
	assert.Equal(t, "placeholder.jpg", records[1].ImageURL)

	require.Len(t, extractor.gotHTML, 1)
	assert.Contains(t, extractor.gotHTML[0], "Apartment for rent")

	assert.Len(t, persistence.saved, 2)
	require.Len(t, persistence.entries, 1)
	entry := persistence.entries[0]
	assert.Equal(t, types.JobKindURL, entry.JobKind)
	assert.Equal(t, server.URL, entry.JobDetails)
	assert.Equal(t, 2, entry.PropertyCount)
}

func TestScrapeFromURLPreservesDraftOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, listingHTML())
	}))
	defer server.Close()

	drafts := []types.PropertyDraft{
		{Title: "slow", Description: "first"},
		{Title: "medium", Description: "second"},
		{Title: "fast", Description: "third"},
	}
	extractor := &stubExtractor{drafts: drafts}
	enhancer := &stubEnhancer{delays: map[string]time.Duration{
		"slow":   60 * time.Millisecond,
		"medium": 30 * time.Millisecond,
	}}
	o := New(extractor, enhancer, stubImages{}, nil, nil, Options{})

	records, err := o.ScrapeFromURL(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "slow", records[0].OriginalTitle)
	assert.Equal(t, "medium", records[1].OriginalTitle)
	assert.Equal(t, "fast", records[2].OriginalTitle)
}

func TestScrapeFromHTMLRejectsShortInput(t *testing.T) {
	o, _ := newTestOrchestrator(nil, nil)

	for _, bad := range []string{"", "   \n\t  ", "<html></html>"} {
		_, err := o.ScrapeFromHTML(context.Background(), bad, "")
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr, "html %q", bad)
		assert.Equal(t, "html", valErr.Field)
	}
}

func TestScrapeFromHTMLRunsWithoutOriginURL(t *testing.T) {
	drafts := []types.PropertyDraft{{Title: "Villa", Description: "Private pool."}}
	persistence := &memoryPersistence{}
	o, _ := newTestOrchestrator(drafts, persistence)

	records, err := o.ScrapeFromHTML(context.Background(), listingHTML(), "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].OriginURL)

	require.Len(t, persistence.entries, 1)
	assert.Equal(t, types.JobKindHTML, persistence.entries[0].JobKind)
	assert.Equal(t, "pasted HTML", persistence.entries[0].JobDetails)
}

func TestScrapeFromHTMLRecordsOriginURLInHistory(t *testing.T) {
	persistence := &memoryPersistence{}
	o, _ := newTestOrchestrator(nil, persistence)

	records, err := o.ScrapeFromHTML(context.Background(), listingHTML(), "https://example.com/listing/1")
	require.NoError(t, err)
	assert.Empty(t, records)

	// Even a zero-record job leaves a history entry.
	require.Len(t, persistence.entries, 1)
	assert.Equal(t, "pasted HTML from https://example.com/listing/1", persistence.entries[0].JobDetails)
	assert.Equal(t, 0, persistence.entries[0].PropertyCount)
}

func TestScrapeToleratesNilPersistence(t *testing.T) {
	drafts := []types.PropertyDraft{{Title: "Loft", Description: "Downtown."}}
	o, _ := newTestOrchestrator(drafts, nil)

	records, err := o.ScrapeFromHTML(context.Background(), listingHTML(), "")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestScrapeContinuesWhenSaveFails(t *testing.T) {
	drafts := []types.PropertyDraft{{Title: "Loft", Description: "Downtown."}}
	persistence := &memoryPersistence{failSave: true}
	o, _ := newTestOrchestrator(drafts, persistence)

	records, err := o.ScrapeFromHTML(context.Background(), listingHTML(), "")
	require.NoError(t, err)
	assert.Len(t, records, 1)

	// The history entry is still appended after a failed save.
	assert.Len(t, persistence.entries, 1)
}
