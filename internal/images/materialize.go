package images

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Razepriv/scrapperpro-fr/internal/storage"
)

// PlaceholderImageURL is the sentinel reference substituted when a record
// ends up with no image candidates at all. Display layers always have at
// least one reference to render.
const PlaceholderImageURL = "https://placehold.co/600x400?text=No+Image"

// ImageUserAgent is sent on image downloads. Distinct from the page fetch
// agent; image CDNs are less picky and a stable agent keeps logs readable.
const ImageUserAgent = "Mozilla/5.0 (compatible; ScrapperPro/1.0; +image-fetch)"

// Materializer downloads a record's images and persists them through the
// storage backend, producing stable public references.
type Materializer struct {
	store   storage.Storage
	client  *http.Client
	verbose bool
}

// NewMaterializer creates a Materializer writing through store.
func NewMaterializer(store storage.Storage, timeout time.Duration, verbose bool) *Materializer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Materializer{
		store:   store,
		client:  &http.Client{Timeout: timeout},
		verbose: verbose,
	}
}

// Materialize resolves the draft's candidate image references and persists
// each one, returning the record's final image list in candidate order.
//
// Guarantees: the returned list is never empty (a lone placeholder stands in
// when nothing resolves), order matches candidate discovery order regardless
// of fetch completion order, and a failed download falls back to the resolved
// remote URL rather than disappearing.
func (m *Materializer) Materialize(ctx context.Context, recordID string, candidates []string, pageLink, originURL string) []string {
	base := ResolveBase(pageLink, originURL)
	resolved := ResolveCandidates(candidates, base)
	if len(resolved) == 0 {
		return []string{PlaceholderImageURL}
	}

	// The namespace exists before any concurrent write; individual writes
	// use distinct ordinal-indexed names, so there is no write conflict.
	if err := m.store.EnsureNamespace(ctx, recordID); err != nil {
		log.Printf("Warning: could not prepare image storage for record %s, keeping remote URLs: %v", recordID, err)
		return resolved
	}

	stamp := time.Now().UnixMilli()
	results := make([]string, len(resolved))

	g, gCtx := errgroup.WithContext(ctx)
	for i, imageURL := range resolved {
		g.Go(func() error {
			ref, err := m.fetchAndPersist(gCtx, recordID, imageURL, stamp, i, base)
			if err != nil {
				log.Printf("Warning: %v (falling back to remote URL)", err)
				results[i] = imageURL
				return nil
			}
			results[i] = ref
			return nil
		})
	}
	// Goroutines absorb their own failures, so Wait is only a join point.
	_ = g.Wait()

	return results
}

// fetchAndPersist downloads one image and writes it to storage, returning the
// stored public reference.
func (m *Materializer) fetchAndPersist(ctx context.Context, recordID, imageURL string, stamp int64, ordinal int, referer string) (string, error) {
	data, contentType, err := m.fetch(ctx, imageURL, referer)
	if err != nil {
		return "", err
	}

	ext := ExtensionFor(contentType, imageURL)
	filename := fmt.Sprintf("%d_%d.%s", stamp, ordinal, ext)

	ref, err := m.store.Write(ctx, recordID, filename, data, contentType)
	if err != nil {
		return "", &FetchError{URL: imageURL, Message: "failed to persist image", Cause: err}
	}

	if m.verbose {
		log.Printf("[IMAGES] Stored %s as %s (%d bytes)", imageURL, ref, len(data))
	}
	return ref, nil
}

// fetch downloads and validates one image.
func (m *Materializer) fetch(ctx context.Context, imageURL, referer string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", &FetchError{URL: imageURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", ImageUserAgent)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, "", &FetchError{URL: imageURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &FetchError{
			URL:        imageURL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	// A missing content type is tolerated; a present non-image one is not.
	if contentType != "" {
		mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
		if !strings.HasPrefix(mediaType, "image/") {
			return nil, "", &FetchError{
				URL:        imageURL,
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("non-image content type %q", contentType),
			}
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &FetchError{URL: imageURL, Message: "failed to read response body", Cause: err}
	}
	if len(data) == 0 {
		return nil, "", &FetchError{URL: imageURL, StatusCode: resp.StatusCode, Message: "empty response body"}
	}

	return data, contentType, nil
}
