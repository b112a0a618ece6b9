// Package images materializes a draft record's candidate image references
// into durable storage. Per-image failures are absorbed: a candidate that
// cannot be fetched keeps its remote URL so the broken image stays visible
// downstream instead of silently vanishing.
package images

import "fmt"

// FetchError represents a failure to download or validate a single image.
// It is never propagated past the materializer; the candidate falls back to
// its resolved remote URL.
type FetchError struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("image fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("image fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
