// Package pipeline provides the high-level orchestration for the
// scrape-enrich-persist flow: fetch a page, extract draft records,
// materialize images and enhance text per record, and persist the results.
package pipeline

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Razepriv/scrapperpro-fr/internal/fetch"
	"github.com/Razepriv/scrapperpro-fr/internal/types"
)

// MinHTMLLength is the minimum accepted size for a pasted-HTML job. Anything
// shorter cannot contain a listing and is rejected before the model is called.
const MinHTMLLength = 100

// Extractor converts page HTML into draft records. Failures degrade to an
// empty list inside the implementation.
type Extractor interface {
	Extract(ctx context.Context, html string) []types.PropertyDraft
}

// Enhancer rewrites a title/description pair, passing the originals through
// on any failure.
type Enhancer interface {
	Enhance(ctx context.Context, title, description string) (string, string)
}

// ImageMaterializer turns candidate image references into durable references.
type ImageMaterializer interface {
	Materialize(ctx context.Context, recordID string, candidates []string, pageLink, originURL string) []string
}

// RecordStore persists finalized records. A nil store runs the pipeline
// without persistence.
type RecordStore interface {
	SaveProperties(ctx context.Context, records []types.Property) error
}

// HistoryRecorder appends one audit entry per completed job.
type HistoryRecorder interface {
	AppendHistory(ctx context.Context, entry types.HistoryEntry) error
}

// Options holds pipeline tuning knobs.
type Options struct {
	// UseBrowser enables the headless-browser fallback for pages that come
	// back too thin to contain listings.
	UseBrowser bool
	Verbose    bool
	// FetchTimeout bounds page fetches; zero means fetch.DefaultTimeout.
	FetchTimeout time.Duration
}

// Orchestrator drives single scrape jobs and bulk runs.
type Orchestrator struct {
	extractor Extractor
	enhancer  Enhancer
	images    ImageMaterializer
	records   RecordStore
	history   HistoryRecorder
	opts      Options
}

// New creates an Orchestrator. records and history may be nil to run without
// persistence (the CLI does this when no database is configured).
func New(extractor Extractor, enhancer Enhancer, images ImageMaterializer, records RecordStore, history HistoryRecorder, opts Options) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		enhancer:  enhancer,
		images:    images,
		records:   records,
		history:   history,
		opts:      opts,
	}
}

// ScrapeFromURL runs one job against a listing page URL. Fetch failures fail
// the whole job; everything downstream of extraction degrades per record.
func (o *Orchestrator) ScrapeFromURL(ctx context.Context, jobURL string) ([]types.Property, error) {
	if !isAbsoluteHTTP(jobURL) {
		return nil, &ValidationError{Field: "url", Message: "must be an absolute http(s) URL"}
	}

	fetchOpts := fetch.DefaultOptions()
	if o.opts.FetchTimeout > 0 {
		fetchOpts.Timeout = o.opts.FetchTimeout
	}

	result, err := fetch.Page(ctx, jobURL, fetchOpts)
	if err != nil {
		return nil, err
	}

	html := result.HTML
	if o.opts.UseBrowser && fetch.ShouldRender(html) {
		rendered, err := fetch.WithBrowser(ctx, jobURL, fetchOpts.Timeout, o.opts.Verbose)
		if err != nil {
			log.Printf("Warning: browser rendering failed for %s, using plain fetch: %v", jobURL, err)
		} else {
			html = rendered
		}
	}

	return o.runJob(ctx, html, jobURL, types.JobKindURL, jobURL)
}

// ScrapeFromHTML runs one job against pasted HTML content. originURL is
// optional; when absolute it serves as the base for relative image candidates.
func (o *Orchestrator) ScrapeFromHTML(ctx context.Context, html, originURL string) ([]types.Property, error) {
	if len(strings.TrimSpace(html)) < MinHTMLLength {
		return nil, &ValidationError{Field: "html", Message: "content is empty or too short to contain a listing"}
	}

	details := "pasted HTML"
	if originURL != "" {
		details = "pasted HTML from " + originURL
	}
	return o.runJob(ctx, html, originURL, types.JobKindHTML, details)
}

// runJob executes the shared portion of a job: extract, process each record
// concurrently, persist, and append one history entry.
func (o *Orchestrator) runJob(ctx context.Context, html, originURL string, kind types.JobKind, details string) ([]types.Property, error) {
	drafts := o.extractor.Extract(ctx, html)
	if o.opts.Verbose {
		log.Printf("[PIPELINE] Extracted %d draft record(s) from %s", len(drafts), details)
	}

	// Records are independent of each other: image materialization and text
	// enhancement fan out per record and join here, with output slots keyed
	// by draft index so completion order cannot reorder results.
	finalized := make([]types.Property, len(drafts))
	g, gCtx := errgroup.WithContext(ctx)
	for i, draft := range drafts {
		g.Go(func() error {
			finalized[i] = o.finalize(gCtx, draft, originURL)
			return nil
		})
	}
	// Per-record processing absorbs its own failures; Wait is a join point.
	_ = g.Wait()

	o.persist(ctx, finalized, kind, details)

	return finalized, nil
}

// finalize assembles one record: materialize images and enhance text
// concurrently, then merge with generated identity and timestamps. Never
// fails; every sub-step has a defined fallback.
func (o *Orchestrator) finalize(ctx context.Context, draft types.PropertyDraft, originURL string) types.Property {
	id := uuid.New()

	var imageRefs []string
	enhancedTitle, enhancedDescription := draft.Title, draft.Description

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		imageRefs = o.images.Materialize(gCtx, id.String(), draft.ImageCandidates, draft.PageLink, originURL)
		return nil
	})
	g.Go(func() error {
		enhancedTitle, enhancedDescription = o.enhancer.Enhance(gCtx, draft.Title, draft.Description)
		return nil
	})
	_ = g.Wait()

	record := types.Property{
		ID:                  id,
		PropertyDraft:       draft,
		OriginURL:           originURL,
		OriginalTitle:       draft.Title,
		OriginalDescription: draft.Description,
		ImageURL:            imageRefs[0],
		ImageURLs:           imageRefs,
		CreatedAt:           time.Now().UTC(),
	}
	record.PropertyDraft.Title = enhancedTitle
	record.PropertyDraft.Description = enhancedDescription
	// Candidates are consumed into ImageURLs; drop them from the stored draft.
	record.PropertyDraft.ImageCandidates = nil

	return record
}

// persist writes the job's records and its single history entry. Persistence
// failures are logged and do not fail the job.
func (o *Orchestrator) persist(ctx context.Context, records []types.Property, kind types.JobKind, details string) {
	if o.records != nil && len(records) > 0 {
		if err := o.records.SaveProperties(ctx, records); err != nil {
			log.Printf("Warning: failed to save %d record(s): %v", len(records), err)
		}
	}

	if o.history != nil {
		entry := types.HistoryEntry{
			ID:            uuid.New(),
			JobKind:       kind,
			JobDetails:    details,
			PropertyCount: len(records),
			CreatedAt:     time.Now().UTC(),
		}
		if err := o.history.AppendHistory(ctx, entry); err != nil {
			log.Printf("Warning: failed to append history entry: %v", err)
		}
	}
}

func isAbsoluteHTTP(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
