// Package extraction converts raw listing HTML into draft property records
// via a generative model call. Extraction failures never propagate: a page
// the model cannot parse yields zero drafts and a logged warning.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Razepriv/scrapperpro-fr/internal/llm"
	"github.com/Razepriv/scrapperpro-fr/internal/schemas"
	"github.com/Razepriv/scrapperpro-fr/internal/types"
)

// maxPromptHTMLLength caps how much HTML is sent to the model. Listing pages
// beyond this are dominated by repeated widgets and tracking markup.
const maxPromptHTMLLength = 120000

// maxDiscoveredImages bounds DOM-discovered image candidates per draft.
const maxDiscoveredImages = 15

// Extractor turns page HTML into draft property records.
type Extractor struct {
	client  llm.Client
	verbose bool
}

// NewExtractor creates an Extractor backed by the given model client.
func NewExtractor(client llm.Client, verbose bool) *Extractor {
	return &Extractor{client: client, verbose: verbose}
}

// Extract returns the draft records the model finds in the HTML. On any
// failure (model call, schema, JSON) it logs and returns an empty list; an
// empty page is a valid outcome, not an error.
func (e *Extractor) Extract(ctx context.Context, html string) []types.PropertyDraft {
	drafts, err := e.extract(ctx, html)
	if err != nil {
		log.Printf("Warning: extraction failed, continuing with zero records: %v", err)
		return nil
	}

	// Drafts without model-supplied image candidates fall back to the
	// images present in the page DOM.
	var discovered []string
	for i := range drafts {
		if len(drafts[i].ImageCandidates) > 0 {
			continue
		}
		if discovered == nil {
			discovered = DiscoverImageCandidates(html, maxDiscoveredImages)
		}
		drafts[i].ImageCandidates = discovered
	}

	return drafts
}

func (e *Extractor) extract(ctx context.Context, html string) ([]types.PropertyDraft, error) {
	cleaned, err := PrepareHTML(html)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare HTML: %w", err)
	}

	prompt := buildExtractionPrompt(cleaned)
	if e.verbose {
		log.Printf("[EXTRACT] Prompting model with %d bytes of HTML", len(cleaned))
	}

	response, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	response = llm.CleanJSONBlock(response)
	if err := schemas.ValidateJSONString(draftArraySchema, response); err != nil {
		return nil, fmt.Errorf("model response rejected: %w", err)
	}

	var rawRecords []map[string]any
	if err := json.Unmarshal([]byte(response), &rawRecords); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	drafts := make([]types.PropertyDraft, 0, len(rawRecords))
	for _, raw := range rawRecords {
		drafts = append(drafts, coerceDraft(raw))
	}

	if e.verbose {
		log.Printf("[EXTRACT] Model returned %d draft record(s)", len(drafts))
	}

	return drafts, nil
}

// PrepareHTML strips markup that carries no listing content (scripts, styles,
// embedded SVG) and caps the result so the prompt stays within model limits.
func PrepareHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, svg, iframe, link[rel='stylesheet']").Remove()

	cleaned, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize HTML: %w", err)
	}

	if len(cleaned) > maxPromptHTMLLength {
		cleaned = cleaned[:maxPromptHTMLLength]
	}
	return cleaned, nil
}

// DiscoverImageCandidates collects candidate image references straight from
// the page DOM, preserving document order. Used when the model returns a
// draft without any image candidates.
func DiscoverImageCandidates(html string, limit int) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []string

	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			// Lazy-loading galleries keep the real URL in data-src.
			src, ok = s.Attr("data-src")
			if !ok || src == "" {
				return true
			}
		}
		src = strings.TrimSpace(src)
		if strings.HasPrefix(src, "data:") || seen[src] {
			return true
		}
		seen[src] = true
		candidates = append(candidates, src)
		return limit <= 0 || len(candidates) < limit
	})

	return candidates
}
