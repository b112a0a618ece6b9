package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Razepriv/scrapperpro-fr/internal/types"
)

// ScrapeBulk runs the single-URL flow for each line of urlListText, strictly
// in order. One URL failing is recorded and never stops the remaining URLs;
// after input validation the call itself cannot fail.
func (o *Orchestrator) ScrapeBulk(ctx context.Context, urlListText string) (*types.BulkResult, error) {
	urls := splitURLList(urlListText)
	if len(urls) == 0 {
		return nil, &ValidationError{Field: "urls", Message: "no URLs provided"}
	}

	result := &types.BulkResult{}
	for i, jobURL := range urls {
		if o.opts.Verbose {
			log.Printf("[BULK] Processing URL %d/%d: %s", i+1, len(urls), jobURL)
		}

		records, err := o.ScrapeFromURL(ctx, jobURL)
		if err != nil {
			log.Printf("Warning: bulk URL failed: %s: %v", jobURL, err)
			result.Errors = append(result.Errors, types.BulkError{URL: jobURL, Error: err.Error()})
			continue
		}
		result.Records = append(result.Records, records...)
	}

	// One summary entry for the run, alongside the per-URL entries the
	// single-job flow already wrote.
	if o.history != nil {
		entry := types.HistoryEntry{
			ID:            uuid.New(),
			JobKind:       types.JobKindBulk,
			JobDetails:    fmt.Sprintf("bulk run: %d URL(s), %d failed", len(urls), len(result.Errors)),
			PropertyCount: len(result.Records),
			CreatedAt:     time.Now().UTC(),
		}
		if err := o.history.AppendHistory(ctx, entry); err != nil {
			log.Printf("Warning: failed to append bulk history entry: %v", err)
		}
	}

	return result, nil
}

// splitURLList breaks newline-separated text into trimmed, non-empty lines.
func splitURLList(text string) []string {
	var urls []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	return urls
}
