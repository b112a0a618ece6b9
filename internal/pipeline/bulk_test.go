package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Razepriv/scrapperpro-fr/internal/types"
)

func TestScrapeBulkRejectsEmptyInput(t *testing.T) {
	o, _ := newTestOrchestrator(nil, nil)

	for _, bad := range []string{"", "\n\n\n", "   \n \t \n"} {
		_, err := o.ScrapeBulk(context.Background(), bad)
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr, "input %q", bad)
		assert.Equal(t, "urls", valErr.Field)
	}
}

func TestScrapeBulkCapturesFailuresAndContinues(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, listingHTML())
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	drafts := []types.PropertyDraft{{Title: "Apartment", Description: "Nice view."}}
	persistence := &memoryPersistence{}
	o, _ := newTestOrchestrator(drafts, persistence)

	input := strings.Join([]string{
		"  " + good.URL + "  ",
		"",
		bad.URL,
		"not-a-url",
		good.URL,
	}, "\n")

	result, err := o.ScrapeBulk(context.Background(), input)
	require.NoError(t, err)

	// Two successful URLs, one draft each.
	assert.Len(t, result.Records, 2)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, bad.URL, result.Errors[0].URL)
	assert.Equal(t, "not-a-url", result.Errors[1].URL)
	assert.NotEmpty(t, result.Errors[0].Error)

	// Each successful URL persists through the single-job flow, plus one
	// summary entry for the run.
	assert.Len(t, persistence.saved, 2)
	require.Len(t, persistence.entries, 3)
	assert.Equal(t, types.JobKindURL, persistence.entries[0].JobKind)
	assert.Equal(t, types.JobKindURL, persistence.entries[1].JobKind)

	summary := persistence.entries[2]
	assert.Equal(t, types.JobKindBulk, summary.JobKind)
	assert.Equal(t, 2, summary.PropertyCount)
	assert.Contains(t, summary.JobDetails, "4 URL(s)")
	assert.Contains(t, summary.JobDetails, "2 failed")
}

func TestScrapeBulkNeverFailsAfterValidation(t *testing.T) {
	o, _ := newTestOrchestrator(nil, nil)

	result, err := o.ScrapeBulk(context.Background(), "not-a-url\nalso-bad\nftp://nope")
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Len(t, result.Errors, 3)
}

func TestSplitURLList(t *testing.T) {
	urls := splitURLList("https://a.example\n\n  https://b.example  \n\t\nhttps://c.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example", "https://c.example"}, urls)
}
