package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Razepriv/scrapperpro-fr/internal/observability"
	"github.com/Razepriv/scrapperpro-fr/internal/types"
)

var scrapeCommand = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape one property listing page",
	Long: `Fetches a listing page (or reads saved HTML from a file), extracts structured
property records, downloads listing images, and enhances the marketing copy.

Records are persisted when DATABASE_URL is configured; otherwise they are
printed and discarded.`,
	RunE: runScrapeCmd,
}

var (
	scrapeFlags     sharedFlags
	scrapeURL       string
	scrapeHTMLFile  string
	scrapeOriginURL string
)

func init() {
	scrapeFlags.register(scrapeCommand)

	scrapeCommand.Flags().StringVarP(&scrapeURL, "url", "u", "", "Listing page URL (mutually exclusive with --html-file)")
	scrapeCommand.Flags().StringVar(&scrapeHTMLFile, "html-file", "", "Path to saved HTML to scrape instead of fetching (mutually exclusive with --url)")
	scrapeCommand.Flags().StringVar(&scrapeOriginURL, "origin-url", "", "Original page URL for saved HTML (used to resolve relative image links)")

	rootCmd.AddCommand(scrapeCommand)
}

func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	if scrapeURL == "" && scrapeHTMLFile == "" {
		return fmt.Errorf("either --url or --html-file must be provided")
	}
	if scrapeURL != "" && scrapeHTMLFile != "" {
		return fmt.Errorf("--url and --html-file are mutually exclusive; provide only one")
	}

	cfg, err := scrapeFlags.resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	orchestrator, _, cleanup, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var records []types.Property
	source := scrapeURL
	if scrapeURL != "" {
		records, err = orchestrator.ScrapeFromURL(ctx, scrapeURL)
	} else {
		var html []byte
		html, err = os.ReadFile(scrapeHTMLFile)
		if err != nil {
			return fmt.Errorf("failed to read HTML file %s: %w", scrapeHTMLFile, err)
		}
		source = scrapeHTMLFile
		records, err = orchestrator.ScrapeFromHTML(ctx, string(html), scrapeOriginURL)
	}
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		for i := range records {
			printer.PrintProperty(&records[i])
		}
	}
	printer.PrintJobSummary(records, source)

	return nil
}
