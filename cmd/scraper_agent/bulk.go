package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Razepriv/scrapperpro-fr/internal/observability"
)

var bulkCommand = &cobra.Command{
	Use:   "bulk [urls...]",
	Short: "Scrape a batch of listing URLs sequentially",
	Long: `Runs the full scrape flow for each URL, one at a time. A URL that fails is
reported and skipped; the remaining URLs still run. URLs can be passed as
arguments or read from a newline-separated file with --file.`,
	RunE: runBulkCmd,
}

var (
	bulkFlags sharedFlags
	bulkFile  string
)

func init() {
	bulkFlags.register(bulkCommand)
	bulkCommand.Flags().StringVarP(&bulkFile, "file", "f", "", "Path to a file with one URL per line")

	rootCmd.AddCommand(bulkCommand)
}

func runBulkCmd(cmd *cobra.Command, args []string) error {
	var urlListText string
	switch {
	case bulkFile != "" && len(args) > 0:
		return fmt.Errorf("--file and URL arguments are mutually exclusive; provide only one")
	case bulkFile != "":
		data, err := os.ReadFile(bulkFile)
		if err != nil {
			return fmt.Errorf("failed to read URL file %s: %w", bulkFile, err)
		}
		urlListText = string(data)
	case len(args) > 0:
		urlListText = strings.Join(args, "\n")
	default:
		return fmt.Errorf("provide URLs as arguments or via --file")
	}

	cfg, err := bulkFlags.resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	orchestrator, _, cleanup, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := orchestrator.ScrapeBulk(ctx, urlListText)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintBulkResult(result)
	return nil
}
