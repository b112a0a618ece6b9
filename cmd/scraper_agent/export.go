package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Razepriv/scrapperpro-fr/internal/config"
	"github.com/Razepriv/scrapperpro-fr/internal/export"
	"github.com/Razepriv/scrapperpro-fr/internal/store"
)

var exportCommand = &cobra.Command{
	Use:   "export",
	Short: "Export persisted property records to a file",
	Long:  `Reads records from the database and writes them as JSON or CSV.`,
	RunE:  runExportCmd,
}

var (
	exportConfigPath  string
	exportDatabaseURL string
	exportFormat      string
	exportOutput      string
	exportLimit       int
)

func init() {
	exportCommand.Flags().StringVar(&exportConfigPath, "config", "", "Path to config.json file")
	exportCommand.Flags().StringVar(&exportDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	exportCommand.Flags().StringVar(&exportFormat, "format", "json", "Export format: json or csv")
	exportCommand.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (defaults to a timestamped name)")
	exportCommand.Flags().IntVar(&exportLimit, "limit", 0, "Maximum records to export (0 for the store default)")

	rootCmd.AddCommand(exportCommand)
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	var cfg config.Config
	if exportConfigPath != "" {
		loadedCfg, err := config.LoadConfig(exportConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = exportDatabaseURL
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	ctx := context.Background()
	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.ListProperties(ctx, exportLimit)
	if err != nil {
		return err
	}

	data, err := export.Export(records, format)
	if err != nil {
		return err
	}

	output := exportOutput
	if output == "" {
		output = format.Filename(time.Now())
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file %s: %w", output, err)
	}

	fmt.Printf("Exported %d record(s) to %s\n", len(records), output)
	return nil
}
