package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Razepriv/scrapperpro-fr/internal/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Run the scraper HTTP API server",
	Long: `Starts the REST API: scrape endpoints, property CRUD, scrape history, and
JSON/CSV export. Materialized images are served under /uploads/.`,
	RunE: runServeCmd,
}

var (
	serveFlags sharedFlags
	serveAddr  string
)

func init() {
	serveFlags.register(serveCommand)
	serveCommand.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to :8080)")

	rootCmd.AddCommand(serveCommand)
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := serveFlags.resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.ListenAddr = serveAddr
	}

	ctx := context.Background()
	orchestrator, db, cleanup, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var propertyStore server.PropertyStore
	if db != nil {
		propertyStore = db
	}

	s := server.New(server.Config{Addr: cfg.ListenAddr}, orchestrator, propertyStore, cfg.UploadDir)
	return s.Start()
}
