package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Razepriv/scrapperpro-fr/internal/config"
	"github.com/Razepriv/scrapperpro-fr/internal/enhancement"
	"github.com/Razepriv/scrapperpro-fr/internal/extraction"
	"github.com/Razepriv/scrapperpro-fr/internal/images"
	"github.com/Razepriv/scrapperpro-fr/internal/llm"
	"github.com/Razepriv/scrapperpro-fr/internal/pipeline"
	"github.com/Razepriv/scrapperpro-fr/internal/storage"
	"github.com/Razepriv/scrapperpro-fr/internal/store"
)

// sharedFlags holds the flag values common to every scraping command.
type sharedFlags struct {
	configPath  string
	apiKey      string
	databaseURL string
	uploadDir   string
	useBrowser  bool
	verbose     bool
}

// register adds the shared flags to a command.
func (f *sharedFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	cmd.Flags().StringVar(&f.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	cmd.Flags().StringVar(&f.uploadDir, "upload-dir", "", "Directory for materialized images")
	cmd.Flags().BoolVar(&f.useBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print detailed debug information")
}

// resolveConfig layers configuration: file values, then explicit CLI flags,
// then built-in defaults, then environment fallbacks for credentials.
func (f *sharedFlags) resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if f.configPath != "" {
		loadedCfg, err := config.LoadConfig(f.configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loadedCfg
		if f.verbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", f.configPath)
		}
	}

	// CLI flags take priority, but only when explicitly set
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = f.apiKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = f.databaseURL
	}
	if cmd.Flags().Changed("upload-dir") {
		cfg.UploadDir = f.uploadDir
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = f.useBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = f.verbose
	}

	if cfg.UploadDir == "" {
		cfg.UploadDir = os.Getenv("UPLOAD_DIR")
	}

	cfg = cfg.MergeWithDefaults(config.DefaultConfig())

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

// buildOrchestrator wires the pipeline from configuration. The returned
// cleanup function closes the model client and the database connection.
// The database is optional: without DATABASE_URL the pipeline runs without
// persistence and db is nil.
func buildOrchestrator(ctx context.Context, cfg config.Config) (*pipeline.Orchestrator, *store.DB, func(), error) {
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create model client: %w", err)
	}

	var db *store.DB
	if cfg.DatabaseURL != "" {
		db, err = store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			_ = client.Close()
			return nil, nil, nil, err
		}
	} else if cfg.Verbose {
		fmt.Println("No DATABASE_URL configured; running without persistence")
	}

	extractor := extraction.NewExtractor(client, cfg.Verbose)
	enhancer := enhancement.NewEnhancer(client, cfg.Verbose)
	imageStore := storage.NewLocalStorage(cfg.UploadDir, cfg.PublicPrefix)
	materializer := images.NewMaterializer(imageStore, time.Duration(cfg.ImageTimeoutSeconds)*time.Second, cfg.Verbose)

	opts := pipeline.Options{
		UseBrowser:   cfg.UseBrowser,
		Verbose:      cfg.Verbose,
		FetchTimeout: time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
	}

	// An interface holding a nil *store.DB is not nil; keep the interfaces
	// untyped-nil when there is no database.
	var records pipeline.RecordStore
	var history pipeline.HistoryRecorder
	if db != nil {
		records = db
		history = db
	}

	orchestrator := pipeline.New(extractor, enhancer, materializer, records, history, opts)

	cleanup := func() {
		_ = client.Close()
		if db != nil {
			db.Close()
		}
	}
	return orchestrator, db, cleanup, nil
}
