// Package main provides the entry point for the property scraper CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scraper_agent",
	Short: "AI-powered property listing scraper",
	Long:  "Scraper agent fetches property listing pages, extracts structured records with Gemini, materializes listing images, enhances marketing copy, and persists everything to PostgreSQL.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
