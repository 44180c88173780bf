// Package main provides the entry point for the careers-sync CLI.
package main

import (
	"fmt"
	"os"

	"github.com/jonathan/careers-sync/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "careers_sync",
	Short: "Career site crawler and job posting store",
	Long: `careers_sync keeps a per-source store of job postings in sync with employer career sites:
it discovers posting URLs, expires what disappeared, fetches and normalizes what is new,
and exports the result as CSV and JSON artifacts.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging on a console encoder")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
