package main

import (
	"fmt"

	"github.com/jonathan/careers-sync/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only REST API server",
	Long:  `Start an HTTP server that exposes stored postings, per-source stats and crawl run history.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: port from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	port := a.cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	database, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	srv, err := server.New(server.Config{
		Port:     port,
		Postings: database,
		Runs:     database,
		Logger:   a.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
