package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	jsonOutput bool
	userID     string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "sanctum",
	Short: "CLI client for the sanctum video review board",
	Long: `sanctum - CLI client for the sanctum video review board

Track videos through ideation, priming, review, scheduling and posting,
leave timestamped comments, record approvals and analytics.

Run 'sanctumd' to start the server daemon.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("SANCTUM_SERVER", "http://localhost:8484"), "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", os.Getenv("SANCTUM_USER"), "User ID sent with requests")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("sanctum {{.Version}}\n")
}

// newLogger returns a slog logger that writes human-friendly output to w.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return slog.New(log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: debug,
	}))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClient() *Client {
	return NewClient(serverURL, userID)
}
