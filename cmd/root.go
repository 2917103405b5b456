package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/podbrief/podbrief/pkg/config"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "podbrief",
	Short: "Podcast summarization client",
	Long: `PodBrief - a terminal client for the PodBrief podcast summarization service

Search for podcast episodes or submit your own audio, watch transcription
and summarization progress, and read summaries, key quotes, and full
transcripts from your terminal.

Features:
  - Episode search and URL/file submission
  - Live processing status with progress
  - Summaries, takeaways, key quotes, and transcripts
  - Speaker renaming and PDF export
  - Podcast feed subscriptions with batch processing`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().String("backend-url", "", "backend base URL (overrides config)")
}

// loadConfig loads the configuration when a command needs it
func loadConfig() {
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	// A .env next to the binary is a convenience for local development
	_ = godotenv.Load()

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
