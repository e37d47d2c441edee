// Package cli provides the command-line interface for the scrape application.
package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thread-miners/scrape/internal/app"
	"github.com/thread-miners/scrape/internal/config"
)

var rootCmd = &cobra.Command{
	Use:     "scrape",
	Short:   "Scrape a Threads profile's posts and reply threads into SQLite",
	Long:    `Scrape renders public Threads profile pages in headless Chrome, extracts the embedded data payloads, reconstructs posts and their reply threads, and persists them idempotently for later analysis.`,
	Version: "0.1.0",
}

// Execute runs the CLI. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Emit JSON logs to stderr")
	rootCmd.PersistentFlags().String("db", config.DefaultDBPath, "SQLite database path")
	rootCmd.PersistentFlags().String("timeout", config.DefaultFetchTimeout.String(), "Per-fetch render timeout")
	rootCmd.PersistentFlags().String("run-timeout", config.DefaultRunTimeout.String(), "Deadline for a whole scrape run")
	rootCmd.PersistentFlags().Int("workers", config.DefaultReplyWorkers, "Concurrent reply-page fetches")
	rootCmd.PersistentFlags().String("user-agent", "", "Override the browser user agent")
	rootCmd.PersistentFlags().String("proxy", "", "Proxy server for the browser")
	rootCmd.PersistentFlags().Bool("headful", false, "Run Chrome with a visible window")
	rootCmd.PersistentFlags().String("classifier-url", "", "Base URL of the text classification service")
	rootCmd.PersistentFlags().String("addr", config.DefaultListenAddr, "Listen address for the serve command")

	// The application (browser session, database) is initialized lazily so
	// -h/--help never starts Chrome.
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetApp() != nil {
			return nil
		}
		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}
		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		SetApp(a)
		return nil
	}

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		a := GetApp()
		if a == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.FetchTimeout)
		defer cancel()
		if err := a.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("Shutdown error")
		}
		SetApp(nil)
	}
}
