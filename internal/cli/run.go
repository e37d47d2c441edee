package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <username>",
	Short: "Scrape one profile's posts and reply threads",
	Long: `Renders the profile page, extracts the embedded posts, fetches every
post's reply page, and persists the deduplicated batch. Re-running for the
same username is idempotent: rows that already exist are skipped.`,
	Example: `  # Scrape a profile
  scrape run someuser

  # Faster reply enrichment, verbose logs
  scrape run someuser --workers=5 -v`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	a := GetApp()
	username := args[0]

	var bar *progressbar.ProgressBar
	a.Pipeline.OnProgress(func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("fetching replies"),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
	})

	result, err := a.Pipeline.Run(cmd.Context(), username)
	if err != nil {
		return err
	}

	fmt.Printf("status: %s\n", result.Status)
	fmt.Printf("posts:   %d (%d new, %d already stored)\n",
		result.ThreadCount, result.Batch.PostsInserted, result.Batch.PostsSkipped)
	fmt.Printf("replies: %d (%d new, %d already stored)\n",
		result.ReplyCount, result.Batch.RepliesInserted, result.Batch.RepliesSkipped)
	return nil
}
