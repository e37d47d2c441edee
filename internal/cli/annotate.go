package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thread-miners/scrape/internal/classify"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Label stored posts and replies via the classification service",
	Long: `Walks every stored post and reply that has no label yet, sends its text
to the configured classification service, and writes the verdict back.
Runs out-of-band from scraping; individual failures are skipped.`,
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	a := GetApp()
	if a.Config.ClassifierURL == "" {
		return fmt.Errorf("no classifier configured: set --classifier-url or SCRAPE_CLASSIFIER_URL")
	}

	client := classify.NewClient(a.Config.ClassifierURL, a.Config.ClassifierTimeout)
	annotator := classify.NewAnnotator(a.Store, client)

	n, err := annotator.Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("annotated %d rows\n", n)
	return nil
}
