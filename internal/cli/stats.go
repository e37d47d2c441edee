package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <username>",
	Short: "Show stored row counts for a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		st, err := a.Store.Stats(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("posts:   %d (%d flagged)\n", st.Posts, st.FlaggedPosts)
		fmt.Printf("replies: %d (%d flagged)\n", st.Replies, st.FlaggedReplies)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
