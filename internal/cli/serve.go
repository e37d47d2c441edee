package cli

import (
	"github.com/spf13/cobra"
	"github.com/thread-miners/scrape/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP trigger interface",
	Long: `Starts an HTTP server with a single endpoint:

  POST /scrape  {"username": "someuser"}

The pipeline runs synchronously and the response carries the run status
plus aggregate counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetApp()
		srv := server.New(a.Pipeline, a.Config.ListenAddr)
		return srv.ListenAndServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
