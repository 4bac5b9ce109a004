package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pablasso/smarttask/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assistant over HTTP",
	Long:  `Expose chat, task, goal, and metrics endpoints on an HTTP address. The transport is thin; every route calls the same core as the CLI.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := LoadApp()
	if err != nil {
		return err
	}

	srv := web.NewServer(app.Bot, app.Store, app.Tracker)
	fmt.Printf("SmartTask listening on %s\n", serveAddr)
	return srv.Run(serveAddr)
}
