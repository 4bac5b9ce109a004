package main

import (
	"fmt"
	"os"

	"github.com/pablasso/smarttask/internal/cli"
	"github.com/pablasso/smarttask/internal/tui"
)

func main() {
	// If no args, launch the chat TUI; otherwise route to CLI
	if len(os.Args) == 1 {
		app, err := cli.LoadApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		app.StartSession()
		if err := tui.Run(app.Bot); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := cli.Execute(); err != nil {
			os.Exit(1)
		}
	}
}
