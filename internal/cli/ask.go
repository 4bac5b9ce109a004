package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <utterance>",
	Short: "Send a single message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, err := LoadApp()
	if err != nil {
		return err
	}

	reply := app.Bot.Process(context.Background(), strings.Join(args, " "))
	fmt.Println(reply)
	return nil
}
