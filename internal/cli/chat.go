package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in a plain read loop",
	Long:  `Start an interactive session on stdin/stdout. Type 'quit' to leave. For the full-screen interface, run smarttask with no arguments.`,
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	app, err := LoadApp()
	if err != nil {
		return err
	}
	app.StartSession()

	fmt.Println("SmartTask. Type a message (or 'quit'):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		msg := strings.TrimSpace(scanner.Text())
		if msg == "" {
			continue
		}
		switch strings.ToLower(msg) {
		case "q", "quit", "exit":
			return nil
		}

		reply := app.Bot.Process(context.Background(), msg)
		fmt.Printf("\nagent> %s\n\n", reply)
	}
	return scanner.Err()
}
