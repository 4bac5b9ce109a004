package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "smarttask",
	Short:   "Conversational task and goal manager",
	Long:    `SmartTask manages tasks and long-term goals through natural-language commands. Specialist agents handle task management, goal planning, and reporting.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(metricsCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
