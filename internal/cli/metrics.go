package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pablasso/smarttask/internal/obs"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show observability event counts from the event log",
	RunE:  runMetrics,
}

func runMetrics(cmd *cobra.Command, args []string) error {
	app, err := LoadApp()
	if err != nil {
		return err
	}

	events, err := obs.ReadLog(app.Config.EventsPath())
	if err != nil {
		return fmt.Errorf("failed to read event log: %w", err)
	}
	m := obs.Summarize(events)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EVENT TYPE\tCOUNT")
	for t, n := range m.ByType {
		fmt.Fprintf(w, "%s\t%d\n", t, n)
	}
	fmt.Fprintf(w, "total\t%d\n", m.TotalEvents)
	return w.Flush()
}
