package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/todomon/internal/screens/history"
	"github.com/abhisek/todomon/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent activity for a trainer",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("user")
		if err := store.ValidateUsername(username); err != nil {
			return fmt.Errorf("--user: %w", err)
		}
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()
		if e.events == nil {
			return errors.New("event log unavailable")
		}

		events, err := e.events.RecentEvents(cmd.Context(), username, limit)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintf(w, "No activity for %s yet.\n", username)
			return nil
		}
		fmt.Fprintf(w, "\n%-20s %-16s %s\n", "When", "What", "Detail")
		fmt.Fprintln(w, strings.Repeat("─", 60))
		for _, ev := range events {
			fmt.Fprintf(w, "%-20s %-16s %s\n",
				ev.CreatedAt.Local().Format("2006-01-02 15:04:05"), history.Describe(ev.Kind), ev.Detail)
		}
		fmt.Fprintln(w)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of events to show")
}
