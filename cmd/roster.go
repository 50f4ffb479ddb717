package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/todomon/internal/roster"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage the list of starter creatures",
}

var rosterGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Rebuild the starter list from the creature API",
	Long: "Walks every evolution chain the API knows about and records the base " +
		"creature of each chain that can evolve at least once.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = e.cfg.RosterPath()
		}
		workers, _ := cmd.Flags().GetInt("workers")

		w := cmd.ErrOrStderr()
		ids, err := roster.Generate(cmd.Context(), e.client, roster.GenerateOptions{
			Workers: workers,
			Logger:  e.logger,
			Progress: func(p roster.Progress) {
				fmt.Fprintf(w, "\rChecked %d/%d chains, %d starters", p.Done, p.Total, p.Collected)
			},
		})
		fmt.Fprintln(w)
		if err != nil {
			return err
		}
		if err := roster.Save(out, ids); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d starters to %s\n", len(ids), out)
		return nil
	},
}

func init() {
	rosterGenerateCmd.Flags().String("out", "", "Output file (defaults to the roster path in the data dir)")
	rosterGenerateCmd.Flags().Int("workers", roster.DefaultWorkers, "Concurrent chain lookups")
	rosterCmd.AddCommand(rosterGenerateCmd)
}
