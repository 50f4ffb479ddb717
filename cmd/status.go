package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/todomon/internal/progression"
	"github.com/abhisek/todomon/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your partner creature and its progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		sess, err := e.openCLI(cmd)
		if err != nil {
			return err
		}
		defer sess.Close()

		printStatus(cmd.OutOrStdout(), sess.View())
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("create", false, "Create the trainer if it does not exist")
}

func printStatus(w io.Writer, v session.View) {
	fmt.Fprintf(w, "\nTrainer: %s\n", v.Username)
	fmt.Fprintln(w, strings.Repeat("─", 40))
	fmt.Fprintf(w, "%-12s %s (#%d)\n", "Partner", v.CreatureName(), v.CreatureID)
	fmt.Fprintf(w, "%-12s %d\n", "Stage", v.Stage)
	fmt.Fprintf(w, "%-12s %d/%d (%.0f%%)\n", "Experience", v.Experience, v.Threshold, v.Progress*100)

	switch v.ChainStatus {
	case progression.ChainPending:
		fmt.Fprintf(w, "%-12s %s\n", "Evolutions", "still looking up")
	case progression.ChainUnavailable:
		fmt.Fprintf(w, "%-12s %s\n", "Evolutions", "unknown")
	}
	if v.CreatureErr != nil {
		fmt.Fprintf(w, "%-12s %v\n", "Details", v.CreatureErr)
	}

	done := 0
	for _, t := range v.Tasks {
		if t.Completed {
			done++
		}
	}
	fmt.Fprintf(w, "%-12s %d/%d done\n\n", "Tasks", done, len(v.Tasks))
}
