package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/todomon/internal/progression"
	"github.com/abhisek/todomon/internal/session"
	"github.com/abhisek/todomon/internal/tasks"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks without the TUI",
}

var taskAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recurring, _ := cmd.Flags().GetBool("recurring")
		dueFlag, _ := cmd.Flags().GetString("due")

		var due *tasks.Date
		if dueFlag != "" {
			d, err := tasks.ParseDate(dueFlag)
			if err != nil {
				return fmt.Errorf("--due: %w", err)
			}
			due = &d
		}

		return withSession(cmd, func(e *environment, sess *session.Session) error {
			idx, err := sess.AddTask(strings.Join(args, " "), recurring, due)
			var saveErr *session.SaveError
			if err != nil && !errors.As(err, &saveErr) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %d.\n", idx+1)
			return err
		})
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done INDEX",
	Short: "Complete a task (1-based index from `task list`)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid task index %q", args[0])
		}

		return withSession(cmd, func(e *environment, sess *session.Session) error {
			res, err := sess.CompleteTask(n - 1)
			if errors.Is(err, tasks.ErrAlreadyCompleted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Already done. Come back tomorrow!")
				return nil
			}
			if err != nil {
				return err
			}
			printCompletion(cmd.OutOrStdout(), res)
			if res.Outcome.Kind == progression.OutcomeDeferred {
				e.settle(cmd.Context(), sess)
				for _, out := range sess.TakeAdvances() {
					printAdvance(cmd.OutOrStdout(), out)
				}
			}
			return res.SaveErr
		})
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(e *environment, sess *session.Session) error {
			printTasks(cmd.OutOrStdout(), sess.View().Tasks)
			return nil
		})
	},
}

func init() {
	taskAddCmd.Flags().Bool("recurring", false, "Reset the task every midnight")
	taskAddCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")

	for _, c := range []*cobra.Command{taskAddCmd, taskDoneCmd, taskListCmd} {
		c.Flags().Bool("create", false, "Create the trainer if it does not exist")
		taskCmd.AddCommand(c)
	}
}

// withSession opens the --user session, runs fn and closes everything.
func withSession(cmd *cobra.Command, fn func(*environment, *session.Session) error) error {
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

	if err := fn(e, sess); err != nil {
		return err
	}
	// An evolution queues a fresh lookup; wait so it lands in the log.
	e.settle(cmd.Context(), sess)
	return nil
}

func printCompletion(w io.Writer, res session.CompleteResult) {
	fmt.Fprintf(w, "Completed task %d. +%d XP\n", res.Index+1, res.Award)
	printAdvance(w, res.Outcome)
	if !res.ResetAt.IsZero() {
		fmt.Fprintf(w, "Available again %s.\n", res.ResetAt.Format("Mon 15:04"))
	}
}

func printAdvance(w io.Writer, out progression.Outcome) {
	switch out.Kind {
	case progression.OutcomeEvolved:
		fmt.Fprintf(w, "Your partner evolved! #%d -> #%d (stage %d)\n", out.From, out.To, out.StageAfter)
	case progression.OutcomeReassigned:
		fmt.Fprintf(w, "Fully evolved! A new partner #%d joins you.\n", out.To)
	case progression.OutcomeDeferred:
		fmt.Fprintf(w, "Stage %d! Checking what comes next...\n", out.StageAfter)
	}
}

func printTasks(w io.Writer, list []tasks.Task) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No tasks yet. Add one with `todomon task add NAME`.")
		return
	}
	fmt.Fprintf(w, "\n%-4s %-4s %-36s %s\n", "#", "", "Task", "Schedule")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for i, t := range list {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		schedule := ""
		switch {
		case t.Recurring:
			schedule = "daily"
		case t.DueDate != nil:
			schedule = "due " + t.DueDate.String()
		}
		fmt.Fprintf(w, "%-4d %-4s %-36s %s\n", i+1, mark, truncate(t.Name, 36), schedule)
	}
	fmt.Fprintln(w)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
