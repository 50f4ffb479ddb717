package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/todomon/internal/app"
)

// runApp builds the environment and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	username, _ := cmd.Flags().GetString("user")
	e.logger.Info().Str("user", username).Msg("starting tui")

	return app.Run(app.Options{
		Open:     e.open,
		Events:   e.events,
		Username: username,
	})
}
