package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "todomon",
	Short: "A to-do list with a creature that evolves as you get things done",
	Long: "Todomon is a terminal to-do tracker. Every finished task feeds your partner creature " +
		"experience until it evolves; daily tasks come back every midnight.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("user", "", "Trainer name")
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (overrides TODOMON_DATA_DIR)")
	rootCmd.PersistentFlags().String("store", "", "Save backend: file or sqlite (overrides TODOMON_STORE)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
