package cli

import (
	"github.com/spf13/cobra"

	"github.com/mwansa/kwacha/internal/app"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "kwacha",
	Short: "A CLI invoice tracker for small businesses",
	Long: `Kwacha tracks invoices from draft to paid: generate invoices and
receipts, follow up on overdue payments, and export your books to CSV.

By default, running kwacha without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: launch TUI
		launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	// Add all subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tuiCmd)
}
