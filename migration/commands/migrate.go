package commands

import "github.com/spf13/cobra"

// MigrateCmd groups the migration subcommands.
func MigrateCmd(open DBFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}
	cmd.AddCommand(
		InitCmd(open),
		UpCmd(open),
		DownCmd(open),
		StatusCmd(open),
		HistoryCmd(open),
		CheckCmd(open),
	)
	return cmd
}
