package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"landivo/migration"
)

func InitCmd(open DBFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize migration tracking table in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			if _, err := migration.NewMigrator(db).GetAppliedVersions(); err != nil {
				return fmt.Errorf("failed to create migration table: %v", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migration tracking table is ready.")
			return nil
		},
	}
}
