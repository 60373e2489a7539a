package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"landivo/migration"
)

func StatusCmd(open DBFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show status of all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}

			statuses, err := migration.NewMigrator(db).Status()
			if err != nil {
				return fmt.Errorf("failed to get applied migrations: %v", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-16s  %-30s  %-8s\n", "Version", "Name", "Status")
			for _, s := range statuses {
				status := "Pending"
				if s.Applied {
					status = "Applied"
				}
				fmt.Fprintf(out, "%-16s  %-30s  %-8s\n", s.Version, s.Name, status)
			}
			return nil
		},
	}
}
