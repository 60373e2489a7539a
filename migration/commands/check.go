package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"landivo/internal/model"
	"landivo/migration"
)

// CheckCmd reports differences between the models and the live schema. It
// fails when any are found.
func CheckCmd(open DBFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare the database schema with the models",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}

			drift, err := migration.Compare(db, model.All()...)
			if err != nil {
				return fmt.Errorf("failed to compare schema: %v", err)
			}

			out := cmd.OutOrStdout()
			if len(drift) == 0 {
				fmt.Fprintln(out, "Schema is up to date.")
				return nil
			}
			for _, d := range drift {
				if d.Missing {
					fmt.Fprintf(out, "%s: table missing\n", d.Table)
					continue
				}
				if len(d.MissingColumns) > 0 {
					fmt.Fprintf(out, "%s: missing columns %s\n", d.Table, strings.Join(d.MissingColumns, ", "))
				}
				if len(d.MissingIndexes) > 0 {
					fmt.Fprintf(out, "%s: missing indexes %s\n", d.Table, strings.Join(d.MissingIndexes, ", "))
				}
			}
			return fmt.Errorf("schema drift detected in %d tables", len(drift))
		},
	}
}
