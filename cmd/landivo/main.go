package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"landivo/migration/commands"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "landivo",
		Short: "Landivo buyer back office",
	}

	rootCmd.AddCommand(
		serveCmd(),
		commands.MigrateCmd(commands.EnvDB),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
