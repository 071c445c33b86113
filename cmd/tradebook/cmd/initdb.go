package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the journal database schema",
	Long: `Create the SQLite journal database and its tables at the configured
path. Safe to run repeatedly.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	fmt.Printf("✓ Database initialized: %s\n", cfg.Journal.DBPath)
	return nil
}
