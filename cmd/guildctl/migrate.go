package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgo/guildhall/api/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded schema",
	Long: `Apply every embedded schema file in order. Definitions are written
with IF NOT EXISTS / OVERWRITE, so running migrate twice is safe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		_, db, err := connect(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		applied, err := migrations.Apply(ctx, db)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		for _, name := range applied {
			fmt.Fprintln(cmd.OutOrStdout(), "applied", name)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d migrations applied\n", len(applied))
		return nil
	},
}
