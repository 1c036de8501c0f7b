package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	internalApp "github.com/felixgeelhaar/lumina/internal/app"
	"github.com/felixgeelhaar/lumina/internal/shared/infrastructure/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Apply or inspect the embedded schema migrations.

The server applies pending migrations on start; these commands are for
preparing a database ahead of time.`,
}

var migrateRunCmd = &cobra.Command{
	Use:     "run",
	Aliases: []string{"up"},
	Short:   "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		conn, err := internalApp.OpenDatabase(cmd.Context(), app.Config)
		if err != nil {
			return err
		}
		defer conn.Close()

		applied, err := migrations.Run(cmd.Context(), conn)
		for _, version := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", version)
		}
		if err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		}
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		conn, err := internalApp.OpenDatabase(cmd.Context(), app.Config)
		if err != nil {
			return err
		}
		defer conn.Close()

		pending, err := migrations.Pending(cmd.Context(), conn)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		}
		for _, version := range pending {
			fmt.Fprintf(cmd.OutOrStdout(), "pending %s\n", version)
		}
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateRunCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}
