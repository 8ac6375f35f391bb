package cmd

import (
	"fmt"

	"go-shop-ms/pkg/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap("migrate")
		if err != nil {
			return err
		}
		defer rt.close()

		if err := database.Migrate(rt.db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		rt.log.Info("migration_done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
