package cmd

import (
	"github.com/spf13/cobra"

	"github.com/teamerhq/teamer/config"
	"github.com/teamerhq/teamer/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.ConnectDB(cfg)
		if err != nil {
			return err
		}
		return database.Migrate(db)
	},
}
