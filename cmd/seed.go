package cmd

import (
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/teamerhq/teamer/config"
	"github.com/teamerhq/teamer/internal/database"
	"github.com/teamerhq/teamer/internal/seed"
)

var fixturesFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo users, fields, teams and games into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		fx, err := loadFixtures()
		if err != nil {
			return err
		}

		db, err := config.ConnectDB(cfg)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		seeder := seed.NewSeeder(db, clockwork.NewRealClock(), location())
		written, err := seeder.Run(cmd.Context(), fx)
		if err != nil {
			return err
		}
		if !written {
			cmd.Println("database already has data, nothing seeded")
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&fixturesFile, "file", "f", "", "YAML fixtures to load instead of the built-in demo data")
}

func loadFixtures() (*seed.Fixtures, error) {
	if fixturesFile == "" {
		return seed.Default()
	}
	return seed.Load(fixturesFile)
}
