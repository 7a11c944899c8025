// Package cmd holds the teamer command line.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/teamerhq/teamer/config"
	"github.com/teamerhq/teamer/internal/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "teamer",
	Short: "Football fields, teams and games",
	Long: `Teamer serves the REST API for football fields, teams and games.
Run "teamer serve" to start the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return err
		}
		logger.Setup(loaded.App.Env, loaded.App.LogLevel)
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "teamer: %s\n", err)
		os.Exit(1)
	}
}

// location is the zone the server's calendar "today" is taken in.
func location() *time.Location {
	loc, err := time.LoadLocation(cfg.DB.TimeZone)
	if err != nil {
		log.Warn().Err(err).Str("tz", cfg.DB.TimeZone).Msg("unknown time zone, using local time")
		return time.Local
	}
	return loc
}
