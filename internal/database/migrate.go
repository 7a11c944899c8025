// Package database owns the schema.
package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/teamerhq/teamer/internal/field"
	"github.com/teamerhq/teamer/internal/game"
	"github.com/teamerhq/teamer/internal/team"
	"github.com/teamerhq/teamer/internal/user"
)

// Models lists every persisted entity, parents before children.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&field.Field{},
		&field.FieldSchedule{},
		&team.Team{},
		&team.TeamMember{},
		&game.Game{},
	}
}

// Migrate creates or updates the tables for all entities.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info().Int("tables", len(Models())).Msg("database schema migrated")
	return nil
}
