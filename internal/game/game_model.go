package game

import (
	"github.com/google/uuid"

	"github.com/teamerhq/teamer/internal/field"
	"github.com/teamerhq/teamer/internal/models"
	"github.com/teamerhq/teamer/internal/team"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// transitions lists the legal next states. Completed and cancelled are
// terminal.
var transitions = map[Status][]Status{
	StatusScheduled:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Game is a match between two teams on a field.
type Game struct {
	models.Base
	FieldID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"fieldId"`
	Field     *field.Field      `gorm:"foreignKey:FieldID;constraint:OnDelete:RESTRICT" json:"-"`
	TeamAID   uuid.UUID         `gorm:"column:team_a_id;type:uuid;not null;index" json:"teamAId"`
	TeamA     *team.Team        `gorm:"foreignKey:TeamAID;constraint:OnDelete:RESTRICT" json:"-"`
	TeamBID   uuid.UUID         `gorm:"column:team_b_id;type:uuid;not null;index" json:"teamBId"`
	TeamB     *team.Team        `gorm:"foreignKey:TeamBID;constraint:OnDelete:RESTRICT" json:"-"`
	Date      models.Date       `gorm:"not null;index" json:"date"`
	StartTime *models.TimeOfDay `json:"startTime"`
	EndTime   *models.TimeOfDay `json:"endTime"`
	Status    Status            `gorm:"type:varchar(16);not null;default:scheduled;index" json:"status"`
	Score     *models.Score     `gorm:"type:json" json:"score"`
	CreatedBy uuid.UUID         `gorm:"type:uuid;index" json:"createdBy"`
}

// FieldSummary is the part of a field shown with a game.
type FieldSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	District        string    `json:"district"`
	Address         string    `json:"address"`
	MaxPlayersCount int       `json:"maxPlayersCount"`
	PriceFrom       *float64  `json:"priceFrom"`
	PriceTo         *float64  `json:"priceTo"`
	ImageURL        string    `json:"imageUrl"`
}

type TeamSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// GameView is the API shape of a game.
type GameView struct {
	ID        uuid.UUID         `json:"id"`
	Field     FieldSummary      `json:"field"`
	TeamA     TeamSummary       `json:"teamA"`
	TeamB     TeamSummary       `json:"teamB"`
	Date      models.Date       `json:"date"`
	StartTime *models.TimeOfDay `json:"startTime"`
	EndTime   *models.TimeOfDay `json:"endTime"`
	Status    Status            `json:"status"`
	Score     *models.Score     `json:"score"`
	CreatedBy uuid.UUID         `json:"createdBy"`
}

// CreateGameInput is the body of POST /games.
type CreateGameInput struct {
	FieldID   uuid.UUID         `json:"fieldId" binding:"required"`
	TeamAID   uuid.UUID         `json:"teamAId" binding:"required"`
	TeamBID   uuid.UUID         `json:"teamBId" binding:"required"`
	Date      models.Date       `json:"date"`
	StartTime *models.TimeOfDay `json:"startTime"`
	EndTime   *models.TimeOfDay `json:"endTime"`
}

// UpdateStatusInput is the body of PATCH /games/:id/status. Score is
// required exactly when completing a game.
type UpdateStatusInput struct {
	Status Status        `json:"status" binding:"required,oneof=scheduled in_progress completed cancelled"`
	Score  *models.Score `json:"score"`
}
