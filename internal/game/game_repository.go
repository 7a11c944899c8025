package game

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teamerhq/teamer/internal/apperrors"
	"github.com/teamerhq/teamer/internal/field"
	"github.com/teamerhq/teamer/internal/models"
)

// GameRepository defines the database operations for games. It also serves
// the field resolver as a field.GameWindowSource.
type GameRepository interface {
	field.GameWindowSource

	ListUpcoming(ctx context.Context, from models.Date) ([]Game, error)
	ListOnFields(ctx context.Context, fieldIDs []uuid.UUID, date models.Date) ([]Game, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Game, error)
	Create(ctx context.Context, g *Game, bookedBy uuid.UUID) error
	UpdateStatus(ctx context.Context, g *Game) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gameRepository struct {
	db     *gorm.DB
	fields field.FieldRepository
}

// NewGameRepository needs the field repository to book and release the
// field windows of a game in the same transaction.
func NewGameRepository(db *gorm.DB, fields field.FieldRepository) GameRepository {
	return &gameRepository{db: db, fields: fields}
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Field").Preload("TeamA").Preload("TeamB")
}

func (r *gameRepository) ListUpcoming(ctx context.Context, from models.Date) ([]Game, error) {
	games := make([]Game, 0)
	err := withRelations(r.db.WithContext(ctx)).
		Where("status = ? AND date >= ?", StatusScheduled, from).
		Order("date").Order("start_time").Order("created_at").
		Find(&games).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "game")
	}
	return games, nil
}

func (r *gameRepository) ListOnFields(ctx context.Context, fieldIDs []uuid.UUID, date models.Date) ([]Game, error) {
	games := make([]Game, 0)
	if len(fieldIDs) == 0 {
		return games, nil
	}
	err := withRelations(r.db.WithContext(ctx)).
		Where("field_id IN ? AND date = ? AND status = ?", fieldIDs, date, StatusScheduled).
		Order("start_time").Order("created_at").
		Find(&games).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "game")
	}
	return games, nil
}

func (r *gameRepository) GetByID(ctx context.Context, id uuid.UUID) (*Game, error) {
	var g Game
	if err := withRelations(r.db.WithContext(ctx)).First(&g, "id = ?", id).Error; err != nil {
		return nil, apperrors.FromStore(err, "game")
	}
	return &g, nil
}

// Create inserts the game and, when it has both times, books the field
// window for it. An overlapping booking aborts the whole insert. bookedBy is
// recorded as the creator unless the game already names one.
func (r *gameRepository) Create(ctx context.Context, g *Game, bookedBy uuid.UUID) error {
	if g.CreatedBy == uuid.Nil {
		g.CreatedBy = bookedBy
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(g).Error; err != nil {
			return apperrors.FromStore(err, "game")
		}
		if g.StartTime == nil || g.EndTime == nil {
			return nil
		}
		gameID := g.ID
		slot := &field.FieldSchedule{
			FieldID:   g.FieldID,
			Date:      g.Date,
			StartTime: *g.StartTime,
			EndTime:   *g.EndTime,
			Status:    field.StatusBooked,
			BookedBy:  &bookedBy,
			GameID:    &gameID,
		}
		return r.fields.WithTx(tx).AddSchedule(ctx, slot)
	})
}

// UpdateStatus persists status and score. Cancelling releases the game's
// booked window.
func (r *gameRepository) UpdateStatus(ctx context.Context, g *Game) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Game{}).Where("id = ?", g.ID).Updates(map[string]interface{}{
			"status": g.Status,
			"score":  g.Score,
		})
		if res.Error != nil {
			return apperrors.FromStore(res.Error, "game")
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("game")
		}
		if g.Status == StatusCancelled {
			return r.fields.WithTx(tx).ReleaseGameSlots(ctx, g.ID)
		}
		return nil
	})
}

func (r *gameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.fields.WithTx(tx).ReleaseGameSlots(ctx, id); err != nil {
			return err
		}
		res := tx.Delete(&Game{}, "id = ?", id)
		if res.Error != nil {
			return apperrors.FromStore(res.Error, "game")
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("game")
		}
		return nil
	})
}

// ActiveGameWindows returns scheduled and in-progress games on the field
// that have both a start and an end time.
func (r *gameRepository) ActiveGameWindows(ctx context.Context, fieldID uuid.UUID, dr field.DateRange) ([]field.GameWindow, error) {
	query := r.db.WithContext(ctx).
		Where("field_id = ? AND status IN ?", fieldID, []Status{StatusScheduled, StatusInProgress}).
		Where("start_time IS NOT NULL AND end_time IS NOT NULL")
	if dr.From != nil {
		query = query.Where("date >= ?", *dr.From)
	}
	if dr.To != nil {
		query = query.Where("date <= ?", *dr.To)
	}

	var games []Game
	if err := query.Order("date").Order("start_time").Find(&games).Error; err != nil {
		return nil, apperrors.FromStore(err, "game")
	}

	windows := make([]field.GameWindow, 0, len(games))
	for _, g := range games {
		windows = append(windows, field.GameWindow{
			GameID:    g.ID,
			Date:      g.Date,
			StartTime: *g.StartTime,
			EndTime:   *g.EndTime,
		})
	}
	return windows, nil
}
