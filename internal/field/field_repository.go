package field

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teamerhq/teamer/internal/apperrors"
)

// FieldRepository defines all database operations for fields and their
// schedules.
type FieldRepository interface {
	List(ctx context.Context, f Filter) ([]Field, error)
	GetByID(ctx context.Context, id uuid.UUID, withSchedules, withManager bool) (*Field, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Field, error)
	IDsByDistrict(ctx context.Context, district string) ([]uuid.UUID, error)
	Create(ctx context.Context, f *Field) error
	Update(ctx context.Context, f *Field) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListSchedules(ctx context.Context, fieldID uuid.UUID, r DateRange) ([]FieldSchedule, error)
	AddSchedule(ctx context.Context, s *FieldSchedule) error
	RemoveSchedule(ctx context.Context, fieldID, scheduleID uuid.UUID) error
	ReleaseGameSlots(ctx context.Context, gameID uuid.UUID) error

	// WithTx returns a repository bound to an open transaction.
	WithTx(tx *gorm.DB) FieldRepository
}

type fieldRepository struct {
	db *gorm.DB
}

func NewFieldRepository(db *gorm.DB) FieldRepository {
	return &fieldRepository{db: db}
}

func (r *fieldRepository) WithTx(tx *gorm.DB) FieldRepository {
	return &fieldRepository{db: tx}
}

func managerSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "role")
}

func orderedSchedules(db *gorm.DB) *gorm.DB {
	return db.Order("date").Order("start_time")
}

func (r *fieldRepository) List(ctx context.Context, f Filter) ([]Field, error) {
	query := r.db.WithContext(ctx).Model(&Field{})
	if f.ManagerID != nil {
		query = query.Where("manager_id = ?", *f.ManagerID)
	}
	if district := strings.TrimSpace(f.District); district != "" {
		query = whereDistrict(query, district)
	}
	if f.WithSchedules {
		query = query.Preload("Schedules", orderedSchedules)
	}
	if f.WithManager {
		query = query.Preload("Manager", managerSummary)
	}

	fields := make([]Field, 0)
	if err := query.Order("created_at").Find(&fields).Error; err != nil {
		return nil, apperrors.FromStore(err, "field")
	}
	return fields, nil
}

func (r *fieldRepository) GetByID(ctx context.Context, id uuid.UUID, withSchedules, withManager bool) (*Field, error) {
	query := r.db.WithContext(ctx)
	if withSchedules {
		query = query.Preload("Schedules", orderedSchedules)
	}
	if withManager {
		query = query.Preload("Manager", managerSummary)
	}

	var f Field
	if err := query.First(&f, "id = ?", id).Error; err != nil {
		return nil, apperrors.FromStore(err, "field")
	}
	return &f, nil
}

func (r *fieldRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Field, error) {
	fields := make([]Field, 0, len(ids))
	if len(ids) == 0 {
		return fields, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&fields).Error; err != nil {
		return nil, apperrors.FromStore(err, "field")
	}
	return fields, nil
}

// whereDistrict matches the district case-insensitively, ignoring
// surrounding whitespace.
func whereDistrict(db *gorm.DB, district string) *gorm.DB {
	return db.Where("LOWER(TRIM(district)) = LOWER(?)", strings.TrimSpace(district))
}

func (r *fieldRepository) IDsByDistrict(ctx context.Context, district string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	err := whereDistrict(r.db.WithContext(ctx).Model(&Field{}), district).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "field")
	}
	return ids, nil
}

func (r *fieldRepository) Create(ctx context.Context, f *Field) error {
	return apperrors.FromStore(r.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error, "field")
}

func (r *fieldRepository) Update(ctx context.Context, f *Field) error {
	res := r.db.WithContext(ctx).Model(f).
		Select("*").Omit("CreatedAt", clause.Associations).
		Updates(f)
	if res.Error != nil {
		return apperrors.FromStore(res.Error, "field")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("field")
	}
	return nil
}

// Delete removes the field and its schedule rows. Fields still referenced by
// games are kept.
func (r *fieldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var games int64
		if err := tx.Table("games").Where("field_id = ?", id).Count(&games).Error; err != nil {
			return apperrors.FromStore(err, "field")
		}
		if games > 0 {
			return apperrors.Conflict("field is referenced by %d game(s)", games)
		}
		if err := tx.Where("field_id = ?", id).Delete(&FieldSchedule{}).Error; err != nil {
			return apperrors.FromStore(err, "field schedule")
		}
		res := tx.Delete(&Field{}, "id = ?", id)
		if res.Error != nil {
			return apperrors.FromStore(res.Error, "field")
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("field")
		}
		return nil
	})
}

func (r *fieldRepository) ListSchedules(ctx context.Context, fieldID uuid.UUID, dr DateRange) ([]FieldSchedule, error) {
	query := r.db.WithContext(ctx).Where("field_id = ?", fieldID)
	if dr.From != nil {
		query = query.Where("date >= ?", *dr.From)
	}
	if dr.To != nil {
		query = query.Where("date <= ?", *dr.To)
	}

	rows := make([]FieldSchedule, 0)
	if err := query.Order("date").Order("start_time").Order("created_at").Find(&rows).Error; err != nil {
		return nil, apperrors.FromStore(err, "field schedule")
	}
	return rows, nil
}

// AddSchedule inserts a schedule row. For non-available rows it locks the
// field and rejects any overlap with another non-available row on the same
// date.
func (r *fieldRepository) AddSchedule(ctx context.Context, s *FieldSchedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f Field
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").First(&f, "id = ?", s.FieldID).Error
		if err != nil {
			return apperrors.FromStore(err, "field")
		}

		if s.Status != StatusAvailable {
			var overlapping int64
			err := tx.Model(&FieldSchedule{}).
				Where("field_id = ? AND date = ? AND status <> ?", s.FieldID, s.Date, StatusAvailable).
				Where("start_time < ? AND end_time > ?", s.EndTime, s.StartTime).
				Count(&overlapping).Error
			if err != nil {
				return apperrors.FromStore(err, "field schedule")
			}
			if overlapping > 0 {
				return apperrors.Conflict("field is already booked or under maintenance on %s between %s and %s",
					s.Date, s.StartTime, s.EndTime)
			}
		}

		return apperrors.FromStore(tx.Create(s).Error, "field schedule")
	})
}

func (r *fieldRepository) RemoveSchedule(ctx context.Context, fieldID, scheduleID uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&FieldSchedule{}, "id = ? AND field_id = ?", scheduleID, fieldID)
	if res.Error != nil {
		return apperrors.FromStore(res.Error, "field schedule")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("field schedule")
	}
	return nil
}

// ReleaseGameSlots deletes the booked rows created for a game.
func (r *fieldRepository) ReleaseGameSlots(ctx context.Context, gameID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("game_id = ? AND status = ?", gameID, StatusBooked).
		Delete(&FieldSchedule{}).Error
	return apperrors.FromStore(err, "field schedule")
}
