package team

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/teamerhq/teamer/internal/apperrors"
)

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Team, error)
	Create(ctx context.Context, t *Team) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, m *TeamMember) error
	GetMember(ctx context.Context, teamID, userID uuid.UUID) (*TeamMember, error)
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error

	WithTransaction(ctx context.Context, txFunc func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func withMembers(db *gorm.DB) *gorm.DB {
	return db.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("joined_at")
	}).Preload("Members.User")
}

func (r *teamRepository) List(ctx context.Context) ([]Team, error) {
	teams := make([]Team, 0)
	if err := withMembers(r.db.WithContext(ctx)).Order("created_at").Find(&teams).Error; err != nil {
		return nil, apperrors.FromStore(err, "team")
	}
	return teams, nil
}

func (r *teamRepository) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	var t Team
	if err := withMembers(r.db.WithContext(ctx)).First(&t, "id = ?", id).Error; err != nil {
		return nil, apperrors.FromStore(err, "team")
	}
	return &t, nil
}

// GetByIDs returns the teams that exist among ids, without members.
func (r *teamRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Team, error) {
	teams := make([]Team, 0, len(ids))
	if len(ids) == 0 {
		return teams, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&teams).Error; err != nil {
		return nil, apperrors.FromStore(err, "team")
	}
	return teams, nil
}

func (r *teamRepository) Create(ctx context.Context, t *Team) error {
	return apperrors.FromStore(r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error, "team")
}

// Delete removes the team and its memberships. Teams that still play in a
// game are kept.
func (r *teamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var games int64
		err := tx.Table("games").Where("team_a_id = ? OR team_b_id = ?", id, id).Count(&games).Error
		if err != nil {
			return apperrors.FromStore(err, "team")
		}
		if games > 0 {
			return apperrors.Conflict("team is scheduled in %d game(s)", games)
		}
		if err := tx.Where("team_id = ?", id).Delete(&TeamMember{}).Error; err != nil {
			return apperrors.FromStore(err, "team member")
		}
		res := tx.Delete(&Team{}, "id = ?", id)
		if res.Error != nil {
			return apperrors.FromStore(res.Error, "team")
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("team")
		}
		return nil
	})
}

func (r *teamRepository) AddMember(ctx context.Context, m *TeamMember) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&TeamMember{}).
		Where("team_id = ? AND user_id = ?", m.TeamID, m.UserID).
		Count(&count).Error
	if err != nil {
		return apperrors.FromStore(err, "team member")
	}
	if count > 0 {
		return apperrors.Conflict("user is already a member of this team")
	}
	return apperrors.FromStore(r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error, "team member")
}

func (r *teamRepository) GetMember(ctx context.Context, teamID, userID uuid.UUID) (*TeamMember, error) {
	var m TeamMember
	err := r.db.WithContext(ctx).Preload("User").
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&m).Error
	if err != nil {
		return nil, apperrors.FromStore(err, "team member")
	}
	return &m, nil
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&TeamMember{})
	if res.Error != nil {
		return apperrors.FromStore(res.Error, "team member")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("team member")
	}
	return nil
}

func (r *teamRepository) WithTransaction(ctx context.Context, txFunc func(TeamRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return txFunc(&teamRepository{db: tx})
	})
}
