package user

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teamerhq/teamer/internal/apperrors"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role Role) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// RoleOf is used by the auth middleware on every authenticated request.
	RoleOf(ctx context.Context, id uuid.UUID) (string, error)

	// WithTx returns a repository bound to an open transaction.
	WithTx(tx *gorm.DB) UserRepository
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(ctx context.Context, u *User) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where("email = ?", NormalizeEmail(u.Email)).Count(&count).Error; err != nil {
		return apperrors.FromStore(err, "user")
	}
	if count > 0 {
		return apperrors.Conflict("user with email %s already exists", NormalizeEmail(u.Email))
	}
	return apperrors.FromStore(r.db.WithContext(ctx).Create(u).Error, "user")
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, apperrors.FromStore(err, "user")
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&u).Error; err != nil {
		return nil, apperrors.FromStore(err, "user")
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]User, error) {
	users := make([]User, 0)
	if err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, apperrors.FromStore(err, "user")
	}
	return users, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role Role) (*User, error) {
	if !role.Valid() {
		return nil, apperrors.Invalid("invalid role %q", role)
	}
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return nil, apperrors.FromStore(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("user")
	}
	return r.GetByID(ctx, id)
}

// Delete removes the user and their team memberships. Users that still
// manage fields cannot be deleted.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var managed int64
		if err := tx.Table("fields").Where("manager_id = ?", id).Count(&managed).Error; err != nil {
			return apperrors.FromStore(err, "user")
		}
		if managed > 0 {
			return apperrors.Conflict("user still manages %d field(s)", managed)
		}
		if err := tx.Exec("DELETE FROM team_members WHERE user_id = ?", id).Error; err != nil {
			return apperrors.FromStore(err, "user")
		}
		res := tx.Delete(&User{}, "id = ?", id)
		if res.Error != nil {
			return apperrors.FromStore(res.Error, "user")
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("user")
		}
		return nil
	})
}

func (r *userRepository) RoleOf(ctx context.Context, id uuid.UUID) (string, error) {
	var u User
	if err := r.db.WithContext(ctx).Select("role").First(&u, "id = ?", id).Error; err != nil {
		return "", apperrors.FromStore(err, "user")
	}
	return string(u.Role), nil
}
