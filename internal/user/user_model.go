package user

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teamerhq/teamer/internal/models"
)

type Role string

const (
	RoleUser          Role = "user"
	RoleFieldManager  Role = "field_manager"
	RoleGameOrganizer Role = "game_organizer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleFieldManager, RoleGameOrganizer:
		return true
	}
	return false
}

// User is an account. PasswordHash never leaves the server.
type User struct {
	models.Base
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Name         string `gorm:"not null" json:"name"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"type:varchar(32);not null;default:user" json:"role"`
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// Summary is the public projection embedded in other resources.
type Summary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role Role      `json:"role,omitempty"`
}

func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Role: u.Role}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UpdateRoleRequest is the body of PATCH /users/:id/role.
type UpdateRoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=user field_manager game_organizer"`
}
