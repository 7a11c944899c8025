package team

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/teamerhq/teamer/internal/models"
	"github.com/teamerhq/teamer/internal/user"
)

type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// Team represents a group of players that can be scheduled into games.
type Team struct {
	models.Base
	Name        string       `gorm:"not null" json:"name"`
	Description *string      `json:"description,omitempty"`
	CreatedBy   uuid.UUID    `gorm:"type:uuid;not null;index" json:"createdBy"`
	Members     []TeamMember `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"members"`
}

// TeamMember represents a user's membership in a team. A user joins a team
// at most once.
type TeamMember struct {
	models.Base
	TeamID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_team_user,priority:1" json:"teamId"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_team_user,priority:2;index" json:"userId"`
	Role     MemberRole `gorm:"type:varchar(16);not null;default:member" json:"role"`
	JoinedAt time.Time  `gorm:"not null" json:"joinedAt"`
	User     *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if err := m.Base.BeforeCreate(tx); err != nil {
		return err
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	if m.Role == "" {
		m.Role = MemberRoleMember
	}
	return nil
}

// --- DTOs for requests ---

type CreateTeamRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type AddMemberRequest struct {
	UserID uuid.UUID  `json:"userId" binding:"required"`
	Role   MemberRole `json:"role" binding:"omitempty,oneof=admin member"`
}
