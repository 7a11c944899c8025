package field

import (
	"github.com/google/uuid"

	"github.com/teamerhq/teamer/internal/models"
	"github.com/teamerhq/teamer/internal/user"
)

type ScheduleStatus string

const (
	StatusAvailable   ScheduleStatus = "available"
	StatusBooked      ScheduleStatus = "booked"
	StatusMaintenance ScheduleStatus = "maintenance"
)

func (s ScheduleStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusBooked, StatusMaintenance:
		return true
	}
	return false
}

// Field is a bookable football pitch owned by a field manager.
type Field struct {
	models.Base
	Name            string              `gorm:"not null" json:"name"`
	Description     *string             `json:"description,omitempty"`
	Address         string              `gorm:"not null" json:"address"`
	District        string              `gorm:"not null;index" json:"district"`
	Coordinates     *models.Coordinates `gorm:"type:json" json:"coordinates,omitempty"`
	MaxPlayersCount int                 `gorm:"not null" json:"maxPlayersCount"`
	LengthMeters    *float64            `json:"lengthMeters,omitempty"`
	WidthMeters     *float64            `json:"widthMeters,omitempty"`
	PriceFrom       *float64            `json:"priceFrom,omitempty"`
	PriceTo         *float64            `json:"priceTo,omitempty"`
	ManagerPhone    *string             `json:"managerPhone,omitempty"`
	GoogleMapsLink  *string             `json:"googleMapsLink,omitempty"`
	ImageURL        *string             `json:"imageUrl,omitempty"`
	ManagerID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"managerId"`
	Manager         *user.User          `gorm:"foreignKey:ManagerID;constraint:OnDelete:RESTRICT" json:"-"`
	Schedules       []FieldSchedule     `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE" json:"schedules,omitempty"`
}

// FieldSchedule is one window of a field's calendar.
type FieldSchedule struct {
	models.Base
	FieldID   uuid.UUID        `gorm:"type:uuid;not null;index:idx_schedule_window,priority:1" json:"fieldId"`
	Date      models.Date      `gorm:"not null;index:idx_schedule_window,priority:2" json:"date"`
	StartTime models.TimeOfDay `gorm:"not null" json:"startTime"`
	EndTime   models.TimeOfDay `gorm:"not null" json:"endTime"`
	Status    ScheduleStatus   `gorm:"type:varchar(16);not null;default:available" json:"status"`
	BookedBy  *uuid.UUID       `gorm:"type:uuid" json:"bookedBy,omitempty"`
	GameID    *uuid.UUID       `gorm:"type:uuid;index" json:"gameId,omitempty"`
}

// FieldView is what the API returns: the field plus an optional manager
// summary in place of the full user row.
type FieldView struct {
	Field
	Manager *user.Summary `json:"manager,omitempty"`
}

func newView(f *Field) FieldView {
	v := FieldView{Field: *f}
	if f.Manager != nil {
		s := f.Manager.Summary()
		v.Manager = &s
	}
	return v
}

// Filter selects fields for ListFields. Zero values mean "any".
type Filter struct {
	ManagerID     *uuid.UUID
	District      string
	WithSchedules bool
	WithManager   bool
}

// DateRange bounds are inclusive; a nil bound is open.
type DateRange struct {
	From *models.Date
	To   *models.Date
}

func (r DateRange) Contains(d models.Date) bool {
	if r.From != nil && d.Before(*r.From) {
		return false
	}
	if r.To != nil && d.After(*r.To) {
		return false
	}
	return true
}

// Slot is a resolved availability window. Slots synthesized from games have
// no ID.
type Slot struct {
	ID        *uuid.UUID       `json:"id,omitempty"`
	FieldID   uuid.UUID        `json:"fieldId"`
	Date      models.Date      `json:"date"`
	StartTime models.TimeOfDay `json:"startTime"`
	EndTime   models.TimeOfDay `json:"endTime"`
	Status    ScheduleStatus   `json:"status"`
	BookedBy  *uuid.UUID       `json:"bookedBy,omitempty"`
	GameID    *uuid.UUID       `json:"gameId,omitempty"`
}

func slotOf(s *FieldSchedule) Slot {
	id := s.ID
	return Slot{
		ID:        &id,
		FieldID:   s.FieldID,
		Date:      s.Date,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Status:    s.Status,
		BookedBy:  s.BookedBy,
		GameID:    s.GameID,
	}
}

// FieldInput is the body of POST and PUT /fields. On update a nil ManagerID
// keeps the current manager.
type FieldInput struct {
	Name            string              `json:"name" binding:"required"`
	Description     *string             `json:"description"`
	Address         string              `json:"address" binding:"required"`
	District        string              `json:"district" binding:"required"`
	Coordinates     *models.Coordinates `json:"coordinates"`
	MaxPlayersCount int                 `json:"maxPlayersCount" binding:"required,min=2"`
	LengthMeters    *float64            `json:"lengthMeters" binding:"omitempty,gt=0"`
	WidthMeters     *float64            `json:"widthMeters" binding:"omitempty,gt=0"`
	PriceFrom       *float64            `json:"priceFrom" binding:"omitempty,gte=0"`
	PriceTo         *float64            `json:"priceTo" binding:"omitempty,gte=0"`
	ManagerPhone    *string             `json:"managerPhone"`
	GoogleMapsLink  *string             `json:"googleMapsLink" binding:"omitempty,url"`
	ImageURL        *string             `json:"imageUrl"`
	ManagerID       *uuid.UUID          `json:"managerId"`
}

func (in *FieldInput) apply(f *Field) {
	f.Name = in.Name
	f.Description = in.Description
	f.Address = in.Address
	f.District = in.District
	f.Coordinates = in.Coordinates
	f.MaxPlayersCount = in.MaxPlayersCount
	f.LengthMeters = in.LengthMeters
	f.WidthMeters = in.WidthMeters
	f.PriceFrom = in.PriceFrom
	f.PriceTo = in.PriceTo
	f.ManagerPhone = in.ManagerPhone
	f.GoogleMapsLink = in.GoogleMapsLink
	f.ImageURL = in.ImageURL
}

// ScheduleInput is the body of POST /fields/:id/schedule.
type ScheduleInput struct {
	Date      models.Date      `json:"date"`
	StartTime models.TimeOfDay `json:"startTime"`
	EndTime   models.TimeOfDay `json:"endTime" binding:"required"`
	Status    ScheduleStatus   `json:"status" binding:"omitempty,oneof=available booked maintenance"`
	BookedBy  *uuid.UUID       `json:"bookedBy"`
	GameID    *uuid.UUID       `json:"gameId"`
}
