package field

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/teamerhq/teamer/internal/apperrors"
	"github.com/teamerhq/teamer/internal/metrics"
	"github.com/teamerhq/teamer/internal/models"
	"github.com/teamerhq/teamer/internal/user"
)

// GameWindow is the time window of a scheduled or in-progress game.
type GameWindow struct {
	GameID    uuid.UUID
	Date      models.Date
	StartTime models.TimeOfDay
	EndTime   models.TimeOfDay
}

// GameWindowSource lists active games on a field. It is implemented by the
// game repository.
type GameWindowSource interface {
	ActiveGameWindows(ctx context.Context, fieldID uuid.UUID, r DateRange) ([]GameWindow, error)
}

type Service struct {
	fields  FieldRepository
	users   user.UserRepository
	games   GameWindowSource
	metrics metrics.Metrics
}

func NewService(fields FieldRepository, users user.UserRepository, games GameWindowSource, m metrics.Metrics) *Service {
	if m == nil {
		m = metrics.Noop{}
	}
	return &Service{fields: fields, users: users, games: games, metrics: m}
}

func (s *Service) ListFields(ctx context.Context, f Filter) ([]FieldView, error) {
	fields, err := s.fields.List(ctx, f)
	if err != nil {
		return nil, err
	}
	views := make([]FieldView, len(fields))
	for i := range fields {
		views[i] = newView(&fields[i])
	}
	return views, nil
}

func (s *Service) GetField(ctx context.Context, id uuid.UUID) (*FieldView, error) {
	f, err := s.fields.GetByID(ctx, id, true, true)
	if err != nil {
		return nil, err
	}
	v := newView(f)
	return &v, nil
}

type windowKey struct {
	date       models.Date
	start, end models.TimeOfDay
}

// ResolveAvailability merges schedule rows and active games into one slot
// per exact window. Booked or maintenance rows win over available rows for
// the same window; games without a row of their own show up as booked.
func (s *Service) ResolveAvailability(ctx context.Context, fieldID uuid.UUID, r DateRange) ([]Slot, error) {
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return nil, apperrors.Invalid("startDate %s is after endDate %s", r.From, r.To)
	}
	if _, err := s.fields.GetByID(ctx, fieldID, false, false); err != nil {
		return nil, err
	}

	rows, err := s.fields.ListSchedules(ctx, fieldID, r)
	if err != nil {
		return nil, err
	}

	winners := make(map[windowKey]int)
	slots := make([]Slot, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		key := windowKey{row.Date, row.StartTime, row.EndTime}
		idx, seen := winners[key]
		switch {
		case !seen:
			winners[key] = len(slots)
			slots = append(slots, slotOf(row))
		case slots[idx].Status == StatusAvailable && row.Status != StatusAvailable:
			slots[idx] = slotOf(row)
		}
	}

	games, err := s.games.ActiveGameWindows(ctx, fieldID, r)
	if err != nil {
		return nil, err
	}
	for _, g := range games {
		key := windowKey{g.Date, g.StartTime, g.EndTime}
		if _, seen := winners[key]; seen {
			continue
		}
		gameID := g.GameID
		winners[key] = len(slots)
		slots = append(slots, Slot{
			FieldID:   fieldID,
			Date:      g.Date,
			StartTime: g.StartTime,
			EndTime:   g.EndTime,
			Status:    StatusBooked,
			GameID:    &gameID,
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if c := slots[i].Date.Compare(slots[j].Date); c != 0 {
			return c < 0
		}
		if slots[i].StartTime != slots[j].StartTime {
			return slots[i].StartTime < slots[j].StartTime
		}
		return slots[i].EndTime < slots[j].EndTime
	})
	return slots, nil
}

// CreateField registers a field. The manager is input.ManagerID when given,
// otherwise the actor, and must hold the field_manager role.
func (s *Service) CreateField(ctx context.Context, actorID uuid.UUID, in FieldInput) (*FieldView, error) {
	if err := validatePrices(in.PriceFrom, in.PriceTo); err != nil {
		return nil, err
	}

	candidate := actorID
	if in.ManagerID != nil {
		candidate = *in.ManagerID
	}
	if err := s.checkManager(ctx, candidate); err != nil {
		return nil, err
	}

	f := &Field{ManagerID: candidate}
	in.apply(f)
	if err := s.fields.Create(ctx, f); err != nil {
		return nil, err
	}
	s.metrics.IncFieldMutation("create")
	return s.GetField(ctx, f.ID)
}

// UpdateField replaces the field's attributes. Only the current manager may
// update; a manager transfer re-checks the new manager's role.
func (s *Service) UpdateField(ctx context.Context, actorID, id uuid.UUID, in FieldInput) (*FieldView, error) {
	f, err := s.fields.GetByID(ctx, id, false, false)
	if err != nil {
		return nil, err
	}
	if f.ManagerID != actorID {
		return nil, apperrors.Forbidden("only the field's manager can update it")
	}
	if err := validatePrices(in.PriceFrom, in.PriceTo); err != nil {
		return nil, err
	}
	if in.ManagerID != nil && *in.ManagerID != f.ManagerID {
		if err := s.checkManager(ctx, *in.ManagerID); err != nil {
			return nil, err
		}
		f.ManagerID = *in.ManagerID
	}

	in.apply(f)
	if err := s.fields.Update(ctx, f); err != nil {
		return nil, err
	}
	s.metrics.IncFieldMutation("update")
	return s.GetField(ctx, f.ID)
}

func (s *Service) DeleteField(ctx context.Context, actorID, id uuid.UUID) error {
	f, err := s.fields.GetByID(ctx, id, false, false)
	if err != nil {
		return err
	}
	if f.ManagerID != actorID {
		return apperrors.Forbidden("only the field's manager can delete it")
	}
	if err := s.fields.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.IncFieldMutation("delete")
	return nil
}

func (s *Service) AddSchedule(ctx context.Context, actorID, fieldID uuid.UUID, in ScheduleInput) (*FieldSchedule, error) {
	if err := s.requireManager(ctx, actorID, fieldID); err != nil {
		return nil, err
	}
	row := &FieldSchedule{
		FieldID:   fieldID,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Status:    in.Status,
		BookedBy:  in.BookedBy,
		GameID:    in.GameID,
	}
	if row.Status == "" {
		row.Status = StatusAvailable
	}
	if err := ValidateSchedule(row); err != nil {
		return nil, err
	}
	if err := s.fields.AddSchedule(ctx, row); err != nil {
		return nil, err
	}
	s.metrics.IncFieldMutation("schedule_add")
	return row, nil
}

func (s *Service) RemoveSchedule(ctx context.Context, actorID, fieldID, scheduleID uuid.UUID) error {
	if err := s.requireManager(ctx, actorID, fieldID); err != nil {
		return err
	}
	if err := s.fields.RemoveSchedule(ctx, fieldID, scheduleID); err != nil {
		return err
	}
	s.metrics.IncFieldMutation("schedule_remove")
	return nil
}

// ValidateSchedule checks the invariants of a single row.
func ValidateSchedule(row *FieldSchedule) error {
	switch {
	case row.Date.IsZero():
		return apperrors.Invalid("date is required")
	case !row.Status.Valid():
		return apperrors.Invalid("invalid schedule status %q", row.Status)
	case row.StartTime >= row.EndTime:
		return apperrors.Invalid("startTime %s must be before endTime %s", row.StartTime, row.EndTime)
	case row.Status == StatusBooked && row.BookedBy == nil && row.GameID == nil:
		return apperrors.Invalid("a booked slot needs bookedBy or gameId")
	}
	return nil
}

func (s *Service) requireManager(ctx context.Context, actorID, fieldID uuid.UUID) error {
	f, err := s.fields.GetByID(ctx, fieldID, false, false)
	if err != nil {
		return err
	}
	if f.ManagerID != actorID {
		return apperrors.Forbidden("only the field's manager can change its schedule")
	}
	return nil
}

func (s *Service) checkManager(ctx context.Context, id uuid.UUID) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return apperrors.Invalid("manager %s does not exist", id)
		}
		return err
	}
	if u.Role != user.RoleFieldManager {
		return apperrors.Forbidden("user %s is not a field manager", id)
	}
	return nil
}

func validatePrices(from, to *float64) error {
	if from != nil && to != nil && *from > *to {
		return apperrors.Invalid("priceFrom %.2f must not exceed priceTo %.2f", *from, *to)
	}
	return nil
}
