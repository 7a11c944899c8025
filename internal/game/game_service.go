package game

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/teamerhq/teamer/internal/apperrors"
	"github.com/teamerhq/teamer/internal/field"
	"github.com/teamerhq/teamer/internal/metrics"
	"github.com/teamerhq/teamer/internal/models"
	"github.com/teamerhq/teamer/internal/team"
	"github.com/teamerhq/teamer/internal/user"
)

const fieldImageFallback = "/assets/images/fields/%s.jpg"

type Service struct {
	games   GameRepository
	fields  field.FieldRepository
	teams   team.TeamRepository
	users   user.UserRepository
	clock   clockwork.Clock
	loc     *time.Location
	metrics metrics.Metrics
}

type ServiceDeps struct {
	Games   GameRepository
	Fields  field.FieldRepository
	Teams   team.TeamRepository
	Users   user.UserRepository
	Clock   clockwork.Clock
	Loc     *time.Location // calendar "today" is taken in this zone
	Metrics metrics.Metrics
}

func NewService(d ServiceDeps) *Service {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Loc == nil {
		d.Loc = time.Local
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Noop{}
	}
	return &Service{
		games:   d.Games,
		fields:  d.Fields,
		teams:   d.Teams,
		users:   d.Users,
		clock:   d.Clock,
		loc:     d.Loc,
		metrics: d.Metrics,
	}
}

// Today is the server-local calendar date.
func (s *Service) Today() models.Date {
	return models.DateOf(s.clock.Now().In(s.loc))
}

// ListUpcoming returns scheduled games from today on, ordered by date and
// start time. Games without a start time come last within their date.
func (s *Service) ListUpcoming(ctx context.Context) ([]GameView, error) {
	games, err := s.games.ListUpcoming(ctx, s.Today())
	if err != nil {
		return nil, err
	}
	sortByDateAndStart(games)
	return toViews(games)
}

// Search finds scheduled games on fields in city for one day, today when
// date is nil.
func (s *Service) Search(ctx context.Context, city string, date *models.Date) ([]GameView, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, apperrors.Invalid("city is required")
	}
	day := s.Today()
	if date != nil {
		day = *date
	}

	fieldIDs, err := s.fields.IDsByDistrict(ctx, city)
	if err != nil {
		return nil, err
	}
	if len(fieldIDs) == 0 {
		s.metrics.IncGameSearch(city, 0)
		return []GameView{}, nil
	}

	games, err := s.games.ListOnFields(ctx, fieldIDs, day)
	if err != nil {
		return nil, err
	}
	sortByDateAndStart(games)
	views, err := toViews(games)
	if err != nil {
		return nil, err
	}
	s.metrics.IncGameSearch(city, len(views))
	return views, nil
}

func (s *Service) GetGame(ctx context.Context, id uuid.UUID) (*GameView, error) {
	g, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := toView(g)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateGame schedules a game. The actor must be a game organizer or a
// field manager. A game with both times books its field window.
func (s *Service) CreateGame(ctx context.Context, actorID uuid.UUID, in CreateGameInput) (*GameView, error) {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != user.RoleGameOrganizer && actor.Role != user.RoleFieldManager {
		return nil, apperrors.Forbidden("only game organizers and field managers can create games")
	}

	if err := validateGameInput(in); err != nil {
		return nil, err
	}
	if _, err := s.fields.GetByID(ctx, in.FieldID, false, false); err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.Invalid("field %s does not exist", in.FieldID)
		}
		return nil, err
	}
	teams, err := s.teams.GetByIDs(ctx, []uuid.UUID{in.TeamAID, in.TeamBID})
	if err != nil {
		return nil, err
	}
	if len(teams) != 2 {
		return nil, apperrors.Invalid("both teams must exist")
	}

	g := &Game{
		FieldID:   in.FieldID,
		TeamAID:   in.TeamAID,
		TeamBID:   in.TeamBID,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Status:    StatusScheduled,
		CreatedBy: actorID,
	}
	if err := s.games.Create(ctx, g, actorID); err != nil {
		return nil, err
	}
	s.metrics.IncGameMutation("create")
	return s.GetGame(ctx, g.ID)
}

// UpdateStatus moves a game along its lifecycle. A score is required when
// completing and rejected otherwise.
func (s *Service) UpdateStatus(ctx context.Context, actorID, id uuid.UUID, in UpdateStatusInput) (*GameView, error) {
	g, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeMutation(g, actorID); err != nil {
		return nil, err
	}
	if !in.Status.Valid() {
		return nil, apperrors.Invalid("invalid status %q", in.Status)
	}
	if !g.Status.CanTransitionTo(in.Status) {
		return nil, apperrors.Invalid("cannot change status from %s to %s", g.Status, in.Status)
	}

	switch {
	case in.Status == StatusCompleted && in.Score == nil:
		return nil, apperrors.Invalid("score is required to complete a game")
	case in.Status != StatusCompleted && in.Score != nil:
		return nil, apperrors.Invalid("score can only be set when completing a game")
	case in.Score != nil:
		if err := in.Score.Validate(); err != nil {
			return nil, apperrors.Invalid("%v", err)
		}
	}

	g.Status = in.Status
	g.Score = in.Score
	if err := s.games.UpdateStatus(ctx, g); err != nil {
		return nil, err
	}
	s.metrics.IncGameMutation(string(in.Status))
	return s.GetGame(ctx, id)
}

func (s *Service) DeleteGame(ctx context.Context, actorID, id uuid.UUID) error {
	g, err := s.games.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeMutation(g, actorID); err != nil {
		return err
	}
	if err := s.games.Delete(ctx, id); err != nil {
		return err
	}
	s.metrics.IncGameMutation("delete")
	return nil
}

// authorizeMutation lets the game's creator or the manager of its field
// change it.
func authorizeMutation(g *Game, actorID uuid.UUID) error {
	if g.Field == nil {
		return apperrors.Internal(nil, "game %s is missing its field", g.ID)
	}
	if actorID != g.CreatedBy && actorID != g.Field.ManagerID {
		return apperrors.Forbidden("only the game's organizer or the field's manager can change it")
	}
	return nil
}

func validateGameInput(in CreateGameInput) error {
	switch {
	case in.TeamAID == in.TeamBID:
		return apperrors.Invalid("a team cannot play against itself")
	case in.Date.IsZero():
		return apperrors.Invalid("date is required")
	case in.StartTime == nil && in.EndTime != nil:
		return apperrors.Invalid("endTime requires startTime")
	case in.StartTime != nil && in.EndTime != nil && *in.StartTime >= *in.EndTime:
		return apperrors.Invalid("startTime %s must be before endTime %s", in.StartTime, in.EndTime)
	}
	return nil
}

func sortByDateAndStart(games []Game) {
	sort.SliceStable(games, func(i, j int) bool {
		a, b := games[i], games[j]
		if c := a.Date.Compare(b.Date); c != 0 {
			return c < 0
		}
		switch {
		case a.StartTime == nil:
			return false
		case b.StartTime == nil:
			return true
		default:
			return *a.StartTime < *b.StartTime
		}
	})
}

func toViews(games []Game) ([]GameView, error) {
	views := make([]GameView, 0, len(games))
	for i := range games {
		v, err := toView(&games[i])
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// toView shapes a game with its preloaded relations. A missing relation
// means the store is inconsistent.
func toView(g *Game) (GameView, error) {
	if g.Field == nil || g.TeamA == nil || g.TeamB == nil {
		return GameView{}, apperrors.Internal(nil, "game %s is missing its field or a team", g.ID)
	}

	v := GameView{
		ID: g.ID,
		Field: FieldSummary{
			ID:              g.Field.ID,
			Name:            g.Field.Name,
			District:        g.Field.District,
			Address:         g.Field.Address,
			MaxPlayersCount: g.Field.MaxPlayersCount,
			PriceFrom:       g.Field.PriceFrom,
			PriceTo:         g.Field.PriceTo,
			ImageURL:        fieldImage(g.Field),
		},
		TeamA:     TeamSummary{ID: g.TeamA.ID, Name: g.TeamA.Name},
		TeamB:     TeamSummary{ID: g.TeamB.ID, Name: g.TeamB.Name},
		Date:      g.Date,
		StartTime: g.StartTime,
		EndTime:   g.EndTime,
		Status:    g.Status,
		CreatedBy: g.CreatedBy,
	}
	if g.Status == StatusCompleted {
		v.Score = g.Score
	}
	return v, nil
}

func fieldImage(f *field.Field) string {
	if f.ImageURL != nil && *f.ImageURL != "" {
		return *f.ImageURL
	}
	return fmt.Sprintf(fieldImageFallback, f.ID)
}
