// Package seed loads demo fixtures into an empty database.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/teamerhq/teamer/internal/field"
	"github.com/teamerhq/teamer/internal/game"
	"github.com/teamerhq/teamer/internal/models"
	"github.com/teamerhq/teamer/internal/team"
	"github.com/teamerhq/teamer/internal/user"
	"github.com/teamerhq/teamer/pkg/utils"
)

//go:embed fixtures/default.yaml
var defaultFixtures []byte

type Fixtures struct {
	Users     []UserFixture     `yaml:"users"`
	Fields    []FieldFixture    `yaml:"fields"`
	Teams     []TeamFixture     `yaml:"teams"`
	Schedules []ScheduleFixture `yaml:"schedules"`
	Games     []GameFixture     `yaml:"games"`
}

type UserFixture struct {
	Key      string    `yaml:"key"`
	Email    string    `yaml:"email"`
	Name     string    `yaml:"name"`
	Password string    `yaml:"password"`
	Role     user.Role `yaml:"role"`
}

type FieldFixture struct {
	Key             string   `yaml:"key"`
	Name            string   `yaml:"name"`
	Description     *string  `yaml:"description"`
	Address         string   `yaml:"address"`
	District        string   `yaml:"district"`
	Latitude        *float64 `yaml:"latitude"`
	Longitude       *float64 `yaml:"longitude"`
	MaxPlayersCount int      `yaml:"maxPlayersCount"`
	LengthMeters    *float64 `yaml:"lengthMeters"`
	WidthMeters     *float64 `yaml:"widthMeters"`
	PriceFrom       *float64 `yaml:"priceFrom"`
	PriceTo         *float64 `yaml:"priceTo"`
	ManagerPhone    *string  `yaml:"managerPhone"`
	ImageURL        *string  `yaml:"imageUrl"`
	Manager         string   `yaml:"manager"`
}

type TeamFixture struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Description *string  `yaml:"description"`
	CreatedBy   string   `yaml:"createdBy"`
	Members     []string `yaml:"members"`
}

type ScheduleFixture struct {
	Field     string               `yaml:"field"`
	DayOffset int                  `yaml:"dayOffset"`
	StartTime string               `yaml:"startTime"`
	EndTime   string               `yaml:"endTime"`
	Status    field.ScheduleStatus `yaml:"status"`
}

type GameFixture struct {
	Field     string `yaml:"field"`
	TeamA     string `yaml:"teamA"`
	TeamB     string `yaml:"teamB"`
	Organizer string `yaml:"organizer"`
	DayOffset int    `yaml:"dayOffset"`
	StartTime string `yaml:"startTime"`
	EndTime   string `yaml:"endTime"`
}

// Default returns the embedded demo fixtures.
func Default() (*Fixtures, error) {
	return Parse(defaultFixtures)
}

// Load reads fixtures from a YAML file.
func Load(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &fx, nil
}

// Seeder writes fixtures through the repositories so bookings and
// memberships follow the same rules as the API.
type Seeder struct {
	db    *gorm.DB
	clock clockwork.Clock
	loc   *time.Location
}

func NewSeeder(db *gorm.DB, clock clockwork.Clock, loc *time.Location) *Seeder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Seeder{db: db, clock: clock, loc: loc}
}

// Run inserts fx unless the database already has users. It reports whether
// anything was written.
func (s *Seeder) Run(ctx context.Context, fx *Fixtures) (bool, error) {
	var existing int64
	if err := s.db.WithContext(ctx).Model(&user.User{}).Count(&existing).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if existing > 0 {
		log.Info().Int64("users", existing).Msg("database already has data, skipping seed")
		return false, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.insert(ctx, tx, fx)
	})
	if err != nil {
		return false, err
	}
	log.Info().
		Int("users", len(fx.Users)).
		Int("fields", len(fx.Fields)).
		Int("teams", len(fx.Teams)).
		Int("games", len(fx.Games)).
		Msg("database seeded")
	return true, nil
}

func (s *Seeder) insert(ctx context.Context, tx *gorm.DB, fx *Fixtures) error {
	users := user.NewUserRepository(tx)
	fields := field.NewFieldRepository(tx)
	teams := team.NewTeamRepository(tx)
	games := game.NewGameRepository(tx, fields)
	today := models.DateOf(s.clock.Now().In(s.loc))

	userIDs := make(map[string]uuid.UUID, len(fx.Users))
	for _, uf := range fx.Users {
		hash, err := utils.HashPassword(uf.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", uf.Key, err)
		}
		u := &user.User{Email: uf.Email, Name: uf.Name, PasswordHash: hash, Role: uf.Role}
		if err := users.Create(ctx, u); err != nil {
			return fmt.Errorf("user %s: %w", uf.Key, err)
		}
		userIDs[uf.Key] = u.ID
	}

	fieldIDs := make(map[string]uuid.UUID, len(fx.Fields))
	for _, ff := range fx.Fields {
		managerID, ok := userIDs[ff.Manager]
		if !ok {
			return fmt.Errorf("field %s: unknown manager %q", ff.Key, ff.Manager)
		}
		f := &field.Field{
			Name:            ff.Name,
			Description:     ff.Description,
			Address:         ff.Address,
			District:        ff.District,
			MaxPlayersCount: ff.MaxPlayersCount,
			LengthMeters:    ff.LengthMeters,
			WidthMeters:     ff.WidthMeters,
			PriceFrom:       ff.PriceFrom,
			PriceTo:         ff.PriceTo,
			ManagerPhone:    ff.ManagerPhone,
			ImageURL:        ff.ImageURL,
			ManagerID:       managerID,
		}
		if ff.Latitude != nil && ff.Longitude != nil {
			f.Coordinates = &models.Coordinates{Latitude: *ff.Latitude, Longitude: *ff.Longitude}
		}
		if err := fields.Create(ctx, f); err != nil {
			return fmt.Errorf("field %s: %w", ff.Key, err)
		}
		fieldIDs[ff.Key] = f.ID
	}

	teamIDs := make(map[string]uuid.UUID, len(fx.Teams))
	for _, tf := range fx.Teams {
		creator, ok := userIDs[tf.CreatedBy]
		if !ok {
			return fmt.Errorf("team %s: unknown creator %q", tf.Key, tf.CreatedBy)
		}
		t := &team.Team{Name: tf.Name, Description: tf.Description, CreatedBy: creator}
		if err := teams.Create(ctx, t); err != nil {
			return fmt.Errorf("team %s: %w", tf.Key, err)
		}
		if err := teams.AddMember(ctx, &team.TeamMember{TeamID: t.ID, UserID: creator, Role: team.MemberRoleAdmin}); err != nil {
			return fmt.Errorf("team %s creator: %w", tf.Key, err)
		}
		for _, m := range tf.Members {
			memberID, ok := userIDs[m]
			if !ok {
				return fmt.Errorf("team %s: unknown member %q", tf.Key, m)
			}
			if err := teams.AddMember(ctx, &team.TeamMember{TeamID: t.ID, UserID: memberID}); err != nil {
				return fmt.Errorf("team %s member %s: %w", tf.Key, m, err)
			}
		}
		teamIDs[tf.Key] = t.ID
	}

	for i, sf := range fx.Schedules {
		fieldID, ok := fieldIDs[sf.Field]
		if !ok {
			return fmt.Errorf("schedule %d: unknown field %q", i, sf.Field)
		}
		start, err := models.ParseTimeOfDay(sf.StartTime)
		if err != nil {
			return fmt.Errorf("schedule %d: %w", i, err)
		}
		end, err := models.ParseTimeOfDay(sf.EndTime)
		if err != nil {
			return fmt.Errorf("schedule %d: %w", i, err)
		}
		row := &field.FieldSchedule{
			FieldID:   fieldID,
			Date:      today.AddDays(sf.DayOffset),
			StartTime: start,
			EndTime:   end,
			Status:    sf.Status,
		}
		if row.Status == "" {
			row.Status = field.StatusAvailable
		}
		if err := field.ValidateSchedule(row); err != nil {
			return fmt.Errorf("schedule %d: %w", i, err)
		}
		if err := fields.AddSchedule(ctx, row); err != nil {
			return fmt.Errorf("schedule %d: %w", i, err)
		}
	}

	for i, gf := range fx.Games {
		g := &game.Game{
			FieldID: fieldIDs[gf.Field],
			TeamAID: teamIDs[gf.TeamA],
			TeamBID: teamIDs[gf.TeamB],
			Date:    today.AddDays(gf.DayOffset),
			Status:  game.StatusScheduled,
		}
		if g.FieldID == uuid.Nil || g.TeamAID == uuid.Nil || g.TeamBID == uuid.Nil {
			return fmt.Errorf("game %d: unknown field or team", i)
		}
		if gf.StartTime != "" {
			start, err := models.ParseTimeOfDay(gf.StartTime)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			g.StartTime = &start
		}
		if gf.EndTime != "" {
			end, err := models.ParseTimeOfDay(gf.EndTime)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			g.EndTime = &end
		}
		if err := games.Create(ctx, g, userIDs[gf.Organizer]); err != nil {
			return fmt.Errorf("game %d: %w", i, err)
		}
	}
	return nil
}
