package game_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teamerhq/teamer/internal/apperrors"
	"github.com/teamerhq/teamer/internal/common"
	"github.com/teamerhq/teamer/internal/database"
	"github.com/teamerhq/teamer/internal/field"
	"github.com/teamerhq/teamer/internal/game"
	"github.com/teamerhq/teamer/internal/metrics"
	"github.com/teamerhq/teamer/internal/models"
	"github.com/teamerhq/teamer/internal/team"
	"github.com/teamerhq/teamer/internal/testutil"
	"github.com/teamerhq/teamer/internal/user"
)

var kyiv = time.FixedZone("EEST", 3*60*60)

type env struct {
	db        *gorm.DB
	svc       *game.Service
	fieldSvc  *field.Service
	fields    field.FieldRepository
	clock     *clockwork.FakeClock
	metrics   *metrics.Mock
	manager   *user.User
	organizer *user.User
	rival     *user.User
	player    *user.User
	kyivField *field.Field
	lvivField *field.Field
	lions     *team.Team
	wolves    *team.Team
}

func newEnv(t *testing.T) *env {
	db := testutil.NewDB(t, database.Models()...)
	ctx := context.Background()

	users := user.NewUserRepository(db)
	fields := field.NewFieldRepository(db)
	teams := team.NewTeamRepository(db)
	games := game.NewGameRepository(db, fields)

	e := &env{
		db:      db,
		fields:  fields,
		clock:   clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)),
		metrics: metrics.NewMock(),
	}
	e.svc = game.NewService(game.ServiceDeps{
		Games: games, Fields: fields, Teams: teams, Users: users,
		Clock: e.clock, Loc: kyiv, Metrics: e.metrics,
	})
	e.fieldSvc = field.NewService(fields, users, games, e.metrics)

	e.manager = &user.User{Email: "olena@example.com", Name: "Olena", PasswordHash: "x", Role: user.RoleFieldManager}
	e.organizer = &user.User{Email: "iryna@example.com", Name: "Iryna", PasswordHash: "x", Role: user.RoleGameOrganizer}
	e.rival = &user.User{Email: "taras@example.com", Name: "Taras", PasswordHash: "x", Role: user.RoleGameOrganizer}
	e.player = &user.User{Email: "andrii@example.com", Name: "Andrii", PasswordHash: "x"}
	for _, u := range []*user.User{e.manager, e.organizer, e.rival, e.player} {
		require.NoError(t, users.Create(ctx, u))
	}

	e.kyivField = &field.Field{Name: "Obolon Arena", Address: "Obolonska 1", District: "Kyiv", MaxPlayersCount: 14, ManagerID: e.manager.ID}
	e.lvivField = &field.Field{Name: "Stryiskyi Park", Address: "Stryiska 2", District: " lviv ", MaxPlayersCount: 10, ManagerID: e.manager.ID}
	require.NoError(t, fields.Create(ctx, e.kyivField))
	require.NoError(t, fields.Create(ctx, e.lvivField))

	e.lions = &team.Team{Name: "Lions", CreatedBy: e.organizer.ID}
	e.wolves = &team.Team{Name: "Wolves", CreatedBy: e.organizer.ID}
	require.NoError(t, teams.Create(ctx, e.lions))
	require.NoError(t, teams.Create(ctx, e.wolves))
	return e
}

func ptr(s string) *models.TimeOfDay {
	t := models.MustTimeOfDay(s)
	return &t
}

func (e *env) create(t *testing.T, f *field.Field, d models.Date, start, end string) *game.GameView {
	in := game.CreateGameInput{FieldID: f.ID, TeamAID: e.lions.ID, TeamBID: e.wolves.ID, Date: d}
	if start != "" {
		in.StartTime = ptr(start)
	}
	if end != "" {
		in.EndTime = ptr(end)
	}
	v, err := e.svc.CreateGame(context.Background(), e.organizer.ID, in)
	require.NoError(t, err)
	return v
}

func TestTodayUsesServerLocation(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, "2026-10-19", e.svc.Today().String())

	// 22:30 UTC is already the 20th in Kyiv.
	e.clock.Advance(13*time.Hour + 30*time.Minute)
	assert.Equal(t, "2026-10-20", e.svc.Today().String())
}

func TestCreateGameBooksWindow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	today := e.svc.Today()

	v := e.create(t, e.kyivField, today, "18:00", "19:30")
	assert.Equal(t, game.StatusScheduled, v.Status)
	assert.Equal(t, "Obolon Arena", v.Field.Name)
	assert.Equal(t, fmt.Sprintf("/assets/images/fields/%s.jpg", e.kyivField.ID), v.Field.ImageURL)
	assert.Equal(t, "Lions", v.TeamA.Name)
	assert.Nil(t, v.Score)
	assert.Equal(t, 1, e.metrics.GameMutations("create"))

	var rows []field.FieldSchedule
	require.NoError(t, e.db.Where("game_id = ?", v.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, field.StatusBooked, rows[0].Status)
	assert.Equal(t, e.organizer.ID, *rows[0].BookedBy)

	// Overlapping game on the same field rolls back entirely.
	_, err := e.svc.CreateGame(ctx, e.organizer.ID, game.CreateGameInput{
		FieldID: e.kyivField.ID, TeamAID: e.lions.ID, TeamBID: e.wolves.ID,
		Date: today, StartTime: ptr("19:00"), EndTime: ptr("20:00"),
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	var count int64
	require.NoError(t, e.db.Model(&game.Game{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// No times means no booking.
	e.create(t, e.kyivField, today, "", "")
	require.NoError(t, e.db.Model(&field.FieldSchedule{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateGameValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	today := e.svc.Today()

	base := func() game.CreateGameInput {
		return game.CreateGameInput{FieldID: e.kyivField.ID, TeamAID: e.lions.ID, TeamBID: e.wolves.ID, Date: today}
	}

	cases := map[string]struct {
		mutate func(*game.CreateGameInput)
		want   error
	}{
		"same team":         {func(in *game.CreateGameInput) { in.TeamBID = in.TeamAID }, apperrors.ErrInvalidArgument},
		"no date":           {func(in *game.CreateGameInput) { in.Date = models.Date{} }, apperrors.ErrInvalidArgument},
		"end without start": {func(in *game.CreateGameInput) { in.EndTime = ptr("10:00") }, apperrors.ErrInvalidArgument},
		"start after end":   {func(in *game.CreateGameInput) { in.StartTime, in.EndTime = ptr("11:00"), ptr("10:00") }, apperrors.ErrInvalidArgument},
		"unknown field":     {func(in *game.CreateGameInput) { in.FieldID = uuid.New() }, apperrors.ErrInvalidArgument},
		"unknown team":      {func(in *game.CreateGameInput) { in.TeamBID = uuid.New() }, apperrors.ErrInvalidArgument},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := base()
			tc.mutate(&in)
			_, err := e.svc.CreateGame(ctx, e.organizer.ID, in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := e.svc.CreateGame(ctx, e.player.ID, base())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSearch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	today := e.svc.Today()

	late := e.create(t, e.kyivField, today, "20:00", "21:00")
	untimed := e.create(t, e.kyivField, today, "", "")
	early := e.create(t, e.kyivField, today, "18:00", "19:30")
	e.create(t, e.kyivField, today.AddDays(1), "18:00", "19:30")
	lviv := e.create(t, e.lvivField, today, "17:00", "18:30")

	got, err := e.svc.Search(ctx, "  KYIV ", nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uuid.UUID{early.ID, late.ID, untimed.ID}, []uuid.UUID{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, 1, e.metrics.Searches("KYIV"))

	got, err = e.svc.Search(ctx, "Lviv", &today)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, lviv.ID, got[0].ID)

	tomorrow := today.AddDays(1)
	got, err = e.svc.Search(ctx, "kyiv", &tomorrow)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = e.svc.Search(ctx, "Odesa", nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = e.svc.Search(ctx, "   ", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	// Cancelled games drop out of search.
	_, err = e.svc.UpdateStatus(ctx, e.organizer.ID, early.ID, game.UpdateStatusInput{Status: game.StatusCancelled})
	require.NoError(t, err)
	got, err = e.svc.Search(ctx, "Kyiv", nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListUpcoming(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	today := e.svc.Today()

	e.create(t, e.kyivField, today.AddDays(-1), "18:00", "19:00")
	tomorrow := e.create(t, e.lvivField, today.AddDays(1), "09:00", "10:00")
	todayLate := e.create(t, e.kyivField, today, "18:00", "19:00")
	todayEarly := e.create(t, e.lvivField, today, "08:00", "09:00")

	got, err := e.svc.ListUpcoming(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, todayEarly.ID, got[0].ID)
	assert.Equal(t, todayLate.ID, got[1].ID)
	assert.Equal(t, tomorrow.ID, got[2].ID)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	g := e.create(t, e.kyivField, e.svc.Today(), "18:00", "19:30")

	_, err := e.svc.UpdateStatus(ctx, e.organizer.ID, g.ID, game.UpdateStatusInput{Status: game.StatusCompleted, Score: &models.Score{TeamA: 1}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument, "scheduled cannot jump to completed")

	_, err = e.svc.UpdateStatus(ctx, e.organizer.ID, g.ID, game.UpdateStatusInput{Status: game.StatusInProgress, Score: &models.Score{}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument, "score only on completion")

	v, err := e.svc.UpdateStatus(ctx, e.organizer.ID, g.ID, game.UpdateStatusInput{Status: game.StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, game.StatusInProgress, v.Status)

	_, err = e.svc.UpdateStatus(ctx, e.organizer.ID, g.ID, game.UpdateStatusInput{Status: game.StatusCompleted})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument, "completion needs a score")

	_, err = e.svc.UpdateStatus(ctx, e.organizer.ID, g.ID, game.UpdateStatusInput{Status: game.StatusCompleted, Score: &models.Score{TeamA: -1}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	v, err = e.svc.UpdateStatus(ctx, e.organizer.ID, g.ID, game.UpdateStatusInput{Status: game.StatusCompleted, Score: &models.Score{TeamA: 3, TeamB: 2}})
	require.NoError(t, err)
	require.NotNil(t, v.Score)
	assert.Equal(t, models.Score{TeamA: 3, TeamB: 2}, *v.Score)

	_, err = e.svc.UpdateStatus(ctx, e.organizer.ID, g.ID, game.UpdateStatusInput{Status: game.StatusCancelled})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument, "completed is terminal")

	_, err = e.svc.UpdateStatus(ctx, e.organizer.ID, uuid.New(), game.UpdateStatusInput{Status: game.StatusCancelled})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCancelAndDeleteReleaseWindow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	today := e.svc.Today()

	g := e.create(t, e.kyivField, today, "18:00", "19:30")
	_, err := e.svc.UpdateStatus(ctx, e.organizer.ID, g.ID, game.UpdateStatusInput{Status: game.StatusCancelled})
	require.NoError(t, err)

	slots, err := e.fieldSvc.ResolveAvailability(ctx, e.kyivField.ID, field.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, slots)

	// The window is free again.
	again := e.create(t, e.kyivField, today, "18:00", "19:30")
	slots, err = e.fieldSvc.ResolveAvailability(ctx, e.kyivField.ID, field.DateRange{})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, again.ID, *slots[0].GameID)

	require.NoError(t, e.svc.DeleteGame(ctx, e.organizer.ID, again.ID))
	slots, err = e.fieldSvc.ResolveAvailability(ctx, e.kyivField.ID, field.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, slots)

	assert.ErrorIs(t, e.svc.DeleteGame(ctx, e.organizer.ID, again.ID), apperrors.ErrNotFound)
}

func TestMutationsRequireOrganizerOrFieldManager(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	today := e.svc.Today()

	g := e.create(t, e.kyivField, today, "18:00", "19:30")
	assert.Equal(t, e.organizer.ID, g.CreatedBy)

	for _, stranger := range []*user.User{e.rival, e.player} {
		_, err := e.svc.UpdateStatus(ctx, stranger.ID, g.ID, game.UpdateStatusInput{Status: game.StatusCancelled})
		assert.ErrorIs(t, err, apperrors.ErrForbidden, stranger.Name)
		assert.ErrorIs(t, e.svc.DeleteGame(ctx, stranger.ID, g.ID), apperrors.ErrForbidden, stranger.Name)
	}
	got, err := e.svc.GetGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, game.StatusScheduled, got.Status)
	assert.Zero(t, e.metrics.GameMutations("cancelled"))

	// The field's manager may act on games played there.
	v, err := e.svc.UpdateStatus(ctx, e.manager.ID, g.ID, game.UpdateStatusInput{Status: game.StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, game.StatusInProgress, v.Status)
	require.NoError(t, e.svc.DeleteGame(ctx, e.manager.ID, g.ID))
}

// brokenGames returns a game whose second team has vanished.
type brokenGames struct {
	game.GameRepository
	g game.Game
}

func (b *brokenGames) ListUpcoming(context.Context, models.Date) ([]game.Game, error) {
	return []game.Game{b.g}, nil
}

func (b *brokenGames) GetByID(context.Context, uuid.UUID) (*game.Game, error) {
	g := b.g
	return &g, nil
}

func TestMissingTeamIsInternal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	broken := &brokenGames{g: game.Game{
		FieldID: e.kyivField.ID, Field: e.kyivField,
		TeamAID: e.lions.ID, TeamA: e.lions,
		TeamBID: uuid.New(),
		Date:    e.svc.Today(), Status: game.StatusScheduled,
	}}
	broken.g.ID = uuid.New()
	svc := game.NewService(game.ServiceDeps{Games: broken, Clock: e.clock, Loc: kyiv})

	_, err := svc.ListUpcoming(ctx)
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	_, err = svc.GetGame(ctx, broken.g.ID)
	assert.ErrorIs(t, err, apperrors.ErrInternal)

	r := newRouterAs(svc, e.organizer)
	for _, path := range []string{"/api/games", "/api/games/" + broken.g.ID.String()} {
		rr := do(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusInternalServerError, rr.Code, path)
		assert.Contains(t, rr.Body.String(), "An unexpected error occurred on the server")
		assert.NotContains(t, rr.Body.String(), "missing")
	}
}

func TestServiceWithoutMetrics(t *testing.T) {
	e := newEnv(t)
	svc := game.NewService(game.ServiceDeps{
		Games: game.NewGameRepository(e.db, e.fields), Fields: e.fields,
		Teams: team.NewTeamRepository(e.db), Users: user.NewUserRepository(e.db),
		Clock: e.clock, Loc: kyiv,
	})

	v, err := svc.CreateGame(context.Background(), e.organizer.ID, game.CreateGameInput{
		FieldID: e.kyivField.ID, TeamAID: e.lions.ID, TeamBID: e.wolves.ID, Date: svc.Today(),
	})
	require.NoError(t, err)
	got, err := svc.Search(context.Background(), "kyiv", nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, v.ID, got[0].ID)
}

func newRouter(e *env) *gin.Engine {
	return newRouterAs(e.svc, e.organizer)
}

func newRouterAs(svc *game.Service, u *user.User) *gin.Engine {
	r := gin.New()
	auth := func(c *gin.Context) {
		c.Set(common.ContextUserIDKey, u.ID)
		c.Set(common.ContextUserRoleKey, string(u.Role))
		c.Next()
	}
	game.GameRoutes(r.Group("/api"), game.NewGameController(svc), auth)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestGameController(t *testing.T) {
	e := newEnv(t)
	r := newRouter(e)

	body := fmt.Sprintf(`{"fieldId":%q,"teamAId":%q,"teamBId":%q,"date":"2026-10-19","startTime":"18:00","endTime":"19:30"}`,
		e.kyivField.ID, e.lions.ID, e.wolves.ID)
	rr := do(r, http.MethodPost, "/api/games", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "2026-10-19", created["date"])
	assert.Equal(t, "18:00", created["startTime"])
	assert.Contains(t, created, "score")
	assert.Nil(t, created["score"])
	id := created["id"].(string)

	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, "/api/games", body).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/games", `{"fieldId":"`+e.kyivField.ID.String()+`"}`).Code)

	rr = do(r, http.MethodGet, "/api/games/search?city=kyiv&date=2026-10-19", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var found []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0]["id"])

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/games/search", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/games/search?city=Kyiv&date=tomorrow", "").Code)

	rr = do(r, http.MethodGet, "/api/games/search?city=Odesa", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/games/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/games/"+uuid.NewString(), "").Code)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/api/games/"+id+"/status", `{"status":"finished"}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPatch, "/api/games/"+id+"/status", `{"status":"in_progress"}`).Code)
	rr = do(r, http.MethodPatch, "/api/games/"+id+"/status", `{"status":"completed","score":{"teamA":2,"teamB":2}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"score":{"teamA":2,"teamB":2}`)

	stranger := newRouterAs(e.svc, e.rival)
	assert.Equal(t, http.StatusForbidden, do(stranger, http.MethodDelete, "/api/games/"+id, "").Code)
	player := newRouterAs(e.svc, e.player)
	assert.Equal(t, http.StatusForbidden, do(player, http.MethodDelete, "/api/games/"+id, "").Code)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/games/"+id, "").Code)
}
