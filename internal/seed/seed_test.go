package seed

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamerhq/teamer/internal/database"
	"github.com/teamerhq/teamer/internal/field"
	"github.com/teamerhq/teamer/internal/game"
	"github.com/teamerhq/teamer/internal/team"
	"github.com/teamerhq/teamer/internal/testutil"
	"github.com/teamerhq/teamer/internal/user"
)

func TestDefaultFixturesParse(t *testing.T) {
	fx, err := Default()
	require.NoError(t, err)

	districts := map[string]bool{}
	for _, f := range fx.Fields {
		districts[f.District] = true
	}
	for _, d := range []string{"Kyiv", "Lviv", "Kharkiv", "Odesa", "Dnipro"} {
		assert.True(t, districts[d], d)
	}
	assert.NotEmpty(t, fx.Games)
}

func TestSeederRun(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, database.Migrate(db))

	fx, err := Default()
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
	s := NewSeeder(db, clock, time.UTC)

	wrote, err := s.Run(context.Background(), fx)
	require.NoError(t, err)
	assert.True(t, wrote)

	count := func(model interface{}) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.EqualValues(t, len(fx.Users), count(&user.User{}))
	assert.EqualValues(t, len(fx.Fields), count(&field.Field{}))
	assert.EqualValues(t, len(fx.Teams), count(&team.Team{}))
	assert.EqualValues(t, len(fx.Games), count(&game.Game{}))

	var booked int64
	require.NoError(t, db.Model(&field.FieldSchedule{}).Where("status = ? AND game_id IS NOT NULL", field.StatusBooked).Count(&booked).Error)
	assert.EqualValues(t, 2, booked, "only games with both times book a window")

	wrote, err = s.Run(context.Background(), fx)
	require.NoError(t, err)
	assert.False(t, wrote)
}

func TestSeederRejectsUnknownReference(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, database.Migrate(db))

	fx, err := Parse([]byte(`
users:
  - key: a
    email: a@example.com
    name: A
    password: secret-pass
    role: field_manager
fields:
  - key: f
    name: F
    address: Somewhere
    district: Kyiv
    maxPlayersCount: 10
    manager: nobody
`))
	require.NoError(t, err)

	_, err = NewSeeder(db, nil, nil).Run(context.Background(), fx)
	assert.ErrorContains(t, err, "unknown manager")

	var users int64
	require.NoError(t, db.Model(&user.User{}).Count(&users).Error)
	assert.Zero(t, users, "failed seed is rolled back")
}
