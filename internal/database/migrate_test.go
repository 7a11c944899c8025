package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamerhq/teamer/internal/testutil"
)

func TestMigrateCreatesTables(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "fields", "field_schedules", "teams", "team_members", "games"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("team_members", "idx_team_user"))
	assert.True(t, db.Migrator().HasColumn("games", "team_a_id"))

	// Running twice is a no-op.
	require.NoError(t, Migrate(db))
}
