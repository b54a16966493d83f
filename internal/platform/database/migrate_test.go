package database

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	migrations, err := Migrations()

	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, "0001_init", migrations[0].Version)
	assert.True(t, strings.Contains(migrations[0].SQL, "sold_count <= capacity"))
	assert.True(t, strings.Contains(migrations[0].SQL, "tickets_code_key UNIQUE (code)"))
}

func TestMigrate_SkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	migrations, err := Migrations()
	require.NoError(t, err)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	for _, m := range migrations {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS`).WithArgs(m.Version).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()
	}

	applied, err := Migrate(context.Background(), db, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, 0, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrations_Ordered(t *testing.T) {
	migrations, err := Migrations()

	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "0002_consumption_and_fulfillment", migrations[1].Version)
	assert.Contains(t, migrations[1].SQL, "consumed <= amount")
	assert.Contains(t, migrations[1].SQL, "fulfilled_at")
}
