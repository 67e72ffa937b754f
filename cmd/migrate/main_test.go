package main

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetcrm/fleetcrm/migrations"
)

func TestParseFilename(t *testing.T) {
	v, name, dir, err := parseFilename("002_create_fleet_tables.down.sql")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, "create_fleet_tables", name)
	assert.Equal(t, "down", dir)

	for _, bad := range []string{"create_users.up.sql", "001_create_users.sql", "abc_users.up.sql", "000_zero.up.sql", "001_.up.sql"} {
		_, _, _, err := parseFilename(bad)
		assert.ErrorIs(t, err, errBadFilename, bad)
	}
}

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.up.sql":   {Data: []byte("CREATE TABLE b ();")},
		"001_a.up.sql":   {Data: []byte("CREATE TABLE a ();")},
		"001_a.down.sql": {Data: []byte("DROP TABLE a;")},
		"README.md":      {Data: []byte("ignored")},
	}

	all, err := loadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].version)
	assert.Equal(t, "DROP TABLE a;", all[0].down)
	assert.Equal(t, 2, all[1].version)
	assert.Empty(t, all[1].down)

	_, err = loadMigrations(fstest.MapFS{"001_a.down.sql": {Data: []byte("DROP TABLE a;")}})
	assert.Error(t, err)

	_, err = loadMigrations(fstest.MapFS{
		"001_a.up.sql": {Data: []byte("x")},
		"001_b.up.sql": {Data: []byte("y")},
	})
	assert.Error(t, err)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	all, err := loadMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, all)
	for i, m := range all {
		assert.Equal(t, i+1, m.version, "versions must be contiguous")
		assert.NotEmpty(t, m.down, "%03d_%s needs a down file", m.version, m.name)
	}
}

func TestMigrateUp_SkipsAppliedAndRecordsVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	all := []migration{
		{version: 1, name: "a", up: "CREATE TABLE a ()"},
		{version: 2, name: "b", up: "CREATE TABLE b ()"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b ()")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version, name) VALUES ($1, $2)")).
		WithArgs(2, "b").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := migrateUp(context.Background(), db, all, map[int]bool{1: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateDown_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	all := []migration{
		{version: 1, name: "a", up: "CREATE TABLE a ()", down: "DROP TABLE a"},
		{version: 2, name: "b", up: "CREATE TABLE b ()", down: "DROP TABLE b"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE b")).WillReturnError(errors.New("table is locked"))
	mock.ExpectRollback()

	n, err := migrateDown(context.Background(), db, all, map[int]bool{1: true, 2: true}, 1)
	require.Error(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
