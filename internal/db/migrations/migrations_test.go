package migrations

import (
	"context"
	"testing"
	"testing/fstest"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMigrationFilename(t *testing.T) {
	version, name, err := parseMigrationFilename("0001_create_accounts.up.sql")
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.Equal(t, "create_accounts", name)

	_, _, err = parseMigrationFilename("create.up.sql")
	assert.Error(t, err)

	_, _, err = parseMigrationFilename("abc_create.up.sql")
	assert.Error(t, err)
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	files, err := getMigrationFiles(embedded)
	require.NoError(t, err)
	require.NotEmpty(t, files)

	assert.Equal(t, 1, files[0].Version)
	assert.Contains(t, files[0].Up, "CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_key")
	assert.Contains(t, files[0].Down, "DROP TABLE")
	for i := 1; i < len(files); i++ {
		assert.Less(t, files[i-1].Version, files[i].Version)
	}
}

func TestRunAppliesPendingOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0001_first.up.sql":  {Data: []byte("CREATE TABLE first (id INT)")},
		"sql/0002_second.up.sql": {Data: []byte("CREATE TABLE second (id INT)")},
	}

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE second`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs(2, "second").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, run(context.Background(), db, fsys))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunRollsBackFailedMigration(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0001_broken.up.sql": {Data: []byte("CREATE TABLE broken (")},
	}

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE broken`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = run(context.Background(), db, fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	require.NoError(t, mock.ExpectationsWereMet())
}
