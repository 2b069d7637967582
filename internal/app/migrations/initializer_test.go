package migrations

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edutrack/internal/app/schema"
	"github.com/yigit/edutrack/internal/pkg/apperrors"
)

// fakeConn records statements and fails those containing a configured key.
type fakeConn struct {
	errs  map[string]error
	stmts []string
}

func (f *fakeConn) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	f.stmts = append(f.stmts, query)
	for key, err := range f.errs {
		if strings.Contains(query, key) {
			return nil, err
		}
	}
	return sqlmock.NewResult(0, 0), nil
}

func tableKey(name string) string {
	return "EXISTS " + name + " ("
}

func newTestInitializer(conn *fakeConn, strict bool) (*Initializer, *bytes.Buffer) {
	var out bytes.Buffer
	return NewInitializer(conn, &out, zerolog.Nop(), strict), &out
}

func TestEnsureDatabase(t *testing.T) {
	conn := &fakeConn{}
	ini, out := newTestInitializer(conn, false)

	require.NoError(t, ini.EnsureDatabase(context.Background(), "edutrack"))

	assert.Equal(t, []string{"CREATE DATABASE IF NOT EXISTS `edutrack`", "USE `edutrack`"}, conn.stmts)
	assert.Equal(t, "Database 'edutrack' ensured.\n", out.String())
}

func TestEnsureDatabaseFailureIsFatal(t *testing.T) {
	conn := &fakeConn{errs: map[string]error{
		"CREATE DATABASE": &mysql.MySQLError{Number: 1044, Message: "Access denied for user 'edu'@'%' to database 'edutrack'"},
	}}
	ini, out := newTestInitializer(conn, false)

	err := ini.EnsureDatabase(context.Background(), "edutrack")

	require.ErrorIs(t, err, apperrors.ErrDatabaseCreate)
	assert.Len(t, conn.stmts, 1, "USE must not run after a failed CREATE DATABASE")
	assert.Contains(t, out.String(), "Failed creating database: ")
	assert.Contains(t, out.String(), "Access denied")
}

func TestEnsureDatabaseUseFailure(t *testing.T) {
	conn := &fakeConn{errs: map[string]error{"USE ": &mysql.MySQLError{Number: 1049, Message: "Unknown database 'edutrack'"}}}
	ini, _ := newTestInitializer(conn, false)

	err := ini.EnsureDatabase(context.Background(), "edutrack")
	assert.ErrorIs(t, err, apperrors.ErrDatabaseCreate)
}

func TestEnsureDatabaseRejectsBadName(t *testing.T) {
	conn := &fakeConn{}
	ini, _ := newTestInitializer(conn, false)

	err := ini.EnsureDatabase(context.Background(), "edutrack`; DROP DATABASE mysql; --")

	require.ErrorIs(t, err, apperrors.ErrDatabaseCreate)
	assert.Empty(t, conn.stmts)
}

func TestCreateTablesAllCreated(t *testing.T) {
	conn := &fakeConn{}
	ini, out := newTestInitializer(conn, false)

	report, err := ini.CreateTables(context.Background(), schema.Tables())
	require.NoError(t, err)

	assert.Len(t, conn.stmts, 9)
	assert.Equal(t, schema.Names(schema.Tables()), report.Created())
	assert.Empty(t, report.Failed())

	var want strings.Builder
	for _, name := range schema.Names(schema.Tables()) {
		want.WriteString("Creating table " + name + "... OK\n")
	}
	assert.Equal(t, want.String(), out.String())
}

func TestCreateTablesAlreadyExists(t *testing.T) {
	conn := &fakeConn{errs: map[string]error{
		tableKey("users"): &mysql.MySQLError{Number: 1050, Message: "Table 'users' already exists"},
	}}
	ini, out := newTestInitializer(conn, true)

	report, err := ini.CreateTables(context.Background(), schema.Tables())
	require.NoError(t, err, "already exists is never an error, not even in strict mode")

	assert.Len(t, conn.stmts, 9)
	assert.Equal(t, []string{"users"}, report.Existing())
	assert.True(t, report.Available("users"))
	assert.True(t, strings.HasPrefix(out.String(), "Creating table users... already exists.\nCreating table colleges... OK\n"))
}

func TestCreateTablesOtherErrorContinues(t *testing.T) {
	fkErr := &mysql.MySQLError{Number: 1215, Message: "Cannot add foreign key constraint"}

	t.Run("best effort", func(t *testing.T) {
		conn := &fakeConn{errs: map[string]error{tableKey("marks"): fkErr}}
		ini, out := newTestInitializer(conn, false)

		report, err := ini.CreateTables(context.Background(), schema.Tables())
		require.NoError(t, err)

		assert.Len(t, conn.stmts, 9, "remaining tables must still be attempted")
		assert.Equal(t, []string{"marks"}, report.Failed())
		assert.False(t, report.Available("marks"))
		assert.Contains(t, out.String(), "Creating table marks... Cannot add foreign key constraint\nCreating table scholarships... OK\n")
	})

	t.Run("strict", func(t *testing.T) {
		conn := &fakeConn{errs: map[string]error{tableKey("marks"): fkErr, tableKey("timetable"): fkErr}}
		ini, _ := newTestInitializer(conn, true)

		report, err := ini.CreateTables(context.Background(), schema.Tables())
		require.ErrorIs(t, err, apperrors.ErrTableCreate)

		assert.Len(t, conn.stmts, 9)
		assert.Equal(t, []string{"marks", "timetable"}, report.Failed())
		assert.Contains(t, err.Error(), "marks, timetable")
	})
}

func TestCreateTablesConnectionLost(t *testing.T) {
	conn := &fakeConn{errs: map[string]error{tableKey("students"): mysql.ErrInvalidConn}}
	ini, out := newTestInitializer(conn, false)

	report, err := ini.CreateTables(context.Background(), schema.Tables())

	require.ErrorIs(t, err, apperrors.ErrConnectionLost)
	assert.Len(t, conn.stmts, 3)
	assert.Equal(t, []string{"users", "colleges"}, report.Created())
	assert.Equal(t, []string{"students"}, report.Failed())
	assert.Contains(t, out.String(), "Creating table students... invalid connection\n")
}

func TestCreateTablesRejectsBadOrder(t *testing.T) {
	conn := &fakeConn{}
	ini, _ := newTestInitializer(conn, false)

	tables := schema.Tables()
	tables[0], tables[2] = tables[2], tables[0]

	_, err := ini.CreateTables(context.Background(), tables)

	require.ErrorIs(t, err, apperrors.ErrSchemaOrder)
	assert.Empty(t, conn.stmts)
}
