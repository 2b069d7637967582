package migrations

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/edutrack/internal/app/schema"
	"github.com/yigit/edutrack/internal/pkg/apperrors"
)

func newVerifyMock(t *testing.T) (sqlmock.Sqlmock, func(context.Context, []schema.Table) (Verification, error)) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return mock, func(ctx context.Context, tables []schema.Table) (Verification, error) {
		return VerifySchema(ctx, sqlDB, "edutrack", tables)
	}
}

func allTableRows() *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"TABLE_NAME"})
	for _, name := range schema.Names(schema.Tables()) {
		rows.AddRow(name)
	}
	return rows
}

func allForeignKeyRows() *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"TABLE_NAME", "REFERENCED_TABLE_NAME"})
	for _, t := range schema.Tables() {
		for _, parent := range t.References {
			rows.AddRow(t.Name, parent)
		}
	}
	return rows
}

func TestVerifySchemaComplete(t *testing.T) {
	mock, verify := newVerifyMock(t)
	mock.ExpectQuery(tablesQuery).WithArgs("edutrack").WillReturnRows(allTableRows())
	mock.ExpectQuery(foreignKeysQuery).WithArgs("edutrack").WillReturnRows(allForeignKeyRows())

	v, err := verify(context.Background(), schema.Tables())
	require.NoError(t, err)

	assert.True(t, v.OK())
	assert.NoError(t, v.Err())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifySchemaReportsGaps(t *testing.T) {
	mock, verify := newVerifyMock(t)
	mock.ExpectQuery(tablesQuery).WithArgs("edutrack").WillReturnRows(
		sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("USERS").AddRow("colleges").AddRow("students"),
	)
	mock.ExpectQuery(foreignKeysQuery).WithArgs("edutrack").WillReturnRows(
		sqlmock.NewRows([]string{"TABLE_NAME", "REFERENCED_TABLE_NAME"}).AddRow("students", "users"),
	)

	tables := schema.Tables()[:4]
	v, err := verify(context.Background(), tables)
	require.NoError(t, err)

	assert.Equal(t, []string{"teachers"}, v.MissingTables)
	assert.Equal(t, []ForeignKey{{Table: "teachers", References: "users"}}, v.MissingForeignKeys)

	err = v.Err()
	require.ErrorIs(t, err, apperrors.ErrVerification)
	assert.Contains(t, err.Error(), "missing tables: teachers")
	assert.Contains(t, err.Error(), "missing foreign keys: teachers->users")
}

func TestVerifySchemaQueryError(t *testing.T) {
	mock, verify := newVerifyMock(t)
	mock.ExpectQuery(tablesQuery).WithArgs("edutrack").WillReturnError(errors.New("server has gone away"))

	_, err := verify(context.Background(), schema.Tables())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list tables")
}
