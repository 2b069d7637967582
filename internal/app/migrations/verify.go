package migrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/edutrack/internal/app/schema"
	"github.com/yigit/edutrack/internal/db"
	"github.com/yigit/edutrack/internal/pkg/apperrors"
)

const (
	tablesQuery = `SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ?`

	foreignKeysQuery = `SELECT TABLE_NAME, REFERENCED_TABLE_NAME FROM information_schema.KEY_COLUMN_USAGE
	WHERE TABLE_SCHEMA = ? AND REFERENCED_TABLE_NAME IS NOT NULL`
)

// ForeignKey is a child -> parent table reference
type ForeignKey struct {
	Table      string
	References string
}

func (fk ForeignKey) String() string {
	return fk.Table + "->" + fk.References
}

// Verification lists what the server catalog is missing
type Verification struct {
	MissingTables      []string
	MissingForeignKeys []ForeignKey
}

// OK reports whether nothing is missing
func (v Verification) OK() bool {
	return len(v.MissingTables) == 0 && len(v.MissingForeignKeys) == 0
}

// Err returns nil when nothing is missing, otherwise an ErrVerification describing the gaps
func (v Verification) Err() error {
	if v.OK() {
		return nil
	}
	var parts []string
	if len(v.MissingTables) > 0 {
		parts = append(parts, "missing tables: "+strings.Join(v.MissingTables, ", "))
	}
	if len(v.MissingForeignKeys) > 0 {
		fks := make([]string, len(v.MissingForeignKeys))
		for i, fk := range v.MissingForeignKeys {
			fks[i] = fk.String()
		}
		parts = append(parts, "missing foreign keys: "+strings.Join(fks, ", "))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrVerification, strings.Join(parts, "; "))
}

// VerifySchema compares the declared tables against information_schema for dbName.
func VerifySchema(ctx context.Context, q db.Querier, dbName string, tables []schema.Table) (Verification, error) {
	var v Verification

	present, err := queryTables(ctx, q, dbName)
	if err != nil {
		return v, err
	}

	fks, err := queryForeignKeys(ctx, q, dbName)
	if err != nil {
		return v, err
	}

	for _, t := range tables {
		if !present[strings.ToLower(t.Name)] {
			v.MissingTables = append(v.MissingTables, t.Name)
		}
		for _, parent := range t.References {
			fk := ForeignKey{Table: t.Name, References: parent}
			if !fks[fk.key()] {
				v.MissingForeignKeys = append(v.MissingForeignKeys, fk)
			}
		}
	}
	return v, nil
}

// key is case-insensitive since lower_case_table_names differs between servers
func (fk ForeignKey) key() ForeignKey {
	return ForeignKey{Table: strings.ToLower(fk.Table), References: strings.ToLower(fk.References)}
}

func queryTables(ctx context.Context, q db.Querier, dbName string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, tablesQuery, dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		present[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return present, nil
}

func queryForeignKeys(ctx context.Context, q db.Querier, dbName string) (map[ForeignKey]bool, error) {
	rows, err := q.QueryContext(ctx, foreignKeysQuery, dbName)
	if err != nil {
		return nil, fmt.Errorf("failed to list foreign keys: %w", err)
	}
	defer rows.Close()

	fks := make(map[ForeignKey]bool)
	for rows.Next() {
		var fk ForeignKey
		if err := rows.Scan(&fk.Table, &fk.References); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		fks[fk.key()] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list foreign keys: %w", err)
	}
	return fks, nil
}
