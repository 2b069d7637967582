package migrations

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/edutrack/internal/app/schema"
	"github.com/yigit/edutrack/internal/db"
	"github.com/yigit/edutrack/internal/pkg/apperrors"
	"github.com/yigit/edutrack/internal/pkg/dberrors"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_$]+$`)

// Initializer creates the edutrack database and its tables on a single connection
type Initializer struct {
	conn   db.Execer
	out    io.Writer
	lgr    zerolog.Logger
	strict bool
}

// NewInitializer creates a new initializer. Progress lines go to out, diagnostics to lgr.
// With strict set, any table error other than "already exists" fails the run.
func NewInitializer(conn db.Execer, out io.Writer, lgr zerolog.Logger, strict bool) *Initializer {
	return &Initializer{
		conn:   conn,
		out:    out,
		lgr:    lgr,
		strict: strict,
	}
}

// EnsureDatabase creates the database if absent and makes it the connection's default.
// Every failure here is fatal.
func (i *Initializer) EnsureDatabase(ctx context.Context, name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: invalid database name %q", apperrors.ErrDatabaseCreate, name)
	}

	if _, err := i.conn.ExecContext(ctx, "CREATE DATABASE IF NOT EXISTS `"+name+"`"); err != nil {
		fmt.Fprintf(i.out, "Failed creating database: %s\n", err)
		i.lgr.Error().Err(err).Str("database", name).Msg("Database creation failed")
		return fmt.Errorf("%w: %w", apperrors.ErrDatabaseCreate, err)
	}
	fmt.Fprintf(i.out, "Database '%s' ensured.\n", name)

	if _, err := i.conn.ExecContext(ctx, "USE `"+name+"`"); err != nil {
		fmt.Fprintf(i.out, "Failed selecting database: %s\n", err)
		i.lgr.Error().Err(err).Str("database", name).Msg("Switching to database failed")
		return fmt.Errorf("%w: %w", apperrors.ErrDatabaseCreate, err)
	}

	i.lgr.Debug().Str("database", name).Msg("Database selected")
	return nil
}

// CreateTables executes each table definition in order. "Already exists" is reported
// and skipped, other statement errors are printed and the loop moves on. A lost
// connection stops the loop since nothing after it can succeed.
func (i *Initializer) CreateTables(ctx context.Context, tables []schema.Table) (Report, error) {
	var report Report

	if err := schema.CheckOrder(tables); err != nil {
		return report, fmt.Errorf("%w: %w", apperrors.ErrSchemaOrder, err)
	}

	for _, table := range tables {
		fmt.Fprintf(i.out, "Creating table %s... ", table.Name)

		_, err := i.conn.ExecContext(ctx, table.DDL)
		kind := dberrors.Classify(err)
		report.add(table.Name, kind, err)

		tableLog := i.lgr.With().Str("table", table.Name).Str("kind", kind.String()).Logger()

		switch kind {
		case dberrors.None:
			fmt.Fprintln(i.out, "OK")
			tableLog.Debug().Msg("Table created")
		case dberrors.AlreadyExists:
			fmt.Fprintln(i.out, "already exists.")
			tableLog.Info().Msg("Table already exists, skipping")
		case dberrors.Fatal:
			fmt.Fprintln(i.out, dberrors.Message(err))
			tableLog.Error().Err(err).Msg("Connection unusable, aborting table creation")
			return report, fmt.Errorf("%w: table %s: %w", apperrors.ErrConnectionLost, table.Name, err)
		default:
			fmt.Fprintln(i.out, dberrors.Message(err))
			tableLog.Warn().Err(err).Msg("Table creation failed, continuing")
		}
	}

	i.lgr.Info().
		Int("created", len(report.Created())).
		Int("existing", len(report.Existing())).
		Int("failed", len(report.Failed())).
		Msg("Table creation finished")

	if failed := report.Failed(); i.strict && len(failed) > 0 {
		return report, fmt.Errorf("%w: %s", apperrors.ErrTableCreate, strings.Join(failed, ", "))
	}
	return report, nil
}
