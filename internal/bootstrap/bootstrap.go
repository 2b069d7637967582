package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yigit/edutrack/internal/app/migrations"
	"github.com/yigit/edutrack/internal/app/schema"
	"github.com/yigit/edutrack/internal/config"
	"github.com/yigit/edutrack/internal/db"
	"github.com/yigit/edutrack/internal/pkg/apperrors"
	"github.com/yigit/edutrack/internal/pkg/logger"
	"github.com/yigit/edutrack/internal/seed"
)

// LoadConfigAndSetupLogger loads configuration, applies command line options and initializes the logger.
func LoadConfigAndSetupLogger(opts Options) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	cfg.Setup.Strict = cfg.Setup.Strict || opts.Strict
	cfg.Setup.Verify = cfg.Setup.Verify || opts.Verify

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Debug().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectFunc opens the server-level connection
type ConnectFunc func(ctx context.Context, cfg *config.Config) (*db.MySQLDB, error)

// Runner performs one bootstrap run
type Runner struct {
	Connect ConnectFunc
	Out     io.Writer
	Logger  zerolog.Logger
}

// NewRunner creates a runner connecting to a real MySQL server
func NewRunner(out io.Writer, lgr zerolog.Logger) *Runner {
	return &Runner{
		Connect: db.NewMySQLDB,
		Out:     out,
		Logger:  lgr,
	}
}

// Run connects, provisions the schema and closes the connection. A nil error
// means exit status 0.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) error {
	lgr := r.Logger
	lgr.Info().Str("host", cfg.MySQL.Host).Int("port", cfg.MySQL.Port).Msg("Establishing database connection...")

	database, err := r.Connect(ctx, cfg)
	if err != nil {
		fmt.Fprintf(r.Out, "Error: %s\n", err)
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return fmt.Errorf("%w: %w", apperrors.ErrConnection, err)
	}
	lgr.Info().Msg("Database connection successfully established.")

	var closeOnce sync.Once
	closeDB := func() {
		closeOnce.Do(func() {
			if cerr := database.Close(); cerr != nil {
				lgr.Warn().Err(cerr).Msg("Failed to close database connection")
			}
		})
	}
	defer closeDB()

	if err := r.setup(ctx, cfg, database); err != nil {
		return err
	}

	// The banner follows the close, a failed close is only logged
	closeDB()

	fmt.Fprintln(r.Out, "Database setup complete ✅")
	return nil
}

func (r *Runner) setup(ctx context.Context, cfg *config.Config, database *db.MySQLDB) error {
	lgr := r.Logger
	initializer := migrations.NewInitializer(database.Conn, r.Out, lgr, cfg.Setup.Strict)

	if err := initializer.EnsureDatabase(ctx, cfg.MySQL.DBName); err != nil {
		return err
	}

	tables := schema.Tables()
	report, err := initializer.CreateTables(ctx, tables)
	if err != nil {
		return err
	}

	if cfg.Seed.AdminEmail != "" {
		if !report.Available("users") {
			lgr.Warn().Msg("users table unavailable, skipping default data")
		} else if err := seed.CreateDefaultData(ctx, database.Conn, seed.Admin{
			Name:     cfg.Seed.AdminName,
			Email:    cfg.Seed.AdminEmail,
			Password: cfg.Seed.AdminPassword,
		}, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	if cfg.Setup.Verify {
		v, err := migrations.VerifySchema(ctx, database.Conn, cfg.MySQL.DBName, tables)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrVerification, err)
		}
		if err := v.Err(); err != nil {
			fmt.Fprintln(r.Out, err)
			return err
		}
		fmt.Fprintf(r.Out, "Verified %d tables.\n", len(tables))
	}

	return nil
}
