package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // registers the "mysql" driver

	"github.com/yigit/edutrack/internal/config"
)

// MySQLDB holds a server-level handle and the single connection the
// bootstrap runs every statement on. The connection keeps session state
// such as the USE'd database, so it must not be swapped for another one.
type MySQLDB struct {
	DB   *sql.DB
	Conn *sql.Conn
}

// NewMySQLDB opens a server-level connection using cfg
func NewMySQLDB(ctx context.Context, cfg *config.Config) (*MySQLDB, error) {
	sqlDB, err := sql.Open("mysql", cfg.GetMySQLServerDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse mysql config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout())
	defer cancel()

	database, err := FromDB(ctx, sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return database, nil
}

// FromDB pins one connection of an already opened handle
func FromDB(ctx context.Context, sqlDB *sql.DB) (*MySQLDB, error) {
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLDB{DB: sqlDB, Conn: conn}, nil
}

// Close releases the pinned connection and then the handle
func (d *MySQLDB) Close() error {
	var errs []error
	if d.Conn != nil {
		if err := d.Conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
