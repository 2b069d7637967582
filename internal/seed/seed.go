package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/edutrack/internal/app/schema"
	"github.com/yigit/edutrack/internal/db"
	"github.com/yigit/edutrack/internal/pkg/auth"
)

// Admin is the default administrator account
type Admin struct {
	Name     string
	Email    string
	Password string
}

const insertAdminSQL = `INSERT INTO users (name, email, password, role) VALUES (?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE user_id = user_id`

// CreateDefaultData inserts the administrator account unless a user with the
// same email already exists. Existing rows are never modified.
func CreateDefaultData(ctx context.Context, conn db.Execer, admin Admin, lgr zerolog.Logger) error {
	lgr = lgr.With().Str("email", admin.Email).Logger()
	lgr.Info().Msg("Checking/Creating default admin user...")

	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	res, err := conn.ExecContext(ctx, insertAdminSQL, admin.Name, admin.Email, hash, string(schema.RoleAdmin))
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		lgr.Info().Msg("Admin user already exists, skipping")
		return nil
	}

	lgr.Info().Msg("Admin user created")
	return nil
}
