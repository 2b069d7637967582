package apperrors

import "errors"

// Fatal setup errors, each one ends the run with a non-zero exit status
var (
	ErrConnection     = errors.New("database connection failed")
	ErrDatabaseCreate = errors.New("failed creating database")
	ErrSchemaOrder    = errors.New("table definitions are not in dependency order")
	ErrConnectionLost = errors.New("connection lost during table creation")
	ErrTableCreate    = errors.New("one or more tables could not be created")
	ErrVerification   = errors.New("schema verification failed")
)
