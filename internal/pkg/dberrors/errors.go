package dberrors

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers the bootstrap cares about
const (
	ErDBAccessDenied = 1044
	ErAccessDenied   = 1045
	ErBadDB          = 1049
	ErTableExists    = 1050
	CrServerGone     = 2006
	CrServerLost     = 2013
)

// Kind is the outcome class of a driver error
type Kind int

const (
	// None means there was no error
	None Kind = iota
	// AlreadyExists is the expected "table already exists" outcome
	AlreadyExists
	// Fatal means the connection or credentials are unusable
	Fatal
	// Other is any remaining statement error
	Other
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case AlreadyExists:
		return "already_exists"
	case Fatal:
		return "fatal"
	default:
		return "other"
	}
}

// Classify maps a driver-reported error onto a Kind.
func Classify(err error) Kind {
	if err == nil {
		return None
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case ErTableExists:
			return AlreadyExists
		case ErDBAccessDenied, ErAccessDenied, ErBadDB, CrServerGone, CrServerLost:
			return Fatal
		}
		return Other
	}

	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return Fatal
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Fatal
	}

	return Other
}

// Message returns the server message without the "Error 1050 (42S01):" prefix
// when err carries one, otherwise err.Error().
func Message(err error) string {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Message
	}
	return err.Error()
}
