package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	mysqldriver "github.com/go-sql-driver/mysql"
)

var (
	ErrConnectionFailed = errors.New("database connection failed")
	ErrTimeout          = errors.New("database query timed out")
	ErrNoTable          = errors.New("table not found")
	ErrUnknownColumn    = errors.New("unknown column")
	ErrQuery            = errors.New("database query failed")
)

// Error keeps the driver error next to the sentinel it was classified as.
// Error() carries the driver detail for logs; Public is what callers see.
type Error struct {
	Sentinel error
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Sentinel, e.Cause)
}

func (e *Error) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *Error) Unwrap() error        { return e.Cause }

// Classify wraps err with the sentinel matching the driver error. Already
// classified errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Sentinel: sentinelFor(err), Cause: err}
}

func sentinelFor(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysqldriver.ErrInvalidConn) {
		return ErrConnectionFailed
	}

	var me *mysqldriver.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1045, 1044, 1049, 1040, 1129, 1130:
			return ErrConnectionFailed
		case 1146:
			return ErrNoTable
		case 1054:
			return ErrUnknownColumn
		case 3024, 1205:
			return ErrTimeout
		}
		return ErrQuery
	}

	// pgx reports errors as *pgconn.PgError which exposes SQLState.
	var pge interface{ SQLState() string }
	if errors.As(err, &pge) {
		code := pge.SQLState()
		switch {
		case code == "42P01":
			return ErrNoTable
		case code == "42703":
			return ErrUnknownColumn
		case code == "57014":
			return ErrTimeout
		case len(code) == 5 && code[:2] == "08", code == "28P01", code == "3D000":
			return ErrConnectionFailed
		}
		return ErrQuery
	}

	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return ErrTimeout
		}
		return ErrConnectionFailed
	}
	return ErrQuery
}

// PublicMessage is the text safe to return to API callers. Driver detail
// stays in the server log.
func PublicMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConnectionFailed):
		return "database unavailable"
	case errors.Is(err, ErrTimeout):
		return "database query timed out"
	case errors.Is(err, ErrNoTable), errors.Is(err, ErrUnknownColumn):
		return "database schema mismatch"
	default:
		return "database query failed"
	}
}
