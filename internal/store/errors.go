package store

import "errors"

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrEmailConflict is returned when a user with the same email already exists
	ErrEmailConflict = errors.New("email already exists")

	// ErrUnsupportedDriver is returned for a DATABASE_DRIVER with no registered dialector
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	// ErrXeroTokenNotFound is returned by UpdateActiveXeroToken when the
	// targeted row is no longer the active credential (0 rows updated).
	ErrXeroTokenNotFound = errors.New("active xero token not found")
)
