package errors

import "errors"

var (
	ErrMissingFields      = errors.New("required field is missing")
	ErrNameTooLong        = errors.New("param name must have max length of 200")
	ErrEmailTooLong       = errors.New("param email must have max length of 200")
	ErrPasswordTooLong    = errors.New("param password must have max length of 60")
	ErrCodeTooLong        = errors.New("param code must have max length of 40")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailConflict      = errors.New("email already registered")
	ErrCodeConflict       = errors.New("profile code already taken")
	ErrCodeExhausted      = errors.New("could not mint a free profile code")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TableError tags an error with the relation at which the pipeline step
// failed, so callers can tell which write succeeded before the failure.
type TableError struct {
	Table string
	Err   error
}

func (e *TableError) Error() string { return e.Table + ": " + e.Err.Error() }

func (e *TableError) Unwrap() error { return e.Err }

// Tag wraps err with a table name. A nil err stays nil.
func Tag(table string, err error) error {
	if err == nil {
		return nil
	}
	return &TableError{Table: table, Err: err}
}

// TableOf extracts the innermost table tag, or "" when err carries none.
func TableOf(err error) string {
	var tagged *TableError
	if errors.As(err, &tagged) {
		return tagged.Table
	}
	return ""
}
