package errors

import "errors"

var (
	ErrMissingFields    = errors.New("required field is missing")
	ErrNameTooLong      = errors.New("param name must have max length of 255")
	ErrCodeTooLong      = errors.New("param code must have max length of 40")
	ErrEmailTooLong     = errors.New("param email must have max length of 200")
	ErrNoFieldsToUpdate = errors.New("must specify at least a name or a description")
	ErrProfileNotFound  = errors.New("could not find owner profile")
	ErrProjectNotFound  = errors.New("could not find project")
	ErrForbidden        = errors.New("access tier insufficient")
	ErrCodeConflict     = errors.New("project code already taken")
	ErrCodeExhausted    = errors.New("could not mint a free project code")
	ErrUnknownTier      = errors.New("unknown access tier")
)

// TableError tags an error with the relation at which the pipeline step
// failed. With no rollback across steps, the tag tells the caller which
// rows were already written when the pipeline stopped.
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
