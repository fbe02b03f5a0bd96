package build

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField       = errors.New("missing field")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrIncompleteRunePage = errors.New("could not find a complete rune page")
	ErrNoBuildFound       = errors.New("no build found")
	ErrInventoryFull      = errors.New("rune page inventory is full")
	ErrTransport          = errors.New("transport failure")
	ErrVersionUnavailable = errors.New("patch version unavailable")
)

// RecordError scopes a normalization failure to one character and role
type RecordError struct {
	Champion string
	Role     Role
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %s - %v", e.Champion, e.Role, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Missing builds an ErrMissingField error naming the sub-field that could not be read
func Missing(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMissingField, fmt.Sprintf(format, args...))
}
