package describe

import (
	"errors"
	"strings"
)

// Sentinel kinds carried by ValidationError. Match them with errors.Is.
var (
	ErrMissingDescription = errors.New("no description available")
	ErrOwnershipMismatch  = errors.New("member is not owned by the type")
	ErrMixedKind          = errors.New("member list mixes fields and methods")
	ErrWrongKind          = errors.New("member list has the wrong kind")
	ErrIncomplete         = errors.New("field list is incomplete")
	ErrDuplicateName      = errors.New("duplicate member name")
	ErrAnnotationMismatch = errors.New("annotation begin/end mismatch")
	ErrAlreadyRegistered  = errors.New("description already registered")
	ErrFrozen             = errors.New("type metadata already derived")
	ErrNoSeparator        = errors.New("no scope separator in signature")
)

// ValidationError describes one problem found while deriving a type's metadata.
type ValidationError struct {
	Type    string
	Member  string
	Message string
	Hint    string
	Kind    error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder

	if e.Type != "" {
		b.WriteString(e.Type)
		if e.Member != "" {
			b.WriteString(".")
			b.WriteString(e.Member)
		}
		b.WriteString(": ")
	}

	b.WriteString(e.Message)

	if e.Hint != "" {
		b.WriteString(" (hint: ")
		b.WriteString(e.Hint)
		b.WriteString(")")
	}

	return b.String()
}

// Unwrap returns the sentinel kind so errors.Is works on wrapped reports.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}
