package store

import "errors"

// Kind classifies why a mutation was rejected.
type Kind int

const (
	// KindConflict means a unique constraint was violated.
	KindConflict Kind = iota + 1

	// KindValidation means a foreign key did not resolve to a valid target.
	KindValidation

	// KindNotFound means the target of the operation doesn't exist.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	}
	return "unknown"
}

var (
	// ErrConflict is matched by errors of KindConflict.
	ErrConflict = errors.New("lattice: conflict")

	// ErrValidation is matched by errors of KindValidation.
	ErrValidation = errors.New("lattice: validation failed")

	// ErrNotFound is matched by errors of KindNotFound.
	ErrNotFound = errors.New("lattice: entity not found")

	// ErrIDGeneration is returned when the id generator keeps producing ids already in use.
	ErrIDGeneration = errors.New("lattice: could not generate a unique id")
)

// Error is a rejected mutation.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return "lattice: " + e.Message
}

// Is reports whether target is the sentinel error for e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// KindOf returns the kind of a mutation error.
// The second result is false if err is not an [*Error].
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func conflictError(msg string) error   { return &Error{Kind: KindConflict, Message: msg} }
func validationError(msg string) error { return &Error{Kind: KindValidation, Message: msg} }
func notFoundError(msg string) error   { return &Error{Kind: KindNotFound, Message: msg} }
