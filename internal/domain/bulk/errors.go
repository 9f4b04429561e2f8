package bulk

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrProtectedEntity   = errors.New("protected account")
	ErrConflict          = errors.New("conflict")
	ErrOperationNotFound = errors.New("operation not found")
	ErrUnknownActor      = errors.New("unknown actor")
	ErrNotAllowed        = errors.New("not allowed")
)

// IsItemError reports whether err affects a single entity only, so the
// batch keeps going. Everything else aborts the whole operation.
func IsItemError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrProtectedEntity) ||
		errors.Is(err, ErrConflict)
}
