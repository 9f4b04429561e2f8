package bulk

import "errors"

var (
	ErrMissingActor         = errors.New("missing actor")
	ErrNoEntityIDs          = errors.New("no entity ids provided")
	ErrTooManyItems         = errors.New("too many items")
	ErrUnsupportedEntity    = errors.New("unsupported entity type")
	ErrUnknownOperation     = errors.New("unknown operation type")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrProtectedEntities    = errors.New("protected accounts in selection")
	ErrInvalidOperationID   = errors.New("invalid operation id")
	ErrOperationNotFound    = errors.New("operation not found")
	ErrOperationFinished    = errors.New("operation already finished")
	ErrValidateOperation    = errors.New("failed to validate operation")
	ErrSubmitOperation      = errors.New("failed to submit operation")
	ErrGetOperation         = errors.New("failed to get operation")
	ErrListOperations       = errors.New("failed to list operations")
	ErrCancelOperation      = errors.New("failed to cancel operation")
)
