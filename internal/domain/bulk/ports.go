package bulk

import "context"

type OperationStore interface {
	Create(ctx context.Context, op Operation) error
	GetByID(ctx context.Context, id string) (*Operation, error)
	ListRecent(ctx context.Context, limit int) ([]Operation, error)
	MarkRunning(ctx context.Context, id string) error
	UpdateProgress(ctx context.Context, id string, progress Progress, itemErrors []ItemError) error
	Finish(ctx context.Context, id string, outcome Outcome) error
}

// Tracker holds the live state of in-flight operations between
// persistence writes. Implementations must be safe for concurrent use.
type Tracker interface {
	Begin(op Operation) error
	MarkRunning(id string)
	Add(id string, processed, failed int, itemErrors []ItemError) (Operation, error)
	RequestCancel(id string) bool
	CancelRequested(id string) bool
	Finish(id, status, errorMessage string) (Operation, bool)
	Snapshot(id string) (Operation, bool)
	Forget(id string)
}

// EntityHandler applies bulk mutations to one entity type's storage.
// Apply returns ErrNotFound, ErrProtectedEntity or ErrConflict for
// failures scoped to a single entity.
type EntityHandler interface {
	EntityType() string
	Missing(ctx context.Context, ids []string) ([]string, error)
	Protected(ctx context.Context, ids []string) ([]string, error)
	Apply(ctx context.Context, opType, id string) error
}

type Authorizer interface {
	Authorize(ctx context.Context, actor string, descriptor Descriptor) error
}

const (
	AuditSubmitted       = "submitted"
	AuditCancelRequested = "cancel_requested"
	AuditFinished        = "finished"
)

type AuditEntry struct {
	OperationID   string
	Action        string
	Actor         string
	OperationType string
	EntityType    string
	Detail        map[string]any
}

type AuditLog interface {
	Append(ctx context.Context, entry AuditEntry) error
}
