package bulk

import "time"

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusError     = "error"
)

func TerminalStatus(status string) bool {
	switch status {
	case StatusCompleted, StatusCancelled, StatusError:
		return true
	default:
		return false
	}
}

type Progress struct {
	Total     int
	Processed int
	Failed    int
}

type ItemError struct {
	EntityID string
	Message  string
}

type Operation struct {
	ID           string
	Type         string
	EntityType   string
	EntityIDs    []string
	Status       string
	Progress     Progress
	Errors       []ItemError
	ErrorMessage string
	RequestedBy  string
	CreatedAt    time.Time
	StartedAt    *time.Time
	FinishedAt   *time.Time
}

func NewOperation(id, opType, entityType string, entityIDs []string, requestedBy string) Operation {
	return Operation{
		ID:          id,
		Type:        opType,
		EntityType:  entityType,
		EntityIDs:   entityIDs,
		Status:      StatusPending,
		Progress:    Progress{Total: len(entityIDs)},
		RequestedBy: requestedBy,
		CreatedAt:   time.Now().UTC(),
	}
}

// Outcome is the terminal result folded into the operation record.
type Outcome struct {
	Status       string
	Progress     Progress
	Errors       []ItemError
	ErrorMessage string
}
