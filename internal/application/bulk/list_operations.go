package bulk

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type ListOperationsInput struct {
	Limit int
}

type ListOperationsOutput struct {
	Operations []OperationOutput `json:"operations"`
}

type ListOperations interface {
	Execute(ctx context.Context, in ListOperationsInput) (ListOperationsOutput, error)
}

type listOperations struct {
	tracker domain.Tracker
	store   domain.OperationStore
}

func NewListOperations(tracker domain.Tracker, store domain.OperationStore) ListOperations {
	return &listOperations{tracker: tracker, store: store}
}

func (uc *listOperations) Execute(ctx context.Context, in ListOperationsInput) (ListOperationsOutput, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	ops, err := uc.store.ListRecent(ctx, limit)
	if err != nil {
		return ListOperationsOutput{}, fmt.Errorf("%w: %v", ErrListOperations, err)
	}

	outputs := make([]OperationOutput, 0, len(ops))
	for _, op := range ops {
		// Rows still in flight lag behind the tracker by up to a batch.
		if !domain.TerminalStatus(op.Status) {
			if snap, ok := uc.tracker.Snapshot(op.ID); ok {
				op = snap
			}
		}
		outputs = append(outputs, operationOutput(op))
	}

	return ListOperationsOutput{Operations: outputs}, nil
}
