package bulk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
)

type GetOperationInput struct {
	ID string
}

type OperationProgressOutput struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

type OperationErrorOutput struct {
	EntityID     string `json:"entityId"`
	ErrorMessage string `json:"errorMessage"`
}

type OperationOutput struct {
	ID           string                  `json:"id"`
	Type         string                  `json:"type"`
	EntityType   string                  `json:"entityType"`
	Status       string                  `json:"status"`
	Progress     OperationProgressOutput `json:"progress"`
	Errors       []OperationErrorOutput  `json:"errors"`
	ErrorMessage string                  `json:"errorMessage,omitempty"`
	RequestedBy  string                  `json:"requestedBy"`
	CreatedAt    time.Time               `json:"createdAt"`
	StartedAt    *time.Time              `json:"startedAt,omitempty"`
	FinishedAt   *time.Time              `json:"finishedAt,omitempty"`
}

type GetOperation interface {
	Execute(ctx context.Context, in GetOperationInput) (OperationOutput, error)
}

type getOperation struct {
	tracker domain.Tracker
	store   domain.OperationStore
}

func NewGetOperation(tracker domain.Tracker, store domain.OperationStore) GetOperation {
	return &getOperation{tracker: tracker, store: store}
}

func (uc *getOperation) Execute(ctx context.Context, in GetOperationInput) (OperationOutput, error) {
	if _, err := uuid.Parse(in.ID); err != nil {
		return OperationOutput{}, ErrInvalidOperationID
	}

	if snap, ok := uc.tracker.Snapshot(in.ID); ok {
		return operationOutput(snap), nil
	}

	op, err := uc.store.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrOperationNotFound) {
			return OperationOutput{}, ErrOperationNotFound
		}
		return OperationOutput{}, fmt.Errorf("%w: %v", ErrGetOperation, err)
	}

	return operationOutput(*op), nil
}

func operationOutput(op domain.Operation) OperationOutput {
	itemErrors := make([]OperationErrorOutput, 0, len(op.Errors))
	for _, itemError := range op.Errors {
		itemErrors = append(itemErrors, OperationErrorOutput{
			EntityID:     itemError.EntityID,
			ErrorMessage: itemError.Message,
		})
	}

	return OperationOutput{
		ID:         op.ID,
		Type:       op.Type,
		EntityType: op.EntityType,
		Status:     op.Status,
		Progress: OperationProgressOutput{
			Total:     op.Progress.Total,
			Processed: op.Progress.Processed,
			Failed:    op.Progress.Failed,
		},
		Errors:       itemErrors,
		ErrorMessage: op.ErrorMessage,
		RequestedBy:  op.RequestedBy,
		CreatedAt:    op.CreatedAt,
		StartedAt:    op.StartedAt,
		FinishedAt:   op.FinishedAt,
	}
}
