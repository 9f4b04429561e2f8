package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
	"github.com/rs/zerolog"
)

type CancelOperationInput struct {
	ID          string
	RequestedBy string
}

type CancelOperationOutput struct {
	Accepted bool   `json:"accepted"`
	Status   string `json:"status"`
}

type CancelOperation interface {
	Execute(ctx context.Context, in CancelOperationInput) (CancelOperationOutput, error)
}

type cancelOperation struct {
	tracker domain.Tracker
	store   domain.OperationStore
	audit   domain.AuditLog
	logger  zerolog.Logger
}

func NewCancelOperation(tracker domain.Tracker, store domain.OperationStore, audit domain.AuditLog, logger zerolog.Logger) CancelOperation {
	return &cancelOperation{
		tracker: tracker,
		store:   store,
		audit:   audit,
		logger:  logger.With().Str("component", "cancel_operation").Logger(),
	}
}

func (uc *cancelOperation) Execute(ctx context.Context, in CancelOperationInput) (CancelOperationOutput, error) {
	actor := strings.TrimSpace(in.RequestedBy)
	if actor == "" {
		return CancelOperationOutput{}, ErrMissingActor
	}
	if _, err := uuid.Parse(in.ID); err != nil {
		return CancelOperationOutput{}, ErrInvalidOperationID
	}

	if snap, ok := uc.tracker.Snapshot(in.ID); ok {
		if domain.TerminalStatus(snap.Status) {
			return CancelOperationOutput{}, ErrOperationFinished
		}

		uc.tracker.RequestCancel(in.ID)
		uc.appendAudit(ctx, snap, actor, false)

		return CancelOperationOutput{Accepted: true, Status: snap.Status}, nil
	}

	op, err := uc.store.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrOperationNotFound) {
			return CancelOperationOutput{}, ErrOperationNotFound
		}
		return CancelOperationOutput{}, fmt.Errorf("%w: %v", ErrCancelOperation, err)
	}
	if domain.TerminalStatus(op.Status) {
		return CancelOperationOutput{}, ErrOperationFinished
	}

	// A non-terminal row without live state was orphaned by a restart.
	// No goroutine will ever reach a batch boundary for it, so the
	// record is finalized here.
	outcome := domain.Outcome{
		Status:   domain.StatusCancelled,
		Progress: op.Progress,
		Errors:   op.Errors,
	}
	if err := uc.store.Finish(ctx, in.ID, outcome); err != nil {
		return CancelOperationOutput{}, fmt.Errorf("%w: %v", ErrCancelOperation, err)
	}

	uc.appendAudit(ctx, *op, actor, true)

	return CancelOperationOutput{Accepted: true, Status: domain.StatusCancelled}, nil
}

func (uc *cancelOperation) appendAudit(ctx context.Context, op domain.Operation, actor string, orphaned bool) {
	entry := domain.AuditEntry{
		OperationID:   op.ID,
		Action:        domain.AuditCancelRequested,
		Actor:         actor,
		OperationType: op.Type,
		EntityType:    op.EntityType,
	}
	if orphaned {
		entry.Detail = map[string]any{"orphaned": true}
	}

	if err := uc.audit.Append(ctx, entry); err != nil {
		uc.logger.Warn().Err(err).Str("operation_id", op.ID).Msg("audit cancel request")
	}
}
