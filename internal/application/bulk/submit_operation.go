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

type SubmitOperationInput struct {
	Type        string
	EntityType  string
	EntityIDs   []string
	Confirmed   bool
	RequestedBy string
}

type SubmitOperationOutput struct {
	OperationID string `json:"operationId"`
	Status      string `json:"status"`
}

type SubmitOperation interface {
	Execute(ctx context.Context, in SubmitOperationInput) (SubmitOperationOutput, error)
}

type operationLauncher interface {
	Launch(op domain.Operation, descriptor domain.Descriptor)
}

type SubmitOperationConfig struct {
	MaxItems int
}

type submitOperation struct {
	registry *domain.Registry
	handlers map[string]domain.EntityHandler
	store    domain.OperationStore
	tracker  domain.Tracker
	audit    domain.AuditLog
	authz    domain.Authorizer
	launcher operationLauncher
	cfg      SubmitOperationConfig
	logger   zerolog.Logger
}

func NewSubmitOperation(
	registry *domain.Registry,
	handlers []domain.EntityHandler,
	store domain.OperationStore,
	tracker domain.Tracker,
	audit domain.AuditLog,
	authz domain.Authorizer,
	launcher operationLauncher,
	cfg SubmitOperationConfig,
	logger zerolog.Logger,
) SubmitOperation {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 500
	}

	return &submitOperation{
		registry: registry,
		handlers: handlersByEntity(handlers),
		store:    store,
		tracker:  tracker,
		audit:    audit,
		authz:    authz,
		launcher: launcher,
		cfg:      cfg,
		logger:   logger.With().Str("component", "submit_operation").Logger(),
	}
}

func (uc *submitOperation) Execute(ctx context.Context, in SubmitOperationInput) (SubmitOperationOutput, error) {
	actor := strings.TrimSpace(in.RequestedBy)
	if actor == "" {
		return SubmitOperationOutput{}, ErrMissingActor
	}

	if len(in.EntityIDs) == 0 {
		return SubmitOperationOutput{}, ErrNoEntityIDs
	}
	if len(in.EntityIDs) > uc.cfg.MaxItems {
		return SubmitOperationOutput{}, ErrTooManyItems
	}

	handler, ok := uc.handlers[in.EntityType]
	if !ok {
		return SubmitOperationOutput{}, ErrUnsupportedEntity
	}

	descriptor, ok := uc.registry.Lookup(in.Type, in.EntityType)
	if !ok {
		return SubmitOperationOutput{}, ErrUnknownOperation
	}

	if descriptor.RequiresConfirmation && !in.Confirmed {
		return SubmitOperationOutput{}, ErrConfirmationRequired
	}

	if err := uc.authz.Authorize(ctx, actor, descriptor); err != nil {
		if errors.Is(err, domain.ErrUnknownActor) || errors.Is(err, domain.ErrNotAllowed) {
			return SubmitOperationOutput{}, ErrNotAuthorized
		}
		return SubmitOperationOutput{}, fmt.Errorf("%w: %v", ErrSubmitOperation, err)
	}

	if descriptor.BlocksProtected {
		protected, err := handler.Protected(ctx, in.EntityIDs)
		if err != nil {
			return SubmitOperationOutput{}, fmt.Errorf("%w: %v", ErrSubmitOperation, err)
		}
		if len(protected) > 0 {
			return SubmitOperationOutput{}, ErrProtectedEntities
		}
	}

	op := domain.NewOperation(uuid.NewString(), in.Type, in.EntityType, in.EntityIDs, actor)

	if err := uc.store.Create(ctx, op); err != nil {
		return SubmitOperationOutput{}, fmt.Errorf("%w: %v", ErrSubmitOperation, err)
	}
	if err := uc.tracker.Begin(op); err != nil {
		return SubmitOperationOutput{}, fmt.Errorf("%w: %v", ErrSubmitOperation, err)
	}

	if err := uc.audit.Append(ctx, domain.AuditEntry{
		OperationID:   op.ID,
		Action:        domain.AuditSubmitted,
		Actor:         actor,
		OperationType: op.Type,
		EntityType:    op.EntityType,
		Detail:        map[string]any{"itemCount": op.Progress.Total},
	}); err != nil {
		uc.logger.Warn().Err(err).Str("operation_id", op.ID).Msg("audit operation submit")
	}

	uc.launcher.Launch(op, descriptor)

	return SubmitOperationOutput{
		OperationID: op.ID,
		Status:      op.Status,
	}, nil
}
