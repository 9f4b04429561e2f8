package bulk

import (
	"context"
	"fmt"
	"time"

	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
)

type ValidateOperationInput struct {
	Type       string
	EntityType string
	EntityIDs  []string
}

type ValidationSummaryOutput struct {
	ItemCount                int    `json:"itemCount"`
	BatchSize                int    `json:"batchSize"`
	EstimatedBatches         int    `json:"estimatedBatches"`
	EstimatedDurationSeconds int    `json:"estimatedDurationSeconds"`
	RiskLevel                string `json:"riskLevel"`
	RequiresConfirmation     bool   `json:"requiresConfirmation"`
}

type ValidateOperationOutput struct {
	Valid   bool                     `json:"valid"`
	Error   string                   `json:"error,omitempty"`
	Summary *ValidationSummaryOutput `json:"summary,omitempty"`
}

type ValidateOperation interface {
	Execute(ctx context.Context, in ValidateOperationInput) (ValidateOperationOutput, error)
}

type ValidateOperationConfig struct {
	MaxItems     int
	PerBatchCost time.Duration
}

type validateOperation struct {
	registry *domain.Registry
	handlers map[string]domain.EntityHandler
	cfg      ValidateOperationConfig
}

func NewValidateOperation(registry *domain.Registry, handlers []domain.EntityHandler, cfg ValidateOperationConfig) ValidateOperation {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 500
	}
	if cfg.PerBatchCost <= 0 {
		cfg.PerBatchCost = time.Minute
	}

	return &validateOperation{
		registry: registry,
		handlers: handlersByEntity(handlers),
		cfg:      cfg,
	}
}

func (uc *validateOperation) Execute(ctx context.Context, in ValidateOperationInput) (ValidateOperationOutput, error) {
	if len(in.EntityIDs) == 0 {
		return invalidOperation(ErrNoEntityIDs.Error()), nil
	}
	if len(in.EntityIDs) > uc.cfg.MaxItems {
		return invalidOperation(ErrTooManyItems.Error()), nil
	}

	handler, ok := uc.handlers[in.EntityType]
	if !ok {
		return invalidOperation(ErrUnsupportedEntity.Error()), nil
	}

	descriptor, ok := uc.registry.Lookup(in.Type, in.EntityType)
	if !ok {
		return invalidOperation(ErrUnknownOperation.Error()), nil
	}

	missing, err := handler.Missing(ctx, in.EntityIDs)
	if err != nil {
		return ValidateOperationOutput{}, fmt.Errorf("%w: %v", ErrValidateOperation, err)
	}
	if len(missing) > 0 {
		return invalidOperation(fmt.Sprintf("%d entities not found", len(missing))), nil
	}

	if descriptor.BlocksProtected {
		protected, err := handler.Protected(ctx, in.EntityIDs)
		if err != nil {
			return ValidateOperationOutput{}, fmt.Errorf("%w: %v", ErrValidateOperation, err)
		}
		if len(protected) > 0 {
			return invalidOperation(fmt.Sprintf("%d protected accounts cannot be modified", len(protected))), nil
		}
	}

	batches := domain.BatchCount(len(in.EntityIDs), descriptor.BatchSize)
	return ValidateOperationOutput{
		Valid: true,
		Summary: &ValidationSummaryOutput{
			ItemCount:                len(in.EntityIDs),
			BatchSize:                descriptor.BatchSize,
			EstimatedBatches:         batches,
			EstimatedDurationSeconds: batches * int(uc.cfg.PerBatchCost.Seconds()),
			RiskLevel:                descriptor.RiskLevel,
			RequiresConfirmation:     descriptor.RequiresConfirmation,
		},
	}, nil
}

func invalidOperation(reason string) ValidateOperationOutput {
	return ValidateOperationOutput{Valid: false, Error: reason}
}
