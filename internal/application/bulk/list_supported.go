package bulk

import (
	"context"

	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
)

type ListSupportedOperationsInput struct {
	EntityType string
}

type SupportedOperationOutput struct {
	Type                 string `json:"type"`
	EntityType           string `json:"entityType"`
	Label                string `json:"label"`
	Description          string `json:"description"`
	RiskLevel            string `json:"riskLevel"`
	RequiresConfirmation bool   `json:"requiresConfirmation"`
	BatchSize            int    `json:"batchSize"`
}

type ListSupportedOperationsOutput struct {
	Operations []SupportedOperationOutput `json:"operations"`
}

type ListSupportedOperations interface {
	Execute(ctx context.Context, in ListSupportedOperationsInput) (ListSupportedOperationsOutput, error)
}

type listSupportedOperations struct {
	registry *domain.Registry
}

func NewListSupportedOperations(registry *domain.Registry) ListSupportedOperations {
	return &listSupportedOperations{registry: registry}
}

func (uc *listSupportedOperations) Execute(_ context.Context, in ListSupportedOperationsInput) (ListSupportedOperationsOutput, error) {
	descriptors := uc.registry.ForEntity(in.EntityType)

	outputs := make([]SupportedOperationOutput, 0, len(descriptors))
	for _, descriptor := range descriptors {
		outputs = append(outputs, SupportedOperationOutput{
			Type:                 descriptor.Type,
			EntityType:           descriptor.EntityType,
			Label:                descriptor.Label,
			Description:          descriptor.Description,
			RiskLevel:            descriptor.RiskLevel,
			RequiresConfirmation: descriptor.RequiresConfirmation,
			BatchSize:            descriptor.BatchSize,
		})
	}

	return ListSupportedOperationsOutput{Operations: outputs}, nil
}
