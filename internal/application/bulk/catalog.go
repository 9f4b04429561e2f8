package bulk

import (
	_ "embed"
	"fmt"

	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
	"gopkg.in/yaml.v3"
)

//go:embed operations.yaml
var catalogYAML []byte

type catalogEntry struct {
	Type                 string   `yaml:"type"`
	Label                string   `yaml:"label"`
	Description          string   `yaml:"description"`
	RiskLevel            string   `yaml:"risk_level"`
	RequiresConfirmation bool     `yaml:"requires_confirmation"`
	BlocksProtected      bool     `yaml:"blocks_protected"`
	ItemsPerMinute       int      `yaml:"items_per_minute"`
	Entities             []string `yaml:"entities"`
}

type catalogFile struct {
	Operations []catalogEntry `yaml:"operations"`
}

// LoadRegistry builds the operation registry from the embedded catalog.
func LoadRegistry() (*domain.Registry, error) {
	return loadRegistry(catalogYAML)
}

func loadRegistry(raw []byte) (*domain.Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse operation catalog: %w", err)
	}
	if len(file.Operations) == 0 {
		return nil, fmt.Errorf("operation catalog is empty")
	}

	descriptors := make([]domain.Descriptor, 0, len(file.Operations)*2)
	for _, operation := range file.Operations {
		if len(operation.Entities) == 0 {
			return nil, fmt.Errorf("operation %q lists no entities", operation.Type)
		}
		for _, entityType := range operation.Entities {
			descriptors = append(descriptors, domain.Descriptor{
				Type:                 operation.Type,
				EntityType:           entityType,
				Label:                operation.Label,
				Description:          operation.Description,
				RiskLevel:            operation.RiskLevel,
				RequiresConfirmation: operation.RequiresConfirmation,
				BlocksProtected:      operation.BlocksProtected,
				BatchSize:            operation.ItemsPerMinute,
			})
		}
	}

	registry, err := domain.NewRegistry(descriptors)
	if err != nil {
		return nil, fmt.Errorf("operation catalog: %w", err)
	}
	return registry, nil
}
