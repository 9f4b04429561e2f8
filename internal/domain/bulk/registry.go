package bulk

import "fmt"

const (
	EntityUser         = "user"
	EntitySubscription = "subscription"
)

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

func ValidRiskLevel(level string) bool {
	switch level {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

// Descriptor describes one registered operation kind for one entity type.
type Descriptor struct {
	Type                 string
	EntityType           string
	Label                string
	Description          string
	RiskLevel            string
	RequiresConfirmation bool
	BlocksProtected      bool
	BatchSize            int
}

type registryKey struct {
	opType     string
	entityType string
}

type Registry struct {
	byKey map[registryKey]Descriptor
	order []registryKey
}

func NewRegistry(descriptors []Descriptor) (*Registry, error) {
	registry := &Registry{
		byKey: make(map[registryKey]Descriptor, len(descriptors)),
		order: make([]registryKey, 0, len(descriptors)),
	}

	for _, descriptor := range descriptors {
		if descriptor.Type == "" || descriptor.EntityType == "" {
			return nil, fmt.Errorf("descriptor %q/%q: type and entity type are required", descriptor.Type, descriptor.EntityType)
		}
		if !ValidRiskLevel(descriptor.RiskLevel) {
			return nil, fmt.Errorf("descriptor %s/%s: invalid risk level %q", descriptor.Type, descriptor.EntityType, descriptor.RiskLevel)
		}
		if descriptor.BatchSize <= 0 {
			return nil, fmt.Errorf("descriptor %s/%s: batch size must be positive", descriptor.Type, descriptor.EntityType)
		}

		key := registryKey{opType: descriptor.Type, entityType: descriptor.EntityType}
		if _, dup := registry.byKey[key]; dup {
			return nil, fmt.Errorf("descriptor %s/%s: duplicate registration", descriptor.Type, descriptor.EntityType)
		}

		registry.byKey[key] = descriptor
		registry.order = append(registry.order, key)
	}

	return registry, nil
}

func (r *Registry) Lookup(opType, entityType string) (Descriptor, bool) {
	descriptor, ok := r.byKey[registryKey{opType: opType, entityType: entityType}]
	return descriptor, ok
}

// ForEntity returns descriptors in registration order. Unknown entity
// types yield an empty list rather than an error.
func (r *Registry) ForEntity(entityType string) []Descriptor {
	descriptors := make([]Descriptor, 0, len(r.order))
	for _, key := range r.order {
		if key.entityType == entityType {
			descriptors = append(descriptors, r.byKey[key])
		}
	}
	return descriptors
}

func BatchCount(itemCount, batchSize int) int {
	if itemCount <= 0 || batchSize <= 0 {
		return 0
	}
	return (itemCount + batchSize - 1) / batchSize
}
