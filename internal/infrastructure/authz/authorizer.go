package authz

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
	"github.com/mohammadpnp/admin-bulkops/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

// AdminAuthorizer decides from the users table whether an actor may run
// an operation: admins may run anything, staff anything below high
// risk, everyone else nothing.
type AdminAuthorizer struct {
	db *gorm.DB
}

func NewAdminAuthorizer(db *gorm.DB) *AdminAuthorizer {
	return &AdminAuthorizer{db: db}
}

func (a *AdminAuthorizer) Authorize(ctx context.Context, actor string, descriptor domain.Descriptor) error {
	var row models.User

	err := a.db.WithContext(ctx).First(&row, "email = ?", actor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUnknownActor
		}
		return fmt.Errorf("look up actor: %w", err)
	}

	switch row.Role {
	case "admin":
		return nil
	case "staff":
		if descriptor.RiskLevel == domain.RiskHigh {
			return fmt.Errorf("%w: staff cannot run high risk operations", domain.ErrNotAllowed)
		}
		return nil
	default:
		return fmt.Errorf("%w: role %s cannot run bulk operations", domain.ErrNotAllowed, row.Role)
	}
}
