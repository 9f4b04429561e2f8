package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
	"github.com/mohammadpnp/admin-bulkops/internal/infrastructure/db/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Append(ctx context.Context, entry domain.AuditEntry) error {
	row := models.AuditRecord{
		ID:            uuid.NewString(),
		OperationID:   entry.OperationID,
		Action:        entry.Action,
		Actor:         entry.Actor,
		OperationType: entry.OperationType,
		EntityType:    entry.EntityType,
	}
	if len(entry.Detail) > 0 {
		detail, err := json.Marshal(entry.Detail)
		if err != nil {
			return fmt.Errorf("encode audit detail: %w", err)
		}
		row.Detail = datatypes.JSON(detail)
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}

	return nil
}
