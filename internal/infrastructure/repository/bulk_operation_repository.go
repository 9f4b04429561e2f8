package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
	"github.com/mohammadpnp/admin-bulkops/internal/infrastructure/db/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BulkOperationRepository struct {
	db *gorm.DB
}

func NewBulkOperationRepository(db *gorm.DB) *BulkOperationRepository {
	return &BulkOperationRepository{db: db}
}

func (r *BulkOperationRepository) Create(ctx context.Context, op domain.Operation) error {
	row, err := operationRow(op)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create bulk operation: %w", err)
	}

	return nil
}

func (r *BulkOperationRepository) GetByID(ctx context.Context, id string) (*domain.Operation, error) {
	var row models.BulkOperation

	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOperationNotFound
		}
		return nil, fmt.Errorf("get bulk operation: %w", err)
	}

	op, err := operationFromRow(row)
	if err != nil {
		return nil, err
	}

	return &op, nil
}

func (r *BulkOperationRepository) ListRecent(ctx context.Context, limit int) ([]domain.Operation, error) {
	var rows []models.BulkOperation

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list bulk operations: %w", err)
	}

	operations := make([]domain.Operation, 0, len(rows))
	for _, row := range rows {
		op, err := operationFromRow(row)
		if err != nil {
			return nil, err
		}
		operations = append(operations, op)
	}

	return operations, nil
}

func (r *BulkOperationRepository) MarkRunning(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&models.BulkOperation{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status":     domain.StatusRunning,
			"started_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return fmt.Errorf("mark bulk operation running: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("mark bulk operation running: %s is not pending", id)
	}

	return nil
}

func (r *BulkOperationRepository) UpdateProgress(ctx context.Context, id string, progress domain.Progress, itemErrors []domain.ItemError) error {
	encoded, err := itemErrorsJSON(itemErrors)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&models.BulkOperation{}).
		Where("id = ? AND status = ?", id, domain.StatusRunning).
		Updates(map[string]any{
			"progress_processed": progress.Processed,
			"failed_count":       progress.Failed,
			"item_errors":        encoded,
		})
	if result.Error != nil {
		return fmt.Errorf("update bulk operation progress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update bulk operation progress: %s is not running", id)
	}

	return nil
}

func (r *BulkOperationRepository) Finish(ctx context.Context, id string, outcome domain.Outcome) error {
	encoded, err := itemErrorsJSON(outcome.Errors)
	if err != nil {
		return err
	}

	updates := map[string]any{
		"status":             outcome.Status,
		"progress_processed": outcome.Progress.Processed,
		"failed_count":       outcome.Progress.Failed,
		"item_errors":        encoded,
		"finished_at":        gorm.Expr("NOW()"),
	}
	if outcome.ErrorMessage != "" {
		updates["error_message"] = outcome.ErrorMessage
	}

	// Terminal rows never change again; the status guard makes a second
	// finish, whatever its source, a no-op at the database level.
	result := r.db.WithContext(ctx).
		Model(&models.BulkOperation{}).
		Where("id = ? AND status IN ?", id, []string{domain.StatusPending, domain.StatusRunning}).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("finish bulk operation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("finish bulk operation: %s is already finished", id)
	}

	return nil
}

type itemErrorRow struct {
	EntityID string `json:"entity_id"`
	Message  string `json:"message"`
}

func operationRow(op domain.Operation) (models.BulkOperation, error) {
	ids, err := json.Marshal(op.EntityIDs)
	if err != nil {
		return models.BulkOperation{}, fmt.Errorf("encode entity ids: %w", err)
	}
	encoded, err := itemErrorsJSON(op.Errors)
	if err != nil {
		return models.BulkOperation{}, err
	}

	row := models.BulkOperation{
		ID:                op.ID,
		Type:              op.Type,
		EntityType:        op.EntityType,
		EntityIDs:         datatypes.JSON(ids),
		Status:            op.Status,
		ProgressTotal:     op.Progress.Total,
		ProgressProcessed: op.Progress.Processed,
		FailedCount:       op.Progress.Failed,
		ItemErrors:        encoded,
		RequestedBy:       op.RequestedBy,
		StartedAt:         op.StartedAt,
		FinishedAt:        op.FinishedAt,
		CreatedAt:         op.CreatedAt,
	}
	if op.ErrorMessage != "" {
		row.ErrorMessage = &op.ErrorMessage
	}

	return row, nil
}

func operationFromRow(row models.BulkOperation) (domain.Operation, error) {
	var ids []string
	if len(row.EntityIDs) > 0 {
		if err := json.Unmarshal(row.EntityIDs, &ids); err != nil {
			return domain.Operation{}, fmt.Errorf("decode entity ids: %w", err)
		}
	}

	var errorRows []itemErrorRow
	if len(row.ItemErrors) > 0 {
		if err := json.Unmarshal(row.ItemErrors, &errorRows); err != nil {
			return domain.Operation{}, fmt.Errorf("decode item errors: %w", err)
		}
	}
	itemErrors := make([]domain.ItemError, 0, len(errorRows))
	for _, errorRow := range errorRows {
		itemErrors = append(itemErrors, domain.ItemError{
			EntityID: errorRow.EntityID,
			Message:  errorRow.Message,
		})
	}

	op := domain.Operation{
		ID:         row.ID,
		Type:       row.Type,
		EntityType: row.EntityType,
		EntityIDs:  ids,
		Status:     row.Status,
		Progress: domain.Progress{
			Total:     row.ProgressTotal,
			Processed: row.ProgressProcessed,
			Failed:    row.FailedCount,
		},
		Errors:      itemErrors,
		RequestedBy: row.RequestedBy,
		CreatedAt:   row.CreatedAt,
		StartedAt:   row.StartedAt,
		FinishedAt:  row.FinishedAt,
	}
	if row.ErrorMessage != nil {
		op.ErrorMessage = *row.ErrorMessage
	}

	return op, nil
}

func itemErrorsJSON(itemErrors []domain.ItemError) (datatypes.JSON, error) {
	rows := make([]itemErrorRow, 0, len(itemErrors))
	for _, itemError := range itemErrors {
		rows = append(rows, itemErrorRow{
			EntityID: itemError.EntityID,
			Message:  itemError.Message,
		})
	}

	encoded, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode item errors: %w", err)
	}

	return datatypes.JSON(encoded), nil
}
