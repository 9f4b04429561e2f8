package repository_test

import (
	"context"
	"os"
	"testing"

	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
	"github.com/mohammadpnp/admin-bulkops/internal/infrastructure/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestAuditLogRepositoryAppendIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}

	schemaSQL := `
    CREATE TABLE IF NOT EXISTS audit_records (
      id UUID PRIMARY KEY,
      operation_id UUID NOT NULL,
      action TEXT NOT NULL,
      actor VARCHAR(320) NOT NULL,
      operation_type TEXT NOT NULL,
      entity_type TEXT NOT NULL,
      detail JSONB,
      created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );
    CREATE INDEX IF NOT EXISTS idx_audit_records_operation_id ON audit_records(operation_id);
    `
	if err := db.Exec(schemaSQL).Error; err != nil {
		t.Fatalf("failed schema setup: %v", err)
	}

	operationID := "e76de86f-5eb4-4cf7-97c5-0fd3c8032f8f"
	if err := db.Exec("DELETE FROM audit_records WHERE operation_id = ?", operationID).Error; err != nil {
		t.Fatalf("failed cleanup: %v", err)
	}

	repo := repository.NewAuditLogRepository(db)

	submitted := domain.AuditEntry{
		OperationID:   operationID,
		Action:        domain.AuditSubmitted,
		Actor:         "ops@example.com",
		OperationType: "suspend",
		EntityType:    domain.EntityUser,
	}
	if err := repo.Append(context.Background(), submitted); err != nil {
		t.Fatalf("append submitted failed: %v", err)
	}

	finished := submitted
	finished.Action = domain.AuditFinished
	finished.Detail = map[string]any{"status": "completed", "processed": 3, "failed": 0}
	if err := repo.Append(context.Background(), finished); err != nil {
		t.Fatalf("append finished failed: %v", err)
	}

	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM audit_records WHERE operation_id = ?", operationID).Scan(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 audit records, got %d", count)
	}

	var status string
	statusSQL := `
    SELECT detail->>'status' FROM audit_records
    WHERE operation_id = ? AND action = ?
    `
	if err := db.Raw(statusSQL, operationID, domain.AuditFinished).Scan(&status).Error; err != nil {
		t.Fatalf("read detail failed: %v", err)
	}
	if status != "completed" {
		t.Fatalf("expected completed in detail, got %q", status)
	}
}
