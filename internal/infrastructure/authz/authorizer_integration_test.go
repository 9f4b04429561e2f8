package authz_test

import (
	"context"
	"errors"
	"os"
	"testing"

	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
	"github.com/mohammadpnp/admin-bulkops/internal/infrastructure/authz"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestAdminAuthorizerIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}

	schemaSQL := `
    CREATE TABLE IF NOT EXISTS users (
      id UUID PRIMARY KEY,
      name VARCHAR(255) NOT NULL,
      email VARCHAR(320) NOT NULL UNIQUE,
      role VARCHAR(32) NOT NULL DEFAULT 'member',
      status VARCHAR(32) NOT NULL DEFAULT 'active',
      created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
      updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );
    `
	if err := db.Exec(schemaSQL).Error; err != nil {
		t.Fatalf("failed schema setup: %v", err)
	}
	cleanupSQL := `
    DELETE FROM users WHERE email IN ('root@example.com', 'desk@example.com', 'plain@example.com')
    `
	if err := db.Exec(cleanupSQL).Error; err != nil {
		t.Fatalf("failed cleanup: %v", err)
	}
	seedSQL := `
    INSERT INTO users (id, name, email, role) VALUES
      ('0244db6c-9c8d-4bb5-b39d-87d33a27a1c0', 'Root', 'root@example.com', 'admin'),
      ('9af0c44d-b7c4-41c0-86cb-752ae6308a8f', 'Desk', 'desk@example.com', 'staff'),
      ('5c4d5cc9-0f3e-4f5c-8adf-9ee7df0210aa', 'Plain', 'plain@example.com', 'member')
    `
	if err := db.Exec(seedSQL).Error; err != nil {
		t.Fatalf("failed seed: %v", err)
	}

	authorizer := authz.NewAdminAuthorizer(db)

	highRisk := domain.Descriptor{Type: "delete", EntityType: domain.EntityUser, RiskLevel: domain.RiskHigh}
	mediumRisk := domain.Descriptor{Type: "suspend", EntityType: domain.EntityUser, RiskLevel: domain.RiskMedium}

	if err := authorizer.Authorize(context.Background(), "root@example.com", highRisk); err != nil {
		t.Fatalf("expected admin to pass, got %v", err)
	}
	if err := authorizer.Authorize(context.Background(), "desk@example.com", mediumRisk); err != nil {
		t.Fatalf("expected staff to pass medium risk, got %v", err)
	}

	err = authorizer.Authorize(context.Background(), "desk@example.com", highRisk)
	if !errors.Is(err, domain.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed for staff on high risk, got %v", err)
	}
	err = authorizer.Authorize(context.Background(), "plain@example.com", mediumRisk)
	if !errors.Is(err, domain.ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed for member, got %v", err)
	}
	err = authorizer.Authorize(context.Background(), "ghost@example.com", mediumRisk)
	if !errors.Is(err, domain.ErrUnknownActor) {
		t.Fatalf("expected ErrUnknownActor, got %v", err)
	}
}
