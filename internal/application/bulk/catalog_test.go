package bulk_test

import (
	"testing"

	app "github.com/mohammadpnp/admin-bulkops/internal/application/bulk"
	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
)

func TestLoadRegistry(t *testing.T) {
	t.Parallel()

	registry, err := app.LoadRegistry()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	deleteUser, ok := registry.Lookup("delete", domain.EntityUser)
	if !ok {
		t.Fatal("expected delete/user to be registered")
	}
	if deleteUser.RiskLevel != domain.RiskHigh {
		t.Fatalf("expected high risk, got %s", deleteUser.RiskLevel)
	}
	if !deleteUser.RequiresConfirmation || !deleteUser.BlocksProtected {
		t.Fatalf("unexpected delete flags: %+v", deleteUser)
	}
	if deleteUser.BatchSize != 100 {
		t.Fatalf("expected batch size 100, got %d", deleteUser.BatchSize)
	}

	activateSub, ok := registry.Lookup("activate", domain.EntitySubscription)
	if !ok {
		t.Fatal("expected activate/subscription to be registered")
	}
	if activateSub.RequiresConfirmation {
		t.Fatal("activate must not require confirmation")
	}
	if activateSub.RiskLevel != domain.RiskLow || activateSub.BatchSize != 1000 {
		t.Fatalf("unexpected activate descriptor: %+v", activateSub)
	}

	updateUser, ok := registry.Lookup("update", domain.EntityUser)
	if !ok {
		t.Fatal("expected update/user to be registered")
	}
	if updateUser.BlocksProtected {
		t.Fatal("update must not block protected accounts")
	}
	if updateUser.BatchSize != 500 {
		t.Fatalf("expected batch size 500, got %d", updateUser.BatchSize)
	}

	suspendUser, ok := registry.Lookup("suspend", domain.EntityUser)
	if !ok {
		t.Fatal("expected suspend/user to be registered")
	}
	if suspendUser.BatchSize != 300 || suspendUser.RiskLevel != domain.RiskMedium {
		t.Fatalf("unexpected suspend descriptor: %+v", suspendUser)
	}
}

func TestLoadRegistryCoversBothEntities(t *testing.T) {
	t.Parallel()

	registry, err := app.LoadRegistry()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, entityType := range []string{domain.EntityUser, domain.EntitySubscription} {
		descriptors := registry.ForEntity(entityType)
		if len(descriptors) != 4 {
			t.Fatalf("expected 4 operations for %s, got %d", entityType, len(descriptors))
		}

		want := []string{"delete", "suspend", "update", "activate"}
		for i, descriptor := range descriptors {
			if descriptor.Type != want[i] {
				t.Fatalf("expected %s at position %d for %s, got %s", want[i], i, entityType, descriptor.Type)
			}
		}
	}

	if got := registry.ForEntity("team"); len(got) != 0 {
		t.Fatalf("expected no operations for unknown entity type, got %d", len(got))
	}
}
