package bulk_test

import (
	"context"
	"errors"
	"testing"

	app "github.com/mohammadpnp/admin-bulkops/internal/application/bulk"
	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
	"github.com/mohammadpnp/admin-bulkops/internal/infrastructure/progress"
)

func TestListOperationsOverlaysLiveState(t *testing.T) {
	t.Parallel()

	tracker := progress.NewTracker()
	store := newFakeOperationStore()

	live := domain.NewOperation(
		"8e8ed1b1-95c6-4cb8-b6de-9d59be93a7a8",
		"suspend",
		domain.EntityUser,
		[]string{"u-1", "u-2", "u-3", "u-4"},
		"ops@example.com",
	)
	if err := tracker.Begin(live); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	tracker.MarkRunning(live.ID)
	if _, err := tracker.Add(live.ID, 2, 0, nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// the persisted row lags a batch behind the tracker
	stale := live
	stale.Status = domain.StatusRunning
	stale.Progress = domain.Progress{Total: 4, Processed: 0}

	done := domain.Operation{
		ID:         "a3d7e087-8a4f-4e93-95a7-0a4c4b6b41d2",
		Type:       "delete",
		EntityType: domain.EntitySubscription,
		Status:     domain.StatusCompleted,
		Progress:   domain.Progress{Total: 2, Processed: 2},
	}
	store.recent = []domain.Operation{stale, done}

	useCase := app.NewListOperations(tracker, store)

	out, err := useCase.Execute(context.Background(), app.ListOperationsInput{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(out.Operations) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(out.Operations))
	}
	if out.Operations[0].Progress.Processed != 2 {
		t.Fatalf("expected live counters, got %+v", out.Operations[0].Progress)
	}
	if out.Operations[1].Status != domain.StatusCompleted {
		t.Fatalf("unexpected second operation: %+v", out.Operations[1])
	}
}

func TestListOperationsLimitBounds(t *testing.T) {
	t.Parallel()

	store := newFakeOperationStore()
	useCase := app.NewListOperations(progress.NewTracker(), store)

	if _, err := useCase.Execute(context.Background(), app.ListOperationsInput{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.lastListLimit != 20 {
		t.Fatalf("expected default limit 20, got %d", store.lastListLimit)
	}

	if _, err := useCase.Execute(context.Background(), app.ListOperationsInput{Limit: 1000}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.lastListLimit != 100 {
		t.Fatalf("expected limit capped at 100, got %d", store.lastListLimit)
	}
}

func TestListOperationsStoreFailure(t *testing.T) {
	t.Parallel()

	store := newFakeOperationStore()
	store.listErr = errors.New("db down")
	useCase := app.NewListOperations(progress.NewTracker(), store)

	_, err := useCase.Execute(context.Background(), app.ListOperationsInput{})
	if !errors.Is(err, app.ErrListOperations) {
		t.Fatalf("expected ErrListOperations, got %v", err)
	}
}
