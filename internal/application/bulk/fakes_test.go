package bulk_test

import (
	"context"
	"sync"
	"time"

	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
)

type fakeOperationStore struct {
	mu             sync.Mutex
	created        []domain.Operation
	markedRunning  []string
	progressWrites []domain.Progress
	lastErrors     []domain.ItemError
	finished       map[string]domain.Outcome
	rows           map[string]domain.Operation
	recent         []domain.Operation
	lastListLimit  int

	createErr      error
	markRunningErr error
	updateErr      error
	finishErr      error
	getErr         error
	listErr        error

	onUpdateProgress func(progress domain.Progress)
}

func newFakeOperationStore() *fakeOperationStore {
	return &fakeOperationStore{
		finished: make(map[string]domain.Outcome),
		rows:     make(map[string]domain.Operation),
	}
}

func (f *fakeOperationStore) Create(ctx context.Context, op domain.Operation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, op)
	return nil
}

func (f *fakeOperationStore) GetByID(ctx context.Context, id string) (*domain.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	op, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrOperationNotFound
	}
	return &op, nil
}

func (f *fakeOperationStore) ListRecent(ctx context.Context, limit int) ([]domain.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastListLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeOperationStore) MarkRunning(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markRunningErr != nil {
		return f.markRunningErr
	}
	f.markedRunning = append(f.markedRunning, id)
	return nil
}

func (f *fakeOperationStore) UpdateProgress(ctx context.Context, id string, progress domain.Progress, itemErrors []domain.ItemError) error {
	f.mu.Lock()
	if f.updateErr != nil {
		f.mu.Unlock()
		return f.updateErr
	}
	f.progressWrites = append(f.progressWrites, progress)
	f.lastErrors = itemErrors
	hook := f.onUpdateProgress
	f.mu.Unlock()

	if hook != nil {
		hook(progress)
	}
	return nil
}

func (f *fakeOperationStore) Finish(ctx context.Context, id string, outcome domain.Outcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finishErr != nil {
		return f.finishErr
	}
	f.finished[id] = outcome
	return nil
}

func (f *fakeOperationStore) finishedOutcome(id string) (domain.Outcome, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	outcome, ok := f.finished[id]
	return outcome, ok
}

func (f *fakeOperationStore) progressHistory() []domain.Progress {
	f.mu.Lock()
	defer f.mu.Unlock()
	history := make([]domain.Progress, len(f.progressWrites))
	copy(history, f.progressWrites)
	return history
}

func (f *fakeOperationStore) createdOperations() []domain.Operation {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := make([]domain.Operation, len(f.created))
	copy(created, f.created)
	return created
}

func (f *fakeOperationStore) markedRunningIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, len(f.markedRunning))
	copy(ids, f.markedRunning)
	return ids
}

type fakeEntityHandler struct {
	entity       string
	missing      map[string]bool
	protected    map[string]bool
	applyErr     map[string]error
	applyDelay   time.Duration
	missingErr   error
	protectedErr error

	mu      sync.Mutex
	applied []string
}

func (f *fakeEntityHandler) EntityType() string {
	return f.entity
}

func (f *fakeEntityHandler) Missing(ctx context.Context, ids []string) ([]string, error) {
	if f.missingErr != nil {
		return nil, f.missingErr
	}
	missing := make([]string, 0)
	for _, id := range ids {
		if f.missing[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (f *fakeEntityHandler) Protected(ctx context.Context, ids []string) ([]string, error) {
	if f.protectedErr != nil {
		return nil, f.protectedErr
	}
	protected := make([]string, 0)
	for _, id := range ids {
		if f.protected[id] {
			protected = append(protected, id)
		}
	}
	return protected, nil
}

func (f *fakeEntityHandler) Apply(ctx context.Context, opType, id string) error {
	if f.applyDelay > 0 {
		timer := time.NewTimer(f.applyDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if f.missing[id] {
		return domain.ErrNotFound
	}
	if f.protected[id] {
		return domain.ErrProtectedEntity
	}
	if err, ok := f.applyErr[id]; ok {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, id)
	return nil
}

func (f *fakeEntityHandler) appliedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	applied := make([]string, len(f.applied))
	copy(applied, f.applied)
	return applied
}

type fakeAuditLog struct {
	mu        sync.Mutex
	entries   []domain.AuditEntry
	appendErr error
}

func (f *fakeAuditLog) Append(ctx context.Context, entry domain.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditLog) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	actions := make([]string, 0, len(f.entries))
	for _, entry := range f.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

type fakeAuthorizer struct {
	err   error
	calls int
}

func (f *fakeAuthorizer) Authorize(ctx context.Context, actor string, descriptor domain.Descriptor) error {
	f.calls++
	return f.err
}

type fakeLauncher struct {
	mu          sync.Mutex
	launched    []domain.Operation
	descriptors []domain.Descriptor
}

func (f *fakeLauncher) Launch(op domain.Operation, descriptor domain.Descriptor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.launched = append(f.launched, op)
	f.descriptors = append(f.descriptors, descriptor)
}

func (f *fakeLauncher) launchedOperations() []domain.Operation {
	f.mu.Lock()
	defer f.mu.Unlock()
	launched := make([]domain.Operation, len(f.launched))
	copy(launched, f.launched)
	return launched
}
