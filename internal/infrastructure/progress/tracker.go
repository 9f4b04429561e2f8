package progress

import (
	"errors"
	"sync"
	"time"

	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
)

var (
	ErrAlreadyTracked = errors.New("operation already tracked")
	ErrUntracked      = errors.New("operation not tracked")
	ErrFinished       = errors.New("operation already finished")
	ErrOverflow       = errors.New("progress exceeds total")
)

type entry struct {
	op              domain.Operation
	cancelRequested bool
}

// Tracker keeps the live state of operations in flight. Counters only
// move forward and a terminal status is applied at most once.
type Tracker struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]*entry)}
}

func (t *Tracker) Begin(op domain.Operation) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.entries[op.ID]; exists {
		return ErrAlreadyTracked
	}

	t.entries[op.ID] = &entry{op: op}
	return nil
}

func (t *Tracker) MarkRunning(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok || e.op.Status != domain.StatusPending {
		return
	}

	now := time.Now().UTC()
	e.op.Status = domain.StatusRunning
	e.op.StartedAt = &now
}

func (t *Tracker) Add(id string, processed, failed int, itemErrors []domain.ItemError) (domain.Operation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return domain.Operation{}, ErrUntracked
	}
	if domain.TerminalStatus(e.op.Status) {
		return domain.Operation{}, ErrFinished
	}
	if processed < 0 || failed < 0 {
		return domain.Operation{}, ErrOverflow
	}

	next := e.op.Progress
	next.Processed += processed
	next.Failed += failed
	if next.Processed+next.Failed > next.Total {
		return domain.Operation{}, ErrOverflow
	}

	e.op.Progress = next
	e.op.Errors = append(e.op.Errors, itemErrors...)

	return snapshotLocked(e), nil
}

func (t *Tracker) RequestCancel(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok || domain.TerminalStatus(e.op.Status) {
		return false
	}

	e.cancelRequested = true
	return true
}

func (t *Tracker) CancelRequested(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[id]
	return ok && e.cancelRequested
}

func (t *Tracker) Finish(id, status, errorMessage string) (domain.Operation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok || domain.TerminalStatus(e.op.Status) || !domain.TerminalStatus(status) {
		return domain.Operation{}, false
	}

	now := time.Now().UTC()
	e.op.Status = status
	e.op.ErrorMessage = errorMessage
	e.op.FinishedAt = &now

	return snapshotLocked(e), true
}

func (t *Tracker) Snapshot(id string) (domain.Operation, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[id]
	if !ok {
		return domain.Operation{}, false
	}

	return snapshotLocked(e), true
}

func (t *Tracker) Forget(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.entries, id)
}

func snapshotLocked(e *entry) domain.Operation {
	op := e.op
	if len(e.op.Errors) > 0 {
		op.Errors = make([]domain.ItemError, len(e.op.Errors))
		copy(op.Errors, e.op.Errors)
	}
	return op
}
