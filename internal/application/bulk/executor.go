package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	domain "github.com/mohammadpnp/admin-bulkops/internal/domain/bulk"
	"github.com/rs/zerolog"
)

const finalizeTimeout = 10 * time.Second

type ExecutorConfig struct {
	MaxConcurrent    int
	BatchDelay       time.Duration
	OperationTimeout time.Duration
}

type Executor struct {
	store    domain.OperationStore
	tracker  domain.Tracker
	audit    domain.AuditLog
	handlers map[string]domain.EntityHandler
	cfg      ExecutorConfig
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	slots  chan struct{}
	wg     sync.WaitGroup
}

func NewExecutor(
	store domain.OperationStore,
	tracker domain.Tracker,
	audit domain.AuditLog,
	handlers []domain.EntityHandler,
	cfg ExecutorConfig,
	logger zerolog.Logger,
) *Executor {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 10 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Executor{
		store:    store,
		tracker:  tracker,
		audit:    audit,
		handlers: handlersByEntity(handlers),
		cfg:      cfg,
		logger:   logger.With().Str("component", "bulk_executor").Logger(),
		ctx:      ctx,
		cancel:   cancel,
		slots:    make(chan struct{}, cfg.MaxConcurrent),
	}
}

// Launch schedules the operation on its own goroutine. Operations past
// the concurrency cap wait for a free slot instead of being rejected.
func (e *Executor) Launch(op domain.Operation, descriptor domain.Descriptor) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		select {
		case e.slots <- struct{}{}:
		case <-e.ctx.Done():
			return
		}
		defer func() { <-e.slots }()

		e.run(op, descriptor)
	}()
}

// Shutdown waits for in-flight operations to drain. Once ctx expires
// the remaining ones are aborted and finalized as errors.
func (e *Executor) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.cancel()
		return nil
	case <-ctx.Done():
		e.cancel()
		<-done
		return ctx.Err()
	}
}

func (e *Executor) run(op domain.Operation, descriptor domain.Descriptor) {
	logger := e.logger.With().
		Str("operation_id", op.ID).
		Str("type", op.Type).
		Str("entity_type", op.EntityType).
		Logger()

	if e.tracker.CancelRequested(op.ID) {
		e.finalize(logger, op.ID, domain.StatusCancelled, "")
		return
	}

	handler, ok := e.handlers[op.EntityType]
	if !ok {
		e.finalize(logger, op.ID, domain.StatusError, fmt.Sprintf("no handler for entity type %q", op.EntityType))
		return
	}

	ctx, cancel := context.WithTimeout(e.ctx, e.cfg.OperationTimeout)
	defer cancel()

	e.tracker.MarkRunning(op.ID)
	if err := e.store.MarkRunning(ctx, op.ID); err != nil {
		e.finalize(logger, op.ID, domain.StatusError, truncateReason(fmt.Sprintf("mark running: %v", err)))
		return
	}

	logger.Info().Int("items", op.Progress.Total).Int("batch_size", descriptor.BatchSize).Msg("bulk operation started")

	status, errorMessage := e.processBatches(ctx, logger, op, descriptor, handler)
	e.finalize(logger, op.ID, status, errorMessage)
}

func (e *Executor) processBatches(
	ctx context.Context,
	logger zerolog.Logger,
	op domain.Operation,
	descriptor domain.Descriptor,
	handler domain.EntityHandler,
) (string, string) {
	batches := partition(op.EntityIDs, descriptor.BatchSize)

	for i, batch := range batches {
		if i > 0 && e.cfg.BatchDelay > 0 && !sleepWithContext(ctx, e.cfg.BatchDelay) {
			return abortReason(ctx)
		}

		select {
		case <-ctx.Done():
			return abortReason(ctx)
		default:
		}

		// Cancellation is honored at batch boundaries only; a batch
		// that already started always runs to its end.
		if e.tracker.CancelRequested(op.ID) {
			return domain.StatusCancelled, ""
		}

		var processed, failed int
		var itemErrors []domain.ItemError
		for _, entityID := range batch {
			err := handler.Apply(ctx, op.Type, entityID)
			if err == nil {
				processed++
				continue
			}
			if domain.IsItemError(err) {
				failed++
				itemErrors = append(itemErrors, domain.ItemError{EntityID: entityID, Message: err.Error()})
				continue
			}

			if recordErr := e.record(ctx, op.ID, processed, failed, itemErrors); recordErr != nil {
				logger.Warn().Err(recordErr).Msg("flush partial batch")
			}
			return domain.StatusError, truncateReason(err.Error())
		}

		if err := e.record(ctx, op.ID, processed, failed, itemErrors); err != nil {
			return domain.StatusError, truncateReason(fmt.Sprintf("record progress: %v", err))
		}

		logger.Debug().
			Int("batch", i+1).
			Int("batches", len(batches)).
			Int("processed", processed).
			Int("failed", failed).
			Msg("batch applied")
	}

	return domain.StatusCompleted, ""
}

func (e *Executor) record(ctx context.Context, operationID string, processed, failed int, itemErrors []domain.ItemError) error {
	if processed == 0 && failed == 0 {
		return nil
	}

	snap, err := e.tracker.Add(operationID, processed, failed, itemErrors)
	if err != nil {
		return err
	}
	if err := e.store.UpdateProgress(ctx, operationID, snap.Progress, snap.Errors); err != nil {
		return fmt.Errorf("persist progress: %w", err)
	}
	return nil
}

func (e *Executor) finalize(logger zerolog.Logger, operationID, status, errorMessage string) {
	final, ok := e.tracker.Finish(operationID, status, errorMessage)
	if !ok {
		logger.Error().Str("status", status).Msg("operation missing from tracker at finish")
		return
	}

	// The operation context may already be done here, so the terminal
	// write gets its own deadline.
	ctx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
	defer cancel()

	outcome := domain.Outcome{
		Status:       final.Status,
		Progress:     final.Progress,
		Errors:       final.Errors,
		ErrorMessage: final.ErrorMessage,
	}
	if err := e.store.Finish(ctx, operationID, outcome); err != nil {
		logger.Error().Err(err).Msg("persist operation outcome")
		return
	}

	e.appendAudit(ctx, logger, final)
	e.tracker.Forget(operationID)

	logger.Info().
		Str("status", final.Status).
		Int("processed", final.Progress.Processed).
		Int("failed", final.Progress.Failed).
		Msg("bulk operation finished")
}

func (e *Executor) appendAudit(ctx context.Context, logger zerolog.Logger, final domain.Operation) {
	entry := domain.AuditEntry{
		OperationID:   final.ID,
		Action:        domain.AuditFinished,
		Actor:         final.RequestedBy,
		OperationType: final.Type,
		EntityType:    final.EntityType,
		Detail: map[string]any{
			"status":    final.Status,
			"processed": final.Progress.Processed,
			"failed":    final.Progress.Failed,
		},
	}
	if final.ErrorMessage != "" {
		entry.Detail["error"] = final.ErrorMessage
	}

	if err := e.audit.Append(ctx, entry); err != nil {
		logger.Warn().Err(err).Msg("audit operation outcome")
	}
}

func abortReason(ctx context.Context) (string, string) {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.StatusError, "operation timed out"
	}
	return domain.StatusError, "interrupted by shutdown"
}

func handlersByEntity(handlers []domain.EntityHandler) map[string]domain.EntityHandler {
	byEntity := make(map[string]domain.EntityHandler, len(handlers))
	for _, handler := range handlers {
		byEntity[handler.EntityType()] = handler
	}
	return byEntity
}

func partition(ids []string, size int) [][]string {
	if len(ids) == 0 || size <= 0 {
		return nil
	}

	batches := make([][]string, 0, domain.BatchCount(len(ids), size))
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func truncateReason(reason string) string {
	const maxLen = 1000
	reason = strings.TrimSpace(reason)
	if len(reason) <= maxLen {
		return reason
	}
	return reason[:maxLen]
}
