package dynamodb

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lexmatter/application/ports"
)

// OutboxProcessor drains pending outbox entries and publishes them
// downstream. It is the asynchronous half of the outbox pattern: the unit of
// work commits events as pending, this loop makes them leave the building.
type OutboxProcessor struct {
	eventStore *EventStore
	publisher  ports.EventPublisher
	logger     *zap.Logger

	batchSize  int
	interval   time.Duration
	maxRetries int

	stopChan    chan struct{}
	stoppedChan chan struct{}
}

// NewOutboxProcessor creates a new outbox processor
func NewOutboxProcessor(eventStore *EventStore, publisher ports.EventPublisher, logger *zap.Logger) *OutboxProcessor {
	return &OutboxProcessor{
		eventStore:  eventStore,
		publisher:   publisher,
		logger:      logger,
		batchSize:   50,
		interval:    5 * time.Second,
		maxRetries:  3,
		stopChan:    make(chan struct{}),
		stoppedChan: make(chan struct{}),
	}
}

// Start begins background processing
func (op *OutboxProcessor) Start(ctx context.Context) {
	op.logger.Info("Starting outbox processor",
		zap.Int("batchSize", op.batchSize),
		zap.Duration("interval", op.interval),
	)
	go op.processLoop(ctx)
}

// Stop gracefully stops the processor and waits for the loop to exit
func (op *OutboxProcessor) Stop() {
	close(op.stopChan)
	<-op.stoppedChan
	op.logger.Info("Outbox processor stopped")
}

func (op *OutboxProcessor) processLoop(ctx context.Context) {
	defer close(op.stoppedChan)

	ticker := time.NewTicker(op.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			op.logger.Info("Context cancelled, stopping outbox processor")
			return
		case <-op.stopChan:
			return
		case <-ticker.C:
			if err := op.ProcessBatch(ctx); err != nil {
				op.logger.Error("Error processing outbox batch", zap.Error(err))
			}
		}
	}
}

// ProcessBatch publishes one batch of pending entries. Exported so a worker
// binary can drive the processor on its own schedule.
func (op *OutboxProcessor) ProcessBatch(ctx context.Context) error {
	entries, err := op.eventStore.GetUnpublished(ctx, op.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending events: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	published := 0
	failed := 0
	for _, entry := range entries {
		if err := op.processEntry(ctx, entry); err != nil {
			failed++
			continue
		}
		published++
	}

	op.logger.Debug("Completed outbox batch",
		zap.Int("published", published),
		zap.Int("failed", failed),
	)
	return nil
}

func (op *OutboxProcessor) processEntry(ctx context.Context, entry ports.StoredEvent) error {
	event, err := unmarshalEvent(entry.EventType, entry.Payload)
	if err != nil {
		op.markFailed(ctx, entry, err)
		return err
	}

	if err := op.publisher.Publish(ctx, event); err != nil {
		op.markFailed(ctx, entry, err)
		return err
	}

	if err := op.eventStore.MarkPublished(ctx, []ports.StoredEvent{entry}); err != nil {
		op.logger.Error("Failed to mark event as published",
			zap.String("eventID", entry.EventID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (op *OutboxProcessor) markFailed(ctx context.Context, entry ports.StoredEvent, cause error) {
	attempts := entry.Attempts + 1

	if err := op.eventStore.MarkFailed(ctx, entry, cause, attempts, op.maxRetries); err != nil {
		op.logger.Error("Failed to record publish failure",
			zap.String("eventID", entry.EventID),
			zap.Error(err),
		)
		return
	}

	if attempts >= op.maxRetries {
		op.logger.Warn("Event permanently failed",
			zap.String("eventID", entry.EventID),
			zap.String("eventType", entry.EventType),
			zap.Int("attempts", attempts),
			zap.Error(cause),
		)
	} else {
		op.logger.Debug("Event marked for retry",
			zap.String("eventID", entry.EventID),
			zap.String("eventType", entry.EventType),
			zap.Int("attempts", attempts),
			zap.Error(cause),
		)
	}
}
