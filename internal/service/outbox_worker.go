package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iyhunko/product-reviews/internal/metrics"
	"github.com/iyhunko/product-reviews/internal/model"
)

const outboxBatchSize = 100

// PendingEventStore is the part of the event repository used by the outbox worker.
type PendingEventStore interface {
	ListPending(ctx context.Context, limit int) ([]*model.Event, error)
	UpdateStatus(ctx context.Context, event *model.Event, status model.EventStatus) error
}

// EventPublisher delivers a review event to subscribers.
type EventPublisher interface {
	PublishReviewEvent(ctx context.Context, event *model.Event) error
}

// OutboxWorker polls the events table and publishes pending events
type OutboxWorker struct {
	events    PendingEventStore
	publisher EventPublisher
	interval  time.Duration
	stopChan  chan struct{}
	stopOnce  sync.Once
}

// NewOutboxWorker creates a new OutboxWorker
func NewOutboxWorker(events PendingEventStore, publisher EventPublisher, interval time.Duration) *OutboxWorker {
	return &OutboxWorker{
		events:    events,
		publisher: publisher,
		interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

// Start begins processing events from the outbox. It blocks until the context
// is cancelled or Stop is called.
func (w *OutboxWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker stopped by context")
			return
		case <-w.stopChan:
			slog.Info("Outbox worker stopped")
			return
		case <-ticker.C:
			w.ProcessPending(ctx)
		}
	}
}

// Stop stops the outbox worker
func (w *OutboxWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
}

// ProcessPending publishes one batch of pending events and returns how many
// were published.
func (w *OutboxWorker) ProcessPending(ctx context.Context) int {
	events, err := w.events.ListPending(ctx, outboxBatchSize)
	if err != nil {
		slog.Error("Failed to retrieve pending events", slog.Any("err", err))
		return 0
	}

	if len(events) == 0 {
		return 0
	}

	slog.Info("Processing pending events", slog.Int("count", len(events)))

	published := 0
	for _, event := range events {
		status := model.EventStatusProcessed
		if err := w.publisher.PublishReviewEvent(ctx, event); err != nil {
			slog.Error("Failed to process event",
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.EventType),
				slog.Any("err", err))
			status = model.EventStatusFailed
		}

		if err := w.events.UpdateStatus(ctx, event, status); err != nil {
			slog.Error("Failed to update event status",
				slog.String("event_id", event.ID.String()),
				slog.String("status", string(status)),
				slog.Any("err", err))
			continue
		}

		metrics.ReviewEventsPublished.WithLabelValues(string(status)).Inc()
		if status == model.EventStatusProcessed {
			published++
			slog.Info("Event processed successfully",
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.EventType))
		}
	}

	return published
}
