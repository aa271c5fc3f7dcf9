package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/blood-demand-predictor/internal/domain"
	"github.com/couchcryptid/blood-demand-predictor/internal/observability"
	"github.com/jonboulle/clockwork"
)

const (
	// queueFactor sizes the in-memory queue as a multiple of the batch size.
	queueFactor = 4

	defaultFlushInterval = 500 * time.Millisecond

	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second

	// drainTimeout bounds the final flush after the run context is cancelled.
	drainTimeout = 5 * time.Second
)

// BatchLoader writes multiple prediction events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.PredictionEvent) error
}

// Dispatcher buffers prediction events and writes them in batches. Publish
// never blocks the caller; events are dropped when the queue is full or once
// Run has returned.
type Dispatcher struct {
	loader BatchLoader
	queue  chan domain.PredictionEvent

	// mu guards closed; Publish holds it shared while enqueueing.
	mu     sync.RWMutex
	closed bool

	logger        *slog.Logger
	metrics       *observability.Metrics
	clock         clockwork.Clock
	batchSize     int
	flushInterval time.Duration
}

// New creates a Dispatcher. A batch is written when it reaches batchSize or
// when flushInterval elapses, whichever comes first.
func New(l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int, flushInterval time.Duration, clock clockwork.Clock) *Dispatcher {
	if batchSize < 1 {
		batchSize = 1
	}
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Dispatcher{
		loader:        l,
		queue:         make(chan domain.PredictionEvent, batchSize*queueFactor),
		logger:        logger,
		metrics:       metrics,
		clock:         clock,
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

// Publish enqueues an event for the next batch.
func (d *Dispatcher) Publish(evt domain.PredictionEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.metrics.EventsDropped.Inc()
		d.logger.Warn("event dispatcher stopped, dropping prediction event", "request_id", evt.ID)
		return
	}
	d.enqueue(evt)
}

// enqueue adds an event without checking closed; Run uses it for requeues.
func (d *Dispatcher) enqueue(evt domain.PredictionEvent) {
	select {
	case d.queue <- evt:
	default:
		d.metrics.EventsDropped.Inc()
		d.logger.Warn("event queue full, dropping prediction event", "request_id", evt.ID)
	}
}

// Run collects and writes batches until the context is cancelled, then makes
// one last attempt to write whatever is still buffered.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("event dispatcher started", "batch_size", d.batchSize, "flush_interval", d.flushInterval)

	ticker := d.clock.NewTicker(d.flushInterval)
	defer ticker.Stop()

	batch := make([]domain.PredictionEvent, 0, d.batchSize)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("event dispatcher stopping", "reason", ctx.Err())
			d.drain(ctx, batch)
			return nil
		case evt := <-d.queue:
			batch = append(batch, evt)
			if len(batch) >= d.batchSize {
				d.flush(ctx, batch)
				batch = make([]domain.PredictionEvent, 0, d.batchSize)
			}
		case <-ticker.Chan():
			if len(batch) > 0 {
				d.flush(ctx, batch)
				batch = make([]domain.PredictionEvent, 0, d.batchSize)
			}
		}
	}
}

// flush writes one batch, retrying with exponential backoff until it succeeds
// or the context is cancelled.
func (d *Dispatcher) flush(ctx context.Context, batch []domain.PredictionEvent) {
	backoff := initialBackoff
	for {
		err := d.loader.LoadBatch(ctx, batch)
		if err == nil {
			d.metrics.EventsPublished.Add(float64(len(batch)))
			return
		}
		if ctx.Err() != nil {
			// Leave the batch to drain, which retries once without the
			// cancelled context.
			d.requeue(batch)
			return
		}

		d.metrics.EventsPublishErrors.Inc()
		d.logger.Error("load event batch failed", "error", err, "batch_size", len(batch))

		if !sleepWithContext(ctx, d.clock, backoff) {
			d.requeue(batch)
			return
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}
}

// requeue puts events back for the final drain; events that do not fit are dropped.
func (d *Dispatcher) requeue(batch []domain.PredictionEvent) {
	for _, evt := range batch {
		d.enqueue(evt)
	}
}

// drain stops Publish, then writes the pending batch and everything left in
// the queue in a single attempt bounded by drainTimeout.
func (d *Dispatcher) drain(ctx context.Context, batch []domain.PredictionEvent) {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	for more := true; more; {
		select {
		case evt := <-d.queue:
			batch = append(batch, evt)
		default:
			more = false
		}
	}
	if len(batch) == 0 {
		return
	}

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()

	if err := d.loader.LoadBatch(drainCtx, batch); err != nil {
		d.metrics.EventsDropped.Add(float64(len(batch)))
		d.logger.Error("final event flush failed, dropping events", "error", err, "dropped", len(batch))
		return
	}
	d.metrics.EventsPublished.Add(float64(len(batch)))
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
