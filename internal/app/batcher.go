package app

import (
	"context"
	"errors"
	"time"

	"github.com/aneoconsulting/logship/internal/domain"
	"github.com/aneoconsulting/logship/internal/ports"
)

// DefaultMaxBatchBytes is the request body limit used when none is configured.
const DefaultMaxBatchBytes = 100_000

// ErrBatcherClosed is returned by Submit after Close.
var ErrBatcherClosed = errors.New("batcher closed")

// SendEventEmitter is called on send success or failure.
type SendEventEmitter interface {
	OnSendSuccess(events, bytesSent int, duration time.Duration)
	OnSendError(err error, events int)
}

// Batcher packs events into size-bounded bodies and posts each full body.
// A Batcher is owned by a single session and is not safe for concurrent use.
type Batcher struct {
	sender        ports.EventSender
	logger        ports.Logger
	emitter       SendEventEmitter
	maxBatchBytes int

	batch  *domain.Batch
	stats  domain.SessionStats
	closed bool
}

// NewBatcher creates a new batcher posting through sender.
// A non-positive maxBatchBytes selects DefaultMaxBatchBytes.
func NewBatcher(sender ports.EventSender, maxBatchBytes int, logger ports.Logger, emitter SendEventEmitter) *Batcher {
	if maxBatchBytes <= 0 {
		maxBatchBytes = DefaultMaxBatchBytes
	}
	return &Batcher{
		sender:        sender,
		logger:        logger,
		emitter:       emitter,
		maxBatchBytes: maxBatchBytes,
		batch:         domain.NewBatch(maxBatchBytes),
	}
}

// Submit adds one newline-terminated event.
//
// When the event does not fit next to the buffered ones, the buffer is posted
// first and the event starts the next batch. The event is accepted even if
// that post fails; the failure is returned as a *domain.DeliveryError.
// Cancelling ctx does not abort a post once it has started.
func (b *Batcher) Submit(ctx context.Context, event []byte) error {
	if b.closed {
		return ErrBatcherClosed
	}
	b.stats.Accepted++

	if b.batch.Fits(len(event), b.maxBatchBytes) {
		b.batch.Add(event)
		return nil
	}

	err := b.flush(context.WithoutCancel(ctx))
	b.batch.Add(event)
	return err
}

// Close posts the remaining events, if any, even when ctx is already
// cancelled. Calling Close again is a no-op.
func (b *Batcher) Close(ctx context.Context) error {
	if b.closed {
		return nil
	}
	b.closed = true
	if b.batch.Empty() {
		return nil
	}
	return b.flush(context.WithoutCancel(ctx))
}

// Pending returns the number of buffered events.
func (b *Batcher) Pending() int {
	return b.batch.Events
}

// Stats returns the session counters.
func (b *Batcher) Stats() domain.SessionStats {
	return b.stats
}

// flush posts the current batch and resets the buffer whatever the outcome.
func (b *Batcher) flush(ctx context.Context) error {
	batch := b.batch.Take()

	start := time.Now()
	err := b.sender.Send(ctx, batch.Body)
	duration := time.Since(start)

	if err != nil {
		b.stats.Lost += batch.Events
		b.stats.FailedBatches++
		b.logger.Error("send failed",
			ports.Err(err),
			ports.Int("events", batch.Events),
			ports.Int("bytes", batch.Size()),
		)
		if b.emitter != nil {
			b.emitter.OnSendError(err, batch.Events)
		}
		return &domain.DeliveryError{Batch: batch, Err: err}
	}

	b.stats.Delivered += batch.Events
	b.stats.Batches++
	b.stats.BytesSent += batch.Size()
	b.logger.Debug("sent batch",
		ports.Int("events", batch.Events),
		ports.Int("bytes", batch.Size()),
		ports.Duration("duration", duration),
	)
	if b.emitter != nil {
		b.emitter.OnSendSuccess(batch.Events, batch.Size(), duration)
	}
	return nil
}
