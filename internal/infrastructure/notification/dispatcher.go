package notification

import (
	"context"
	"sync"
	"time"

	"github.com/halmarket/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// Transport attempts delivery of one notification payload to the
// regulatory endpoint. The dispatcher does not know the wire protocol;
// a returned error counts as a failed attempt and drives the retry
// backoff.
type Transport interface {
	Deliver(ctx context.Context, n *notification.Notification) error
}

// DispatcherConfig holds configuration for the notification dispatcher
type DispatcherConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

// DefaultDispatcherConfig returns default configuration
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		BatchSize:    50,
		PollInterval: 5 * time.Second,
	}
}

// Dispatcher delivers pending notifications in the background. It wakes
// on a poll ticker or an explicit enqueue signal, claims due
// notifications, and records each attempt's outcome. Delivery is
// at-least-once; cancellation mid-flight requeues the claimed
// notification without counting the attempt.
type Dispatcher struct {
	repo      notification.Repository
	transport Transport
	config    DispatcherConfig
	logger    *zap.Logger

	wake   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(repo notification.Repository, transport Transport, config DispatcherConfig, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		transport: transport,
		config:    config,
		logger:    logger,
		wake:      make(chan struct{}, 1),
	}
}

// Start starts the background delivery loop
func (d *Dispatcher) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go d.loop(ctx)

	d.logger.Info("notification dispatcher started",
		zap.Int("batch_size", d.config.BatchSize),
		zap.Duration("poll_interval", d.config.PollInterval),
	)
	return nil
}

// Stop gracefully stops the dispatcher, waiting for the in-flight batch
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Notify wakes the dispatcher ahead of the next poll tick. Safe to call
// from any goroutine; signals coalesce.
func (d *Dispatcher) Notify() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) loop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.dispatchBatch(ctx)
		case <-d.wake:
			d.dispatchBatch(ctx)
		}
	}
}

// dispatchBatch claims and delivers one batch of due notifications
func (d *Dispatcher) dispatchBatch(ctx context.Context) {
	due, err := d.repo.FindDue(ctx, time.Now(), d.config.BatchSize)
	if err != nil {
		d.logger.Error("failed to find due notifications", zap.Error(err))
		return
	}

	for _, n := range due {
		if ctx.Err() != nil {
			return
		}
		d.dispatch(ctx, n)
	}
}

// dispatch performs one delivery attempt for one notification
func (d *Dispatcher) dispatch(ctx context.Context, n *notification.Notification) {
	if err := n.MarkSending(); err != nil {
		// claimed by a concurrent batch, skip
		return
	}
	if err := d.repo.Save(ctx, n); err != nil {
		d.logger.Error("failed to claim notification",
			zap.String("notification_id", n.ID.String()),
			zap.Error(err),
		)
		return
	}

	err := d.transport.Deliver(ctx, n)
	if ctx.Err() != nil && err != nil {
		// shutdown mid-flight: leave the notification re-resumable
		// without burning an attempt
		n.Requeue()
		if saveErr := d.repo.Save(context.WithoutCancel(ctx), n); saveErr != nil {
			d.logger.Error("failed to requeue notification on shutdown",
				zap.String("notification_id", n.ID.String()),
				zap.Error(saveErr),
			)
		}
		return
	}

	if err != nil {
		if markErr := n.MarkFailed(err.Error()); markErr != nil {
			d.logger.Error("failed to record delivery failure",
				zap.String("notification_id", n.ID.String()),
				zap.Error(markErr),
			)
			return
		}
		if n.Exhausted() {
			d.logger.Warn("notification failed terminally",
				zap.String("notification_id", n.ID.String()),
				zap.String("document_number", n.DocumentNumber),
				zap.Int("attempts", n.Attempts),
				zap.String("last_error", n.LastError),
			)
		}
		if saveErr := d.repo.Save(ctx, n); saveErr != nil {
			d.logger.Error("failed to save failed notification", zap.Error(saveErr))
		}
		return
	}

	if err := n.MarkDelivered(); err != nil {
		d.logger.Error("failed to record delivery",
			zap.String("notification_id", n.ID.String()),
			zap.Error(err),
		)
		return
	}
	if err := d.repo.Save(ctx, n); err != nil {
		d.logger.Error("failed to save delivered notification", zap.Error(err))
		return
	}
	d.logger.Debug("notification delivered",
		zap.String("notification_id", n.ID.String()),
		zap.String("document_number", n.DocumentNumber),
	)
}
