package events

import (
	"context"
	"time"

	"sweet-shop/internal/worker"

	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// Dispatcher hands events to a Publisher on a worker pool so that callers
// never wait on the broker.
type Dispatcher struct {
	pool worker.Pool
	pub  Publisher
	log  *zap.Logger
}

func NewDispatcher(pool worker.Pool, pub Publisher, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{pool: pool, pub: pub, log: log}
}

// Emit queues ev for publishing. Failures are logged, never returned.
func (d *Dispatcher) Emit(ev InventoryEvent) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	ok := d.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := d.pub.Publish(ctx, ev); err != nil {
			d.log.Warn("publish inventory event",
				zap.String("type", string(ev.Type)),
				zap.Int("sweet_id", ev.SweetID),
				zap.Error(err),
			)
		}
	})
	if !ok {
		d.log.Warn("inventory event dropped",
			zap.String("type", string(ev.Type)),
			zap.Int("sweet_id", ev.SweetID),
		)
	}
}

// Close drains queued events, then closes the publisher.
func (d *Dispatcher) Close() error {
	d.pool.Stop()
	return d.pub.Close()
}
