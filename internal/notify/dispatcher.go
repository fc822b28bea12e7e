package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/countchain/engine/internal/model"
	"github.com/countchain/engine/internal/util/workerpool"
)

// Dispatcher fans verdicts out to the notifier on a bounded worker
// pool. Submission never blocks the caller: when the queue is full the
// notification is dropped and counted, because the state mutation is
// already final and outbound delivery is at-most-once.
type Dispatcher struct {
	notifier Notifier
	pool     *workerpool.WorkerPool
	timeout  time.Duration
	logger   *zap.Logger
}

// DispatcherConfig holds dispatcher configuration
type DispatcherConfig struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// NewDispatcher creates a dispatcher with its own worker pool
func NewDispatcher(cfg *DispatcherConfig, notifier Notifier, logger *zap.Logger) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	pool := workerpool.NewWorkerPool(&workerpool.Config{
		Name:       "notify",
		MaxWorkers: cfg.Workers,
		QueueSize:  cfg.QueueSize,
		Logger:     logger,
	})
	return &Dispatcher{
		notifier: notifier,
		pool:     pool,
		timeout:  cfg.Timeout,
		logger:   logger,
	}
}

// Dispatch queues one verdict for delivery. Ignored verdicts produce no
// notification at all. Returns false when the notification was dropped.
func (d *Dispatcher) Dispatch(out model.Outcome) bool {
	if out.Verdict == model.VerdictIgnored {
		return true
	}

	task := workerpool.Task{
		ID: fmt.Sprintf("notify-%s-%d", out.TenantID, time.Now().UnixNano()),
		Fn: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()
			return d.notifier.Notify(ctx, out)
		},
	}

	if !d.pool.TrySubmit(task) {
		d.logger.Warn("Notification dropped, dispatch queue full",
			zap.String("tenant_id", string(out.TenantID)),
			zap.String("verdict", out.Verdict.String()))
		return false
	}
	return true
}

// Stats returns the underlying pool statistics
func (d *Dispatcher) Stats() workerpool.Stats {
	return d.pool.Stats()
}

// Stop drains the dispatcher
func (d *Dispatcher) Stop(timeout time.Duration) error {
	return d.pool.Stop(timeout)
}
