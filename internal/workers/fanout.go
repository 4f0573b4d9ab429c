package workers

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/metrics"
)

const (
	DefaultQueueSize       = 1024
	DefaultBatchSize       = 100
	DefaultFlushInterval   = time.Second
	DefaultDeliveryTimeout = 3 * time.Second
)

type FanoutConfig struct {
	QueueSize       int
	BatchSize       int
	FlushInterval   time.Duration
	DeliveryTimeout time.Duration
}

type fanoutWorker struct {
	deliverer domain.EventDeliverer
	ch        chan domain.EngagementEvent
	cfg       FanoutConfig
	done      chan struct{}

	// mu orders Emit against the shutdown drain: once closed is set no
	// sender can still be mid-send on ch.
	mu     sync.RWMutex
	closed bool
}

var _ domain.FanoutWorker = (*fanoutWorker)(nil)

func NewFanoutWorker(d domain.EventDeliverer, cfg FanoutConfig) *fanoutWorker {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = DefaultDeliveryTimeout
	}
	return &fanoutWorker{
		deliverer: d,
		ch:        make(chan domain.EngagementEvent, cfg.QueueSize),
		cfg:       cfg,
		done:      make(chan struct{}),
	}
}

// Emit never blocks. Self-engagement is dropped here, and so is anything
// that does not fit in the queue or arrives after the worker stopped.
func (w *fanoutWorker) Emit(event domain.EngagementEvent) {
	if event.SelfEngagement() {
		metrics.FanoutEvents.WithLabelValues("self").Inc()
		return
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		metrics.FanoutEvents.WithLabelValues("dropped").Inc()
		logrus.Warnf("fanout worker stopped, event %s dropped", event.NaturalKey())
		return
	}
	select {
	case w.ch <- event:
		metrics.FanoutEvents.WithLabelValues("queued").Inc()
	default:
		metrics.FanoutEvents.WithLabelValues("dropped").Inc()
		logrus.Warnf("fanout queue is full, event %s dropped", event.NaturalKey())
	}
}

// Done is closed once Start has flushed its last batch.
func (w *fanoutWorker) Done() <-chan struct{} {
	return w.done
}

func (w *fanoutWorker) Start(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]domain.EngagementEvent, 0, w.cfg.BatchSize)
	for {
		select {
		case ev := <-w.ch:
			batch = append(batch, ev)
			if len(batch) == w.cfg.BatchSize {
				w.flush(ctx, batch)
				batch = make([]domain.EngagementEvent, 0, w.cfg.BatchSize)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(ctx, batch)
				batch = make([]domain.EngagementEvent, 0, w.cfg.BatchSize)
			}
		case <-ctx.Done():
			logrus.Info("shutting down fanout worker, flushing remaining events...")
			w.mu.Lock()
			w.closed = true
			w.mu.Unlock()
		drain:
			for {
				select {
				case ev := <-w.ch:
					batch = append(batch, ev)
				default:
					break drain
				}
			}
			w.flush(context.WithoutCancel(ctx), batch)
			return
		}
	}
}

// coalesce keeps the last event per natural key, in first-seen order.
func coalesce(batch []domain.EngagementEvent) []domain.EngagementEvent {
	idx := make(map[string]int, len(batch))
	out := make([]domain.EngagementEvent, 0, len(batch))
	for _, ev := range batch {
		k := ev.NaturalKey()
		if i, ok := idx[k]; ok {
			out[i] = ev
			continue
		}
		idx[k] = len(out)
		out = append(out, ev)
	}
	return out
}

func (w *fanoutWorker) flush(ctx context.Context, batch []domain.EngagementEvent) {
	events := coalesce(batch)
	if n := len(batch) - len(events); n > 0 {
		metrics.FanoutEvents.WithLabelValues("coalesced").Add(float64(n))
	}
	for _, ev := range events {
		w.deliver(ctx, ev)
	}
}

func (w *fanoutWorker) deliver(ctx context.Context, ev domain.EngagementEvent) {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.DeliveryTimeout)
	defer cancel()

	if err := w.deliverer.Deliver(ctx, ev); err != nil {
		metrics.FanoutEvents.WithLabelValues("failed").Inc()
		logrus.Errorf("failed to deliver %s: %v", ev.NaturalKey(), err)
		return
	}
	metrics.FanoutEvents.WithLabelValues("delivered").Inc()
}
