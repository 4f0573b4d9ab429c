package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/recipe-engagement/domain"
)

type recordingDeliverer struct {
	mu     sync.Mutex
	events []domain.EngagementEvent
	err    error
	block  chan struct{}
}

func (r *recordingDeliverer) Deliver(ctx context.Context, ev domain.EngagementEvent) error {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingDeliverer) delivered() []domain.EngagementEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.EngagementEvent(nil), r.events...)
}

func likeEvent(actor, recipient, item int64) domain.EngagementEvent {
	return domain.EngagementEvent{
		Type:        domain.NotificationLike,
		ActorID:     actor,
		RecipientID: recipient,
		ItemID:      item,
	}
}

func TestCoalesce(t *testing.T) {
	a := likeEvent(2, 1, 10)
	a2 := a
	a2.Summary = "later"
	b := likeEvent(3, 1, 10)
	c := domain.EngagementEvent{Type: domain.NotificationComment, ActorID: 2, RecipientID: 1, ItemID: 10}

	out := coalesce([]domain.EngagementEvent{a, b, a2, c})

	require.Len(t, out, 3)
	assert.Equal(t, "later", out[0].Summary)
	assert.Equal(t, b, out[1])
	assert.Equal(t, c, out[2])
}

func TestEmit_DropsSelfEngagement(t *testing.T) {
	w := NewFanoutWorker(&recordingDeliverer{}, FanoutConfig{QueueSize: 4})

	w.Emit(likeEvent(1, 1, 10))

	assert.Len(t, w.ch, 0)
}

func TestEmit_FullQueueNeverBlocks(t *testing.T) {
	w := NewFanoutWorker(&recordingDeliverer{}, FanoutConfig{QueueSize: 2})

	done := make(chan struct{})
	go func() {
		for i := int64(0); i < 10; i++ {
			w.Emit(likeEvent(2+i, 1, 10))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full queue")
	}
	assert.Len(t, w.ch, 2)
}

func TestStart_DeliversAndFlushesOnShutdown(t *testing.T) {
	d := &recordingDeliverer{}
	w := NewFanoutWorker(d, FanoutConfig{FlushInterval: time.Hour, BatchSize: 100})

	ctx, cancel := context.WithCancel(context.Background())
	w.Emit(likeEvent(2, 1, 10))
	w.Emit(likeEvent(2, 1, 10))
	w.Emit(likeEvent(3, 1, 10))

	go w.Start(ctx)
	cancel()

	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Len(t, d.delivered(), 2)
}

func TestEmit_AfterStopIsDroppedAndLogged(t *testing.T) {
	hook := logtest.NewGlobal()
	t.Cleanup(hook.Reset)

	d := &recordingDeliverer{}
	w := NewFanoutWorker(d, FanoutConfig{FlushInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)
	cancel()
	<-w.Done()

	w.Emit(likeEvent(2, 1, 10))

	assert.Empty(t, w.ch)
	assert.Empty(t, d.delivered())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "dropped")
}

func TestStart_FlushesOnTicker(t *testing.T) {
	d := &recordingDeliverer{}
	w := NewFanoutWorker(d, FanoutConfig{FlushInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Emit(likeEvent(2, 1, 10))

	assert.Eventually(t, func() bool { return len(d.delivered()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestStart_DeliveryErrorsAreSwallowed(t *testing.T) {
	d := &recordingDeliverer{err: errors.New("redis down")}
	w := NewFanoutWorker(d, FanoutConfig{FlushInterval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	w.Emit(likeEvent(2, 1, 10))
	w.Emit(likeEvent(3, 1, 10))

	assert.Eventually(t, func() bool { return len(d.delivered()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-w.Done()
}

func TestStart_DeliveryTimeout(t *testing.T) {
	d := &recordingDeliverer{block: make(chan struct{})}
	w := NewFanoutWorker(d, FanoutConfig{FlushInterval: time.Hour, DeliveryTimeout: 20 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	w.Emit(likeEvent(2, 1, 10))
	go w.Start(ctx)
	cancel()

	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("blocked delivery was not bounded by the delivery timeout")
	}
	assert.Empty(t, d.delivered())
}
