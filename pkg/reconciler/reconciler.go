// Package reconciler keeps a client's like buttons responsive: toggles apply
// optimistically, then settle on the server's answer or roll back.
package reconciler

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/pkg/client"
)

const defaultRefetchTimeout = 5 * time.Second

// API is the subset of the engagement API the reconciler needs.
// *client.Client satisfies it.
type API interface {
	Like(ctx context.Context, itemID int64) (domain.LikeResult, error)
	Unlike(ctx context.Context, itemID int64) (domain.LikeResult, error)
	Stats(ctx context.Context, itemIDs []int64) (map[int64]domain.ItemStats, error)
}

// Hints supplies the initial belief for items seen for the first time.
type Hints interface {
	Liked(itemID int64) (liked, known bool)
	Set(itemID int64, liked bool) error
}

var _ API = (*client.Client)(nil)

type entry struct {
	mu    sync.Mutex
	state State
}

type Reconciler struct {
	api            API
	hints          Hints
	refetchTimeout time.Duration

	entries sync.Map // item id -> *entry
	sf      singleflight.Group

	obsMu     sync.RWMutex
	nextObs   int
	observers map[int]func(State)
}

type Option func(*Reconciler)

func WithHints(h Hints) Option {
	return func(r *Reconciler) { r.hints = h }
}

func WithRefetchTimeout(d time.Duration) Option {
	return func(r *Reconciler) { r.refetchTimeout = d }
}

func New(api API, opts ...Option) *Reconciler {
	r := &Reconciler{
		api:            api,
		refetchTimeout: defaultRefetchTimeout,
		observers:      make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reconciler) entry(itemID int64) *entry {
	if e, ok := r.entries.Load(itemID); ok {
		return e.(*entry)
	}
	st := State{ItemID: itemID, Phase: Idle}
	if r.hints != nil {
		if liked, known := r.hints.Liked(itemID); known {
			st.Liked = liked
		}
	}
	e, _ := r.entries.LoadOrStore(itemID, &entry{state: st})
	return e.(*entry)
}

// OnChange registers fn for every state transition. Calls happen on the
// goroutine that caused the transition.
func (r *Reconciler) OnChange(fn func(State)) (unsubscribe func()) {
	r.obsMu.Lock()
	id := r.nextObs
	r.nextObs++
	r.observers[id] = fn
	r.obsMu.Unlock()

	return func() {
		r.obsMu.Lock()
		delete(r.observers, id)
		r.obsMu.Unlock()
	}
}

func (r *Reconciler) publish(st State) {
	r.obsMu.RLock()
	fns := make([]func(State), 0, len(r.observers))
	for _, fn := range r.observers {
		fns = append(fns, fn)
	}
	r.obsMu.RUnlock()

	for _, fn := range fns {
		notifyObserver(fn, st)
	}
}

// notifyObserver isolates a panicking observer so the toggle still settles.
func notifyObserver(fn func(State), st State) {
	defer func() {
		if rec := recover(); rec != nil {
			logrus.Errorf("like state observer panicked on item %d: %v", st.ItemID, rec)
		}
	}()
	fn(st)
}

func (r *Reconciler) remember(itemID int64, liked bool) {
	if r.hints == nil {
		return
	}
	if err := r.hints.Set(itemID, liked); err != nil {
		logrus.Warnf("failed to store like hint for item %d: %v", itemID, err)
	}
}

// State returns the current state for itemID, and false if it has never
// been seen.
func (r *Reconciler) State(itemID int64) (State, bool) {
	v, ok := r.entries.Load(itemID)
	if !ok {
		return State{}, false
	}
	e := v.(*entry)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, true
}

// Seed installs server-known values, typically from a feed payload. It is
// ignored while a toggle is in flight.
func (r *Reconciler) Seed(itemID, likesCount int64, liked bool) {
	e := r.entry(itemID)
	e.mu.Lock()
	if e.state.Phase == Pending {
		e.mu.Unlock()
		return
	}
	e.state = State{ItemID: itemID, LikesCount: likesCount, Liked: liked, Phase: Idle}
	st := e.state
	e.mu.Unlock()

	r.publish(st)
}

// apply installs authoritative values unless a toggle is in flight, and
// reports the state that is current afterwards.
func (r *Reconciler) apply(itemID int64, stats domain.ItemStats) State {
	e := r.entry(itemID)
	e.mu.Lock()
	if e.state.Phase == Pending {
		st := e.state
		e.mu.Unlock()
		return st
	}
	e.state = State{
		ItemID:     itemID,
		LikesCount: stats.LikesCount,
		Liked:      stats.UserHasLiked,
		Phase:      Reconciled,
	}
	st := e.state
	e.mu.Unlock()

	r.publish(st)
	r.remember(itemID, st.Liked)
	return st
}

// Refresh fetches authoritative stats for itemIDs and applies them.
func (r *Reconciler) Refresh(ctx context.Context, itemIDs ...int64) error {
	if len(itemIDs) == 0 {
		return nil
	}
	stats, err := r.api.Stats(ctx, itemIDs)
	if err != nil {
		return err
	}
	for _, id := range itemIDs {
		r.apply(id, stats[id])
	}
	return nil
}

// refetch loads one item's truth, coalescing concurrent calls for the same
// item. It outlives ctx's cancellation since it often follows a timeout.
func (r *Reconciler) refetch(ctx context.Context, itemID int64) (State, error) {
	v, err, _ := r.sf.Do(strconv.FormatInt(itemID, 10), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.refetchTimeout)
		defer cancel()

		stats, err := r.api.Stats(fctx, []int64{itemID})
		if err != nil {
			return nil, err
		}
		return stats[itemID], nil
	})
	if err != nil {
		return State{}, err
	}
	return r.apply(itemID, v.(domain.ItemStats)), nil
}

func (e *entry) begin() (snapshot, optimistic State, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase == Pending {
		return e.state, State{}, ErrTogglePending
	}
	snapshot = e.state

	next := e.state
	next.Liked = !next.Liked
	if next.Liked {
		next.LikesCount++
	} else if next.LikesCount > 0 {
		next.LikesCount--
	}
	next.Phase = Pending
	e.state = next
	return snapshot, next, nil
}

func (e *entry) settle(st State) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = st
	return st
}

func kindOf(err error) Kind {
	switch {
	case errors.Is(err, client.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, domain.ErrConflict):
		return KindConflict
	case errors.Is(err, domain.ErrNotFound):
		return KindNotFound
	case errors.Is(err, domain.ErrTransient):
		return KindTransient
	default:
		return KindFatal
	}
}

// Toggle flips the like on itemID. The flip is visible to observers at once
// as Pending; the returned State is the settled one.
//
// On failure the pre-toggle values are restored first. A transient failure
// is then retried once, and a conflict or timeout triggers a re-fetch of the
// server's truth, which replaces the restored values.
func (r *Reconciler) Toggle(ctx context.Context, itemID int64) (State, error) {
	e := r.entry(itemID)

	retried := false
	for {
		snapshot, optimistic, err := e.begin()
		if err != nil {
			return snapshot, err
		}
		r.publish(optimistic)

		var res domain.LikeResult
		if snapshot.Liked {
			res, err = r.api.Unlike(ctx, itemID)
		} else {
			res, err = r.api.Like(ctx, itemID)
		}

		if err == nil {
			st := e.settle(State{
				ItemID:     itemID,
				LikesCount: res.LikesCount,
				Liked:      res.UserHasLiked,
				Phase:      Reconciled,
			})
			r.publish(st)
			r.remember(itemID, st.Liked)
			return st, nil
		}

		restored := snapshot
		restored.Phase = RolledBack
		st := e.settle(restored)
		r.publish(st)

		kind := kindOf(err)
		if kind == KindTransient && !retried && ctx.Err() == nil {
			retried = true
			logrus.Debugf("retrying like toggle on item %d after: %v", itemID, err)
			continue
		}

		if kind == KindConflict || kind == KindTimeout {
			truth, ferr := r.refetch(ctx, itemID)
			if ferr != nil {
				logrus.Warnf("re-fetch after %s on item %d failed: %v", kind, itemID, ferr)
			} else {
				st = truth
			}
		}

		return st, &ToggleError{
			ItemID:    itemID,
			Kind:      kind,
			Retryable: kind == KindTransient || kind == KindTimeout,
			Err:       err,
		}
	}
}
