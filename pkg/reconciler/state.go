package reconciler

import (
	"errors"
	"fmt"
)

type Phase int

const (
	Idle Phase = iota
	Pending
	Reconciled
	RolledBack
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Reconciled:
		return "reconciled"
	case RolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is what a like button renders for one item.
type State struct {
	ItemID     int64
	LikesCount int64
	Liked      bool
	Phase      Phase
}

// ErrTogglePending rejects a toggle while the previous one for the same item
// is still in flight. Nothing is sent.
var ErrTogglePending = errors.New("like toggle already in flight")

type Kind int

const (
	KindTransient Kind = iota
	KindTimeout
	KindConflict
	KindNotFound
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindTimeout:
		return "timeout"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "fatal"
	}
}

// ToggleError is returned after a failed toggle has been rolled back. It is
// meant for a non-blocking message; the State returned alongside it is
// already correct to render.
type ToggleError struct {
	ItemID    int64
	Kind      Kind
	Retryable bool
	Err       error
}

func (e *ToggleError) Error() string {
	return fmt.Sprintf("toggle like on item %d: %s: %v", e.ItemID, e.Kind, e.Err)
}

func (e *ToggleError) Unwrap() error {
	return e.Err
}
