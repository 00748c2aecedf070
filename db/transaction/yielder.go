package transaction

import (
	"context"

	"github.com/pingcap/errors"

	"github.com/ozturkbey/mongo/db/session"
)

// ResourceYielder releases and reacquires session-bound transaction state
// around a blocking sub-operation. A sub-request issued from inside a
// transaction may route back to this very node; if the outer transaction
// still held its session, the sub-request could never take it and the node
// would deadlock against itself. Bracketing every blocking sub-call with
// Yield/Unyield breaks that cycle.
type ResourceYielder interface {
	Yield(ctx context.Context) error
	Unyield(ctx context.Context) error
}

// NewSessionYielder returns the yielder used when the operation has a
// session attached to its context. One instance serves one top-level
// operation; it is reused across retry attempts.
func NewSessionYielder() ResourceYielder {
	return &sessionYielder{}
}

// NewNoopYielder returns the yielder used when no session is attached.
// There is nothing to release, so both operations do nothing.
func NewNoopYielder() ResourceYielder {
	return noopYielder{}
}

type sessionYielder struct {
	yielded bool
	stash   *session.TxnResources
}

func (y *sessionYielder) Yield(ctx context.Context) error {
	h := session.FromContext(ctx)
	if h == nil {
		y.yielded = false
		return nil
	}
	// We're about to block. Stash the transaction resources and check the
	// session back in so that it's available to other threads. Note that we
	// may block on a request to ourselves, meaning another thread will use
	// the same session while we wait.
	stash, err := h.Participant().Stash()
	if err != nil {
		return errors.Trace(err)
	}
	y.stash = stash
	h.Checkin()
	y.yielded = true
	sessionYieldsCounter.Inc()
	return nil
}

func (y *sessionYielder) Unyield(ctx context.Context) error {
	if !y.yielded {
		return nil
	}
	h := session.FromContext(ctx)
	// This may block until a sub-operation on this node finishes. Another
	// node could have responded already, theoretically unblocking us, but
	// we must wait for the child operation here to get the session back.
	if err := h.Checkout(ctx); err != nil {
		return errors.Trace(err)
	}
	y.yielded = false
	outcome, err := h.Participant().Unstash(y.stash)
	y.stash = nil
	switch outcome {
	case session.Restored:
		return nil
	case session.AlreadyAborted:
		// The transaction was aborted by an unrelated concurrent error
		// while we didn't hold the session. Swallowing this here keeps the
		// error that actually aborted the transaction (say, a duplicate
		// key) from being masked by a no-such-transaction failure.
		return nil
	default:
		return errors.Annotate(err, "restore transaction resources")
	}
}

type noopYielder struct{}

func (noopYielder) Yield(ctx context.Context) error   { return nil }
func (noopYielder) Unyield(ctx context.Context) error { return nil }
