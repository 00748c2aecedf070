package session

import (
	"context"
	"sync"

	"github.com/pingcap/errors"
)

// Registry is the process-wide map from session id to participant state.
// A session is exclusively owned: at most one context holds it at any
// instant, and checkout of a held session blocks until the holder checks it
// back in. This is the only serialization point in the write path; there is
// no other locking around participant state.
type Registry struct {
	mu       sync.Mutex
	sessions map[ID]*entry
}

type entry struct {
	// sem has capacity 1; holding the slot is holding the session.
	sem         chan struct{}
	participant *Participant
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[ID]*entry)}
}

func (r *Registry) entryFor(id ID) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		e = &entry{
			sem:         make(chan struct{}, 1),
			participant: &Participant{id: id},
		}
		r.sessions[id] = e
	}
	return e
}

// Len returns the number of sessions the registry has ever handed out and
// not expired. Expiry is driven externally; this core only creates entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Checkout acquires exclusive ownership of the session, creating it on
// first use. It blocks until the current holder (if any) checks the session
// in, or until ctx is cancelled.
func (r *Registry) Checkout(ctx context.Context, id ID) (*Handle, error) {
	e := r.entryFor(id)
	select {
	case e.sem <- struct{}{}:
		return &Handle{e: e, id: id, held: true}, nil
	case <-ctx.Done():
		return nil, errors.Trace(ctx.Err())
	}
}

// Handle is a checked-out session. It stays attached to the operation for
// the operation's whole lifetime; ownership can be checked in and
// reacquired through it while sub-operations run.
type Handle struct {
	e    *entry
	id   ID
	held bool
}

func (h *Handle) SessionID() ID {
	return h.id
}

// Participant returns the session's participant state. Only valid while the
// handle holds the session.
func (h *Handle) Participant() *Participant {
	return h.e.participant
}

func (h *Handle) Held() bool {
	return h.held
}

// Checkin releases ownership so another context can take the session.
// Checkin of a handle that does not hold the session is a no-op.
func (h *Handle) Checkin() {
	if !h.held {
		return
	}
	h.held = false
	<-h.e.sem
}

// Checkout reacquires ownership after a Checkin, blocking until whoever
// holds the session releases it or ctx is cancelled.
func (h *Handle) Checkout(ctx context.Context) error {
	if h.held {
		return errors.Errorf("session %d: already checked out", h.id)
	}
	select {
	case h.e.sem <- struct{}{}:
		h.held = true
		return nil
	case <-ctx.Done():
		return errors.Trace(ctx.Err())
	}
}

type ctxKey struct{}

// WithSession attaches a checked-out session handle to the context.
func WithSession(ctx context.Context, h *Handle) context.Context {
	return context.WithValue(ctx, ctxKey{}, h)
}

// FromContext returns the session handle attached to ctx, or nil if the
// operation runs without a session.
func FromContext(ctx context.Context) *Handle {
	h, _ := ctx.Value(ctxKey{}).(*Handle)
	return h
}
