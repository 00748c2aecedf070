package transaction

import (
	"context"

	"github.com/ngaut/log"
	"github.com/pingcap/errors"
)

// UnitOfWork is the body of a retryable transaction. It performs one or
// more writes and may issue sub-operations; any sub-call that can block
// must be bracketed with yielder.Yield / yielder.Unyield. The body may run
// several times, so it must be safe to re-execute from the top.
type UnitOfWork func(ctx context.Context, yielder ResourceYielder) error

// Executor runs a unit of work as a retryable transaction on the pool.
type Executor struct {
	pool    *Pool
	yielder ResourceYielder
	policy  RetryPolicy
}

// NewExecutor builds an executor for one top-level operation. The yielder
// is bound for the life of the Run call and shared by all attempts, so its
// yield/unyield accounting stays consistent.
func NewExecutor(pool *Pool, yielder ResourceYielder, policy RetryPolicy) *Executor {
	return &Executor{pool: pool, yielder: yielder, policy: policy}
}

// Run executes fn until it succeeds, fails with a fatal error, or ctx is
// cancelled. There is no attempt bound: transient errors retry forever and
// the enclosing context's deadline or interrupt is the only other way out.
// Attempts run sequentially, never concurrently.
func (e *Executor) Run(ctx context.Context, fn UnitOfWork) error {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return errors.Trace(err)
		}
		txnAttemptsCounter.Inc()

		done := make(chan error, 1)
		if err := e.pool.Submit(func() {
			done <- fn(ctx, e.yielder)
		}); err != nil {
			return errors.Trace(err)
		}

		var err error
		select {
		case err = <-done:
		case <-ctx.Done():
			// The attempt must settle before we unwind, otherwise it could
			// still hold the session when the caller moves on.
			<-done
			return errors.Trace(ctx.Err())
		}

		if err == nil {
			return nil
		}
		if !e.policy.Retryable(err) {
			return err
		}
		txnRetriesCounter.Inc()
		log.Warnf("transient transaction error on attempt %d, retrying: %v", attempt, err)
	}
}
