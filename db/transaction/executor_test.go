package transaction

import (
	"context"
	"testing"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingYielder records yield/unyield pairs without touching any session.
type countingYielder struct {
	yields   int
	unyields int
}

func (y *countingYielder) Yield(ctx context.Context) error {
	y.yields++
	return nil
}

func (y *countingYielder) Unyield(ctx context.Context) error {
	y.unyields++
	return nil
}

func startedPool(t *testing.T) *Pool {
	p := NewPool()
	p.Start(replicaSetCoord())
	return p
}

func TestRunSucceedsFirstAttempt(t *testing.T) {
	pool := startedPool(t)
	defer pool.Stop()

	attempts := 0
	e := NewExecutor(pool, NewNoopYielder(), DefaultRetryPolicy())
	err := e.Run(context.Background(), func(ctx context.Context, y ResourceYielder) error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRunRetriesTransientErrors(t *testing.T) {
	pool := startedPool(t)
	defer pool.Stop()

	const failures = 5
	attempts := 0
	yielder := &countingYielder{}
	e := NewExecutor(pool, yielder, DefaultRetryPolicy())
	err := e.Run(context.Background(), func(ctx context.Context, y ResourceYielder) error {
		attempts++
		if err := y.Yield(ctx); err != nil {
			return err
		}
		defer func() {
			if err := y.Unyield(ctx); err != nil {
				t.Error(err)
			}
		}()
		if attempts <= failures {
			return ErrWriteConflict
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, failures+1, attempts)
	// Exactly one yield/unyield pair per attempt.
	assert.Equal(t, failures+1, yielder.yields)
	assert.Equal(t, failures+1, yielder.unyields)
}

func TestRunRetriesWrappedTransientError(t *testing.T) {
	pool := startedPool(t)
	defer pool.Stop()

	attempts := 0
	e := NewExecutor(pool, NewNoopYielder(), DefaultRetryPolicy())
	err := e.Run(context.Background(), func(ctx context.Context, y ResourceYielder) error {
		attempts++
		if attempts == 1 {
			return errors.Annotate(ErrStaleRouting, "apply batch")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRunFatalErrorPropagates(t *testing.T) {
	pool := startedPool(t)
	defer pool.Stop()

	fatal := errors.New("duplicate key")
	attempts := 0
	e := NewExecutor(pool, NewNoopYielder(), DefaultRetryPolicy())
	err := e.Run(context.Background(), func(ctx context.Context, y ResourceYielder) error {
		attempts++
		return fatal
	})
	assert.Equal(t, fatal, errors.Cause(err))
	assert.Equal(t, 1, attempts)
}

func TestRunCancelledBetweenAttempts(t *testing.T) {
	pool := startedPool(t)
	defer pool.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	e := NewExecutor(pool, NewNoopYielder(), DefaultRetryPolicy())
	err := e.Run(ctx, func(ctx context.Context, y ResourceYielder) error {
		attempts++
		if attempts == 3 {
			cancel()
		}
		return ErrWriteConflict
	})
	require.Error(t, err)
	assert.Equal(t, context.Canceled, errors.Cause(err))
	assert.Equal(t, 3, attempts)
}

func TestRunCancelledMidAttempt(t *testing.T) {
	pool := startedPool(t)
	defer pool.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	e := NewExecutor(pool, NewNoopYielder(), DefaultRetryPolicy())
	go func() {
		cancel()
		close(release)
	}()
	err := e.Run(ctx, func(ctx context.Context, y ResourceYielder) error {
		<-release
		return ErrWriteConflict
	})
	require.Error(t, err)
	assert.Equal(t, context.Canceled, errors.Cause(err))
}

func TestRunOnStoppedPool(t *testing.T) {
	pool := NewPool()
	e := NewExecutor(pool, NewNoopYielder(), DefaultRetryPolicy())
	err := e.Run(context.Background(), func(ctx context.Context, y ResourceYielder) error {
		return nil
	})
	assert.Equal(t, ErrPoolNotRunning, errors.Cause(err))
}
