package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func TestCheckoutCreatesOnFirstUse(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Len())

	h, err := r.Checkout(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, ID(3), h.SessionID())
	assert.True(t, h.Held())
	assert.Equal(t, ID(3), h.Participant().SessionID())

	h.Checkin()
	assert.False(t, h.Held())
	// Checkin again is a no-op.
	h.Checkin()
}

func TestCheckoutSameParticipant(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	h1, err := r.Checkout(ctx, 1)
	require.NoError(t, err)
	h1.Participant().BeginTxn(10)
	h1.Checkin()

	h2, err := r.Checkout(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), h2.Participant().ReadTS())
	h2.Checkin()
}

func TestMutualExclusion(t *testing.T) {
	r := NewRegistry()
	holders := atomic.NewInt32(0)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				h, err := r.Checkout(context.Background(), 1)
				if err != nil {
					t.Error(err)
					return
				}
				if holders.Inc() != 1 {
					t.Error("two contexts hold the same session")
				}
				holders.Dec()
				h.Checkin()
			}
		}()
	}
	wg.Wait()
}

func TestCheckoutCancelledWhileBlocked(t *testing.T) {
	r := NewRegistry()
	h, err := r.Checkout(context.Background(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err = r.Checkout(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, context.Canceled, errors.Cause(err))

	h.Checkin()
}

func TestHandleReacquire(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	h, err := r.Checkout(ctx, 1)
	require.NoError(t, err)

	h.Checkin()
	require.NoError(t, h.Checkout(ctx))
	assert.True(t, h.Held())

	// Checking out a held handle is an error.
	assert.Error(t, h.Checkout(ctx))
	h.Checkin()
}

func TestSessionContext(t *testing.T) {
	r := NewRegistry()
	h, err := r.Checkout(context.Background(), 1)
	require.NoError(t, err)

	ctx := WithSession(context.Background(), h)
	assert.Equal(t, h, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
	h.Checkin()
}
