package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStashUnstashRoundTrip(t *testing.T) {
	p := &Participant{id: 7}
	p.BeginTxn(42)
	p.LockKey([]byte{1})
	p.LockKey([]byte{2, 3})
	p.NoteStatement()
	p.NoteStatement()

	res, err := p.Stash()
	require.NoError(t, err)
	require.NotNil(t, res)

	// Active state is cleared while stashed.
	assert.Empty(t, p.LockedKeys())
	assert.Equal(t, uint64(0), p.ReadTS())
	assert.Equal(t, 0, p.Statements())

	outcome, err := p.Unstash(res)
	require.NoError(t, err)
	assert.Equal(t, Restored, outcome)

	assert.Equal(t, [][]byte{{1}, {2, 3}}, p.LockedKeys())
	assert.Equal(t, uint64(42), p.ReadTS())
	assert.Equal(t, 2, p.Statements())
}

func TestDoubleStash(t *testing.T) {
	p := &Participant{id: 1}
	p.BeginTxn(1)

	_, err := p.Stash()
	require.NoError(t, err)

	_, err = p.Stash()
	assert.Error(t, err)
}

func TestUnstashWithoutStash(t *testing.T) {
	p := &Participant{id: 1}
	p.BeginTxn(1)

	outcome, err := p.Unstash(&TxnResources{})
	assert.Equal(t, Failed, outcome)
	assert.Error(t, err)
}

func TestUnstashNilSnapshot(t *testing.T) {
	p := &Participant{id: 1}
	p.BeginTxn(1)
	_, err := p.Stash()
	require.NoError(t, err)

	outcome, err := p.Unstash(nil)
	assert.Equal(t, Failed, outcome)
	assert.Error(t, err)
}

func TestUnstashAfterAbort(t *testing.T) {
	p := &Participant{id: 1}
	p.BeginTxn(9)
	p.LockKey([]byte("k"))

	res, err := p.Stash()
	require.NoError(t, err)

	// An unrelated error aborts the transaction while its resources are
	// stashed.
	p.Abort()

	outcome, err := p.Unstash(res)
	require.NoError(t, err)
	assert.Equal(t, AlreadyAborted, outcome)
	assert.Empty(t, p.LockedKeys())

	// The stash was consumed; a second unstash has nothing to pair with.
	outcome, err = p.Unstash(res)
	assert.Equal(t, Failed, outcome)
	assert.Error(t, err)
}

func TestBeginTxnResetsState(t *testing.T) {
	p := &Participant{id: 1}
	p.BeginTxn(1)
	p.LockKey([]byte("k"))
	p.Abort()

	p.BeginTxn(5)
	assert.False(t, p.Aborted())
	assert.Empty(t, p.LockedKeys())
	assert.Equal(t, uint64(5), p.ReadTS())
	assert.Equal(t, uint64(2), p.TxnNumber())
}
