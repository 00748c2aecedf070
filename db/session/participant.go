package session

import (
	"github.com/pingcap/errors"
)

// ID identifies a logical client session.
type ID uint64

// TxnResources is a detached snapshot of a participant's transaction state.
// It is produced by Stash and consumed by exactly one matching Unstash.
type TxnResources struct {
	LockedKeys [][]byte
	ReadTS     uint64
	Statements int
}

// UnstashOutcome tags the result of restoring stashed resources. Callers
// must match on it explicitly; only Failed carries an error.
type UnstashOutcome int

const (
	// Restored means the resources are active on the participant again.
	Restored UnstashOutcome = iota
	// AlreadyAborted means the transaction was aborted by an unrelated
	// concurrent error while the resources were stashed. The stash is
	// discarded; there is nothing left to restore.
	AlreadyAborted
	// Failed means the resources could not be restored for any other reason.
	Failed
)

// Participant holds the transactional resources attached to a session:
// acquired locks, the read position and accumulated statement state. It is
// only ever touched by the context currently holding the session, so it
// needs no locking of its own.
type Participant struct {
	id         ID
	txnNumber  uint64
	lockedKeys [][]byte
	readTS     uint64
	statements int
	aborted    bool
	stashed    bool
}

func (p *Participant) SessionID() ID {
	return p.id
}

func (p *Participant) TxnNumber() uint64 {
	return p.txnNumber
}

// BeginTxn starts a new transaction on the participant, discarding any state
// left over from the previous one.
func (p *Participant) BeginTxn(readTS uint64) {
	p.txnNumber++
	p.lockedKeys = nil
	p.readTS = readTS
	p.statements = 0
	p.aborted = false
}

func (p *Participant) LockKey(key []byte) {
	p.lockedKeys = append(p.lockedKeys, key)
}

func (p *Participant) LockedKeys() [][]byte {
	return p.lockedKeys
}

func (p *Participant) ReadTS() uint64 {
	return p.readTS
}

func (p *Participant) NoteStatement() {
	p.statements++
}

func (p *Participant) Statements() int {
	return p.statements
}

// Abort marks the current transaction aborted. A later Unstash observes the
// flag and reports AlreadyAborted instead of restoring.
func (p *Participant) Abort() {
	p.aborted = true
}

func (p *Participant) Aborted() bool {
	return p.aborted
}

// Stash snapshots the active transaction resources and clears them from the
// participant, so the session can be handed to another context without the
// two sharing live state. At most one stash may exist per session.
func (p *Participant) Stash() (*TxnResources, error) {
	if p.stashed {
		return nil, errors.Errorf("session %d: transaction resources already stashed", p.id)
	}
	keys := make([][]byte, len(p.lockedKeys))
	copy(keys, p.lockedKeys)
	res := &TxnResources{
		LockedKeys: keys,
		ReadTS:     p.readTS,
		Statements: p.statements,
	}
	p.lockedKeys = nil
	p.readTS = 0
	p.statements = 0
	p.stashed = true
	return res, nil
}

// Unstash restores a snapshot taken by Stash. It must be paired with exactly
// one prior Stash on the same participant.
func (p *Participant) Unstash(res *TxnResources) (UnstashOutcome, error) {
	if !p.stashed {
		return Failed, errors.Errorf("session %d: unstash without a matching stash", p.id)
	}
	if res == nil {
		return Failed, errors.Errorf("session %d: nil resource snapshot", p.id)
	}
	p.stashed = false
	if p.aborted {
		// The transaction died while the resources were checked in. The
		// snapshot is useless now; dropping it here is the expected path.
		return AlreadyAborted, nil
	}
	p.lockedKeys = res.LockedKeys
	p.readTS = res.ReadTS
	p.statements = res.Statements
	return Restored, nil
}
