package repl

import (
	"fmt"
	"sync"
)

// Mode describes how this node participates in replication.
type Mode int

const (
	// ModeNone means the node is a standalone and does not replicate at all.
	ModeNone Mode = iota
	// ModeReplicaSet means the node is a member of a replica set with a
	// consensus-elected primary.
	ModeReplicaSet
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeReplicaSet:
		return "replica-set"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// OpTime is a position in the node's replication history. Positions with a
// higher term are always later; within a term the timestamp orders them.
type OpTime struct {
	Term      uint64
	Timestamp uint64
}

func (t OpTime) Less(other OpTime) bool {
	if t.Term != other.Term {
		return t.Term < other.Term
	}
	return t.Timestamp < other.Timestamp
}

// Coordinator is the read-only view of the replication subsystem this
// package consumes. The replication internals live elsewhere; here we only
// need the node's mode, its last applied position and the current election id.
type Coordinator interface {
	Mode() Mode
	LastOpTime() OpTime
	ElectionID() uint64
}

// LocalCoordinator publishes replication facts for this node. The last
// applied position advances as the storage engine applies write batches.
type LocalCoordinator struct {
	mode       Mode
	electionID uint64

	mu   sync.Mutex
	last OpTime
}

func NewLocalCoordinator(mode Mode, term uint64, electionID uint64) *LocalCoordinator {
	return &LocalCoordinator{
		mode:       mode,
		electionID: electionID,
		last:       OpTime{Term: term},
	}
}

func (c *LocalCoordinator) Mode() Mode {
	return c.mode
}

func (c *LocalCoordinator) ElectionID() uint64 {
	return c.electionID
}

func (c *LocalCoordinator) LastOpTime() OpTime {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Advance moves the last applied position forward by count applied entries
// and returns the new position.
func (c *LocalCoordinator) Advance(count int) OpTime {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last.Timestamp += uint64(count)
	return c.last
}
