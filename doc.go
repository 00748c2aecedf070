package mongo

/*
This module implements the transactional execution engine that runs writes
touching encrypted fields as retryable distributed transactions on a
replica set member.

The hard problem it solves: a transaction running on a node may issue a
sub-request that routes back to the same node. If the transaction still held
its session's exclusive resources while waiting on that sub-request, the node
would deadlock against itself. The engine therefore releases and reacquires
session-bound transaction state around every blocking sub-operation
(db/transaction.ResourceYielder), runs transaction bodies in an automatic
retry loop on a process-wide pool (db/transaction), and decides per write
whether transactional handling is needed at all (db/fle).

Package layout:

  - db/config:      node configuration, toml file loading
  - db/repl:        read-only replication facts (mode, position, election id)
  - db/session:     session registry with exclusive checkout/checkin and
                    stash/unstash of participant state
  - db/transaction: resource yielder, retryable executor, worker pool
  - db/fle:         encrypted write processor and reply metadata augmenter
  - db/writeops:    write request/reply types
  - db/storage:     write batch model with badger and in-memory engines
  - db/node:        process lifecycle wiring; db/main.go is the binary

The field transformation layer that decides which writes carry encrypted
fields, the command dispatch in front of db/fle, and the transport between
nodes are deliberately outside this module; db/fle exposes the seams they
plug into.
*/
