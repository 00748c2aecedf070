package writeops

import (
	"github.com/ozturkbey/mongo/db/repl"
	"github.com/ozturkbey/mongo/db/session"
)

// Document is a single document to insert. The payload is opaque to this
// layer; the write planner decides whether any of its fields need special
// handling.
type Document struct {
	ID   []byte
	Data []byte
}

// InsertRequest is an insert command targeting one collection.
type InsertRequest struct {
	Collection string
	Session    session.ID
	Documents  []Document
}

// WriteReplyBase holds the fields common to all write replies. OpTime and
// ElectionID are optional; upstream routers depend on them being present on
// replies from replica set members, so they are filled in after the write
// commits if the reply does not carry them already.
type WriteReplyBase struct {
	N          int
	OpTime     *repl.OpTime
	ElectionID *uint64
}

// InsertReply is the reply to an InsertRequest.
type InsertReply struct {
	WriteReplyBase
}
