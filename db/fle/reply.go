package fle

import (
	"github.com/ozturkbey/mongo/db/repl"
	"github.com/ozturkbey/mongo/db/writeops"
)

// AugmentReplyMetadata fills in the replication position and election id on
// a write reply, but only if they are not both set already. Upstream
// routers depend on these fields being present on replies from replica set
// members; on a standalone they are meaningless and left empty.
func AugmentReplyMetadata(coord repl.Coordinator, reply *writeops.WriteReplyBase) {
	if reply.OpTime != nil && reply.ElectionID != nil {
		return
	}
	if coord.Mode() == repl.ModeNone {
		return
	}
	opTime := coord.LastOpTime()
	electionID := coord.ElectionID()
	reply.OpTime = &opTime
	reply.ElectionID = &electionID
}
