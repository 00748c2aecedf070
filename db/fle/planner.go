package fle

import (
	"github.com/ozturkbey/mongo/db/storage"
	"github.com/ozturkbey/mongo/db/writeops"
)

// WritePlan is what the transformation layer turns an insert into. When
// NeedsHandling is false the request carried no encrypted fields and the
// caller must route it through the ordinary write path instead.
type WritePlan struct {
	NeedsHandling bool
	Mods          []storage.Modify
}

// WritePlanner is the seam to the field transformation layer. It inspects a
// request, decides whether any field needs special handling, and rewrites
// the write accordingly. The transformation itself is not this package's
// business.
type WritePlanner interface {
	PlanWrite(req *writeops.InsertRequest) (*WritePlan, error)
}

// NoopPlanner is the planner used when no encryption schema is configured:
// nothing needs special handling and every write falls through to the
// ordinary path.
type NoopPlanner struct{}

func (NoopPlanner) PlanWrite(req *writeops.InsertRequest) (*WritePlan, error) {
	return &WritePlan{NeedsHandling: false}, nil
}
