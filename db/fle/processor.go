package fle

import (
	"context"

	"github.com/pingcap/errors"

	"github.com/ozturkbey/mongo/db/repl"
	"github.com/ozturkbey/mongo/db/session"
	"github.com/ozturkbey/mongo/db/storage"
	"github.com/ozturkbey/mongo/db/transaction"
	"github.com/ozturkbey/mongo/db/writeops"
)

// ErrUnsupportedMode is the fatal error for an encrypted transactional
// write reaching a node that is not a replica set member. The dispatch
// layer should never let that happen; this is a defensive invariant.
var ErrUnsupportedMode = errors.New("encrypted index operations are only supported on replica sets")

// BatchResult tells the caller whether a write was handled here.
type BatchResult int

const (
	// NotProcessed means no field needed special handling; the caller must
	// fall through to the ordinary write path.
	NotProcessed BatchResult = iota
	// Processed means the reply is fully populated.
	Processed
)

// Processor is the entry point for writes that may touch encrypted fields.
// It is built once at startup and shared by all operations; every
// collaborator is passed in explicitly.
type Processor struct {
	coord   repl.Coordinator
	pool    *transaction.Pool
	engine  storage.Engine
	planner WritePlanner
	policy  transaction.RetryPolicy
}

func NewProcessor(coord repl.Coordinator, pool *transaction.Pool, engine storage.Engine,
	planner WritePlanner, policy transaction.RetryPolicy) *Processor {
	return &Processor{
		coord:   coord,
		pool:    pool,
		engine:  engine,
		planner: planner,
		policy:  policy,
	}
}

// ProcessInsert decides whether req needs transactional handling and, if
// so, runs the transformed writes as a retryable transaction and fills in
// reply. On NotProcessed the reply is untouched and the caller is expected
// to route the original request through the ordinary write path.
func (p *Processor) ProcessInsert(ctx context.Context, req *writeops.InsertRequest,
	reply *writeops.InsertReply) (BatchResult, error) {

	if p.coord.Mode() != repl.ModeReplicaSet {
		return NotProcessed, errors.Trace(ErrUnsupportedMode)
	}

	plan, err := p.planner.PlanWrite(req)
	if err != nil {
		return NotProcessed, errors.Annotate(err, "plan encrypted write")
	}
	if !plan.NeedsHandling {
		return NotProcessed, nil
	}

	var yielder transaction.ResourceYielder
	if session.FromContext(ctx) != nil {
		yielder = transaction.NewSessionYielder()
	} else {
		yielder = transaction.NewNoopYielder()
	}
	exec := transaction.NewExecutor(p.pool, yielder, p.policy)

	var inner writeops.InsertReply
	err = exec.Run(ctx, func(ctx context.Context, y transaction.ResourceYielder) error {
		// The batch may fan out into sub-operations that route back to this
		// node, so release the session for the duration of the write.
		if err := y.Yield(ctx); err != nil {
			return err
		}
		werr := p.engine.Write(plan.Mods)
		if err := y.Unyield(ctx); err != nil {
			return err
		}
		if werr != nil {
			return werr
		}
		inner = writeops.InsertReply{}
		inner.N = len(req.Documents)
		return nil
	})
	if err != nil {
		return NotProcessed, err
	}

	*reply = inner
	AugmentReplyMetadata(p.coord, &reply.WriteReplyBase)
	return Processed, nil
}
