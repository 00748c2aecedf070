package node

import (
	"net/http"

	"github.com/ngaut/log"
	"github.com/pingcap/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ozturkbey/mongo/db/config"
	"github.com/ozturkbey/mongo/db/fle"
	"github.com/ozturkbey/mongo/db/repl"
	"github.com/ozturkbey/mongo/db/session"
	"github.com/ozturkbey/mongo/db/storage"
	"github.com/ozturkbey/mongo/db/transaction"
)

// Node owns the process-wide pieces of the encrypted write path and their
// startup/shutdown ordering. The command dispatch layer gets at the write
// path through Processor and Sessions.
type Node struct {
	conf      *config.Config
	coord     *repl.LocalCoordinator
	engine    storage.Engine
	registry  *session.Registry
	pool      *transaction.Pool
	processor *fle.Processor
}

func New(conf *config.Config) (*Node, error) {
	mode := repl.ModeNone
	term := uint64(0)
	if conf.ReplicaSet {
		mode = repl.ModeReplicaSet
		term = 1
	}
	coord := repl.NewLocalCoordinator(mode, term, conf.ElectionID)

	engine, err := storage.NewBadgerEngine(conf, func(count int) {
		coord.Advance(count)
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	policy, err := transaction.PolicyFromNames(conf.RetryableErrors)
	if err != nil {
		engine.Close()
		return nil, errors.Trace(err)
	}

	pool := transaction.NewPool()
	return &Node{
		conf:      conf,
		coord:     coord,
		engine:    engine,
		registry:  session.NewRegistry(),
		pool:      pool,
		processor: fle.NewProcessor(coord, pool, engine, fle.NoopPlanner{}, policy),
	}, nil
}

func (n *Node) Coordinator() repl.Coordinator {
	return n.coord
}

func (n *Node) Sessions() *session.Registry {
	return n.registry
}

func (n *Node) Processor() *fle.Processor {
	return n.processor
}

// Start brings up the transaction pool and, if configured, the status
// endpoint serving metrics.
func (n *Node) Start() {
	n.pool.Start(n.coord)
	if n.conf.StatusAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(n.conf.StatusAddr, nil); err != nil {
				log.Errorf("status server: %v", err)
			}
		}()
	}
	log.Infof("node started, replication mode %s", n.coord.Mode())
}

// Stop drains the pool before closing the engine so no in-flight
// transaction body writes to a closed engine.
func (n *Node) Stop() {
	n.pool.Stop()
	if err := n.engine.Close(); err != nil {
		log.Errorf("close storage engine: %v", err)
	}
}
