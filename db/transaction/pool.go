package transaction

import (
	"sync"

	"github.com/ngaut/log"
	"go.uber.org/atomic"

	"github.com/ozturkbey/mongo/db/repl"
)

const (
	poolNotStarted int32 = iota
	poolRunning
	poolShutDown
)

// Pool runs transaction bodies. It has no fixed worker ceiling: every
// submitted task gets its own goroutine, and Stop joins them all. The pool
// is only started on replica set members; on a standalone there is nothing
// to run and Start is a no-op.
type Pool struct {
	state *atomic.Int32

	// mu serializes Submit against Stop so no task slips in after the
	// shutdown state is published.
	mu sync.RWMutex
	wg sync.WaitGroup
}

func NewPool() *Pool {
	return &Pool{state: atomic.NewInt32(poolNotStarted)}
}

// Start brings the pool up. Starting an already-started pool is a
// programming error and panics.
func (p *Pool) Start(coord repl.Coordinator) {
	if coord.Mode() == repl.ModeNone {
		// Encrypted transactional writes are unsupported on standalones,
		// so there is no reason to start the pool.
		log.Infof("node is not a replica set member, transaction pool not started")
		return
	}
	if !p.state.CAS(poolNotStarted, poolRunning) {
		panic("transaction pool started twice")
	}
	log.Infof("transaction pool started")
}

// Submit runs task on a pool goroutine. It fails with ErrPoolNotRunning
// unless the pool is between Start and Stop.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state.Load() != poolRunning {
		return ErrPoolNotRunning
	}
	p.wg.Add(1)
	poolWorkersGauge.Inc()
	go func() {
		defer func() {
			poolWorkersGauge.Dec()
			p.wg.Done()
		}()
		task()
	}()
	return nil
}

// Stop shuts the pool down and waits for in-flight tasks to finish. No task
// is running when it returns. Stopping a pool that was never started (for
// example on a standalone) is a no-op.
func (p *Pool) Stop() {
	p.mu.Lock()
	running := p.state.CAS(poolRunning, poolShutDown)
	p.mu.Unlock()
	if !running {
		return
	}
	p.wg.Wait()
	log.Infof("transaction pool stopped")
}
