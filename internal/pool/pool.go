// ============================================================================
// Forkjoin Pool - Work-Stealing Fork/Join Scheduler
// ============================================================================
//
// Package: internal/pool
// File: pool.go
// Function: Pool construction, task submission, worker loop, stealing, shutdown
//
// Architecture:
//   ┌──────────────────────────────────────────────┐
//   │ Pool                                         │
//   │   global queue (FIFO) ← external Submit      │
//   │   ┌────────┐ deque (LIFO) ← internal Submit  │
//   │   │Worker 0│──┐                              │
//   │   │Worker 1│──┼── steal from deque backs     │
//   │   │Worker N│──┘                              │
//   │   └────────┘                                 │
//   └──────────────────────────────────────────────┘
//
// Dispatch order per worker: own deque front, then global queue front,
// then the back of the first non-empty foreign deque in registry order.
//
// Concurrency Control:
//   - One pool-wide mutex guards every queue, every task status, and the
//     shutdown flag. Task bodies always run with the mutex released.
//   - idle is the worker wake condition; each future carries its own
//     completion condition. Both share the pool mutex, so predicate checks
//     and signals can never race into a lost wakeup.
//   - Workers may sleep only while the global queue and every deque are
//     empty and shutdown has not been requested. Checking every deque is
//     what keeps a loaded deque from starving next to sleeping workers.
//
// Worker identity:
//   Workers register their goroutine id in a per-pool map before the
//   start barrier releases. Submit consults the map to route internal
//   submissions to the submitting worker's deque front; everything else
//   goes to the back of the global queue. Identity is per pool: a worker
//   of one pool submitting to another pool is external there.
//
// Lifecycle:
//   New(n) - spawn n workers, rendezvous at the start barrier, return
//   Submit(task, data) - queue a task, wake one sleeper, return a Future
//   Future.Get() - help or wait, return the body's result
//   Future.Free() - release the handle, exactly once after Get
//   ShutdownAndDestroy() - raise shutdown, wake everyone, join workers
//
// ============================================================================

// Package pool implements a work-stealing fork/join scheduler with a
// futures-based completion model.
//
// Tasks may recursively Submit sub-tasks and block on their results.
// A single-worker pool never deadlocks on recursive fork/get chains:
// Get executes not-yet-dispatched tasks inline (helping).
//
// Tasks still queued when ShutdownAndDestroy is called may or may not
// run. Callers that need every result must Get every future before
// shutting the pool down.
package pool

import (
	"errors"
	"sync"
	"time"

	"github.com/ChuLiYu/forkjoin/internal/list"
	"github.com/ChuLiYu/forkjoin/pkg/types"
)

// ErrInvalidWorkerCount is returned by New for worker counts below one.
var ErrInvalidWorkerCount = errors.New("pool: worker count must be at least 1")

// Task is a fork/join computation. It receives the pool it executes in,
// so the body can Submit sub-tasks, and the opaque data passed to Submit.
type Task func(p *Pool, data any) any

// Observer receives scheduler events. All callbacks fire under the pool
// mutex and must not call back into the pool. A nil Observer is valid.
type Observer interface {
	// TaskSubmitted fires on Submit; internal marks a submission from a
	// worker of this pool (deque front) rather than an external caller
	// (global queue back).
	TaskSubmitted(internal bool)
	// TaskDispatched fires when a worker picks a task; stolen marks a
	// pop from another worker's deque back.
	TaskDispatched(stolen bool)
	// TaskHelped fires when Get runs a not-yet-dispatched task inline.
	TaskHelped()
	// TaskCompleted fires on completion with the submit-to-complete latency.
	TaskCompleted(latency time.Duration)
}

// worker is one member of the pool's registry. Registry order is the
// steal search order.
type worker struct {
	id    int
	gid   uint64
	deque list.List[*Future]
}

// Pool owns a fixed set of worker goroutines, their deques, and the
// global submission queue.
type Pool struct {
	mu   sync.Mutex
	idle *sync.Cond // workers wait here while the idle predicate holds

	workers []*worker
	global  list.List[*Future] // externally submitted tasks, FIFO
	byGID   map[uint64]*worker // worker identity for this pool only

	shutdown  bool
	completed uint64

	obs    Observer
	joined sync.WaitGroup
}

// New creates a pool with n workers. It does not return until every
// worker has registered its identity and reached the start barrier; a
// Submit immediately after New cannot be missed, because workers check
// the queues under the pool mutex before they sleep.
func New(n int) (*Pool, error) {
	return NewWithObserver(n, nil)
}

// NewWithObserver is New with a scheduler event observer attached.
func NewWithObserver(n int, obs Observer) (*Pool, error) {
	if n < 1 {
		return nil, ErrInvalidWorkerCount
	}

	p := &Pool{
		byGID: make(map[uint64]*worker, n),
		obs:   obs,
	}
	p.idle = sync.NewCond(&p.mu)

	// Start barrier with arity n+1: each worker registers its identity
	// and reports ready; the constructor releases them all at once.
	var ready sync.WaitGroup
	ready.Add(n)
	start := make(chan struct{})

	for i := 0; i < n; i++ {
		w := &worker{id: i}
		p.workers = append(p.workers, w)
		p.joined.Add(1)
		go p.run(w, &ready, start)
	}

	ready.Wait()
	close(start)
	return p, nil
}

// Submit queues task for execution and returns its future. Submissions
// from a worker of this pool go to the front of that worker's deque;
// external submissions go to the back of the global queue. One sleeping
// worker is woken, since exactly one task became available.
//
// data is caller-owned and must stay valid until Get returns.
// Submitting to a pool that is shutting down panics.
func (p *Pool) Submit(task Task, data any) *Future {
	if task == nil {
		panic("pool: Submit with nil task")
	}

	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		panic("pool: Submit on a destroyed pool")
	}

	f := &Future{
		pool:      p,
		task:      task,
		data:      data,
		status:    types.StatusNotStarted,
		submitted: time.Now(),
	}
	f.done = sync.NewCond(&p.mu)
	f.elem.Value = f

	w := p.byGID[goid()]
	if w != nil {
		w.deque.PushFront(&f.elem)
	} else {
		p.global.PushBack(&f.elem)
	}
	if p.obs != nil {
		p.obs.TaskSubmitted(w != nil)
	}

	p.idle.Signal()
	p.mu.Unlock()
	return f
}

// ShutdownAndDestroy raises the shutdown flag, wakes every worker, and
// joins them. In-progress tasks run to completion; tasks still queued
// may never run (see the package documentation). The pool must not be
// used afterwards.
func (p *Pool) ShutdownAndDestroy() {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		panic("pool: ShutdownAndDestroy on a destroyed pool")
	}
	p.shutdown = true
	p.idle.Broadcast()
	p.mu.Unlock()

	p.joined.Wait()
}

// WorkerCount returns the fixed number of workers.
func (p *Pool) WorkerCount() int { return len(p.workers) }

// Stats returns a snapshot of pool state.
func (p *Pool) Stats() types.PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	queued := p.global.Len()
	for _, w := range p.workers {
		queued += w.deque.Len()
	}
	return types.PoolStats{
		Workers:   len(p.workers),
		Queued:    queued,
		Completed: p.completed,
	}
}

// run is the worker loop.
func (p *Pool) run(w *worker, ready *sync.WaitGroup, start <-chan struct{}) {
	defer p.joined.Done()

	// Register identity before reporting ready so that any Submit that
	// races with startup already sees the full registry.
	p.mu.Lock()
	w.gid = goid()
	p.byGID[w.gid] = w
	p.mu.Unlock()

	ready.Done()
	<-start

	for {
		p.mu.Lock()
		for p.idleLocked() {
			p.idle.Wait()
		}
		if p.shutdown {
			p.mu.Unlock()
			return
		}

		f, stolen := p.takeLocked(w)
		if f == nil {
			// Never assume a task exists after a wake; re-evaluate the
			// predicate instead.
			p.mu.Unlock()
			continue
		}

		f.status = types.StatusInProgress
		if p.obs != nil {
			p.obs.TaskDispatched(stolen)
		}
		p.mu.Unlock()

		result := f.task(p, f.data)

		p.mu.Lock()
		f.result = result
		f.status = types.StatusCompleted
		p.completed++
		f.done.Broadcast()
		if p.obs != nil {
			p.obs.TaskCompleted(time.Since(f.submitted))
		}
		p.mu.Unlock()
	}
}

// idleLocked is the sleep predicate: true only when the global queue and
// every worker's deque are empty and shutdown has not been requested.
// Caller holds p.mu.
func (p *Pool) idleLocked() bool {
	if p.shutdown || !p.global.Empty() {
		return false
	}
	for _, w := range p.workers {
		if !w.deque.Empty() {
			return false
		}
	}
	return true
}

// takeLocked selects the next task for w: own deque front, then global
// queue front, then the back of the first non-empty deque in registry
// order. Caller holds p.mu.
func (p *Pool) takeLocked(w *worker) (*Future, bool) {
	if e := w.deque.PopFront(); e != nil {
		return e.Value, false
	}
	if e := p.global.PopFront(); e != nil {
		return e.Value, false
	}
	for _, victim := range p.workers {
		if e := victim.deque.PopBack(); e != nil {
			return e.Value, true
		}
	}
	return nil, false
}
