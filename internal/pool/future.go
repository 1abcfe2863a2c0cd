// ============================================================================
// Forkjoin Future - Task Handle and Completion
// ============================================================================
//
// Package: internal/pool
// File: future.go
// Function: Task handle lifecycle, helping, and completion waiting
//
// A Future is created by Submit in state NotStarted and linked into a
// queue. It leaves the queue exactly once: either a worker dispatches it,
// or a Get helps it. Completion is announced on the future's own
// condition variable, which shares the pool mutex.
//
// Helping is what makes recursive fork/join terminate on small pools:
// a caller blocked on a task that no worker has picked up yet unlinks
// the task and runs the body itself, on its own goroutine. Any caller
// may help - worker or external.
//
// ============================================================================

package pool

import (
	"sync"
	"time"

	"github.com/ChuLiYu/forkjoin/internal/list"
	"github.com/ChuLiYu/forkjoin/pkg/types"
)

// Future represents a submitted task and its eventual result.
type Future struct {
	pool *Pool
	task Task
	data any

	// Guarded by pool.mu.
	status types.TaskStatus
	result any
	done   *sync.Cond // completion signal; waiters re-check status
	freed  bool

	elem      list.Elem[*Future] // queue membership while NotStarted
	submitted time.Time
}

// Status returns the task's current lifecycle state.
func (f *Future) Status() types.TaskStatus {
	f.pool.mu.Lock()
	defer f.pool.mu.Unlock()
	return f.status
}

// Get blocks until the task has completed and returns the body's result.
//
// If the task has not been dispatched yet, the caller helps: the task is
// unlinked from its queue and the body runs inline on the calling
// goroutine. Otherwise Get waits on the future's completion condition.
// Either way the result it returns is the one produced by exactly one
// body execution.
//
// Get may be called from any goroutine, concurrently by several waiters.
func (f *Future) Get() any {
	p := f.pool
	p.mu.Lock()
	if f.freed {
		p.mu.Unlock()
		panic("pool: Get on a freed future")
	}

	if f.status == types.StatusNotStarted {
		// Help: pull the task out of whichever queue holds it and run
		// it here. The body runs with the mutex released.
		f.elem.Unlink()
		f.status = types.StatusInProgress
		if p.obs != nil {
			p.obs.TaskHelped()
		}
		p.mu.Unlock()

		result := f.task(p, f.data)

		p.mu.Lock()
		f.result = result
		f.status = types.StatusCompleted
		p.completed++
		// Another goroutine may already be waiting on this same future.
		f.done.Broadcast()
		if p.obs != nil {
			p.obs.TaskCompleted(time.Since(f.submitted))
		}
	} else {
		for f.status != types.StatusCompleted {
			f.done.Wait()
		}
	}

	result := f.result
	p.mu.Unlock()
	return result
}

// Free releases the future. It must be called exactly once, after Get
// has returned for this handle. A second Free, or a Free while the task
// has not yet completed, panics; Free after completion is not checked
// against a prior Get.
func (f *Future) Free() {
	p := f.pool
	p.mu.Lock()
	defer p.mu.Unlock()
	if f.freed {
		panic("pool: double Free of a future")
	}
	if f.status != types.StatusCompleted {
		panic("pool: Free before Get returned")
	}
	f.freed = true
	f.done = nil
	f.task = nil
	f.data = nil
}
