// Copyright 2025 go-parascan Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pool provides the worker dispatch contract scan tasks run
// under: a fixed-size set of persistent goroutines that can be pointed
// at a scan.Task either all at once (Run) or one at a time as they
// become free (Assist), so a thread that was busy with other work can
// join a scan already in progress.
//
// This is adapted from go-highway's contrib/workerpool package, whose
// channel-of-closures design is unchanged; what changes is the unit of
// work. The original pool's ParallelFor* methods hand each worker a
// fixed index range computed up front. A scan.Task instead hands every
// worker a single shared atomic claim counter, so the same Pool can
// support a worker population that grows mid-computation, which a
// precomputed range split cannot.
package pool

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ajroetker/go-parascan/scan"
)

// Pool is a persistent set of worker goroutines, spawned once and
// reused across many scan.Tasks.
type Pool struct {
	numWorkers int
	workC      chan func()
	closeOnce  sync.Once
	closed     atomic.Bool
}

// New creates a Pool with the given number of workers. If numWorkers
// <= 0, uses runtime.GOMAXPROCS(0). Workers are spawned immediately and
// persist until Close is called.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan func(), numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for fn := range p.workC {
		fn()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int { return p.numWorkers }

// Close shuts down the pool once all queued work has run. Safe to call
// more than once.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// Run dispatches threadCount workers into task and blocks until the
// task's finish callback has run. If threadCount exceeds the pool's
// worker count, the excess threads run as plain goroutines outside the
// pool rather than deadlocking waiting for a free slot — this mirrors
// the original's model where the caller, not the pool, decides how many
// OS threads enter a task.
//
// If the pool has been closed, Run falls back to running the task
// inline with a single worker.
func (p *Pool) Run(threadCount int, task *scan.Task) {
	if threadCount <= 0 {
		threadCount = 1
	}

	if p.closed.Load() {
		task.Enter(true)
		<-task.Done()
		return
	}

	pooled := min(threadCount, p.numWorkers)
	extra := threadCount - pooled

	var wg sync.WaitGroup
	wg.Add(threadCount)

	var firstClaimed atomic.Bool
	enter := func() {
		defer wg.Done()
		isFirst := firstClaimed.CompareAndSwap(false, true)
		task.Enter(isFirst)
	}

	for range pooled {
		p.workC <- enter
	}
	for range extra {
		go enter()
	}

	wg.Wait()
	<-task.Done()
}

// Assist dispatches a single additional worker into an already-running
// task, from the pool if a slot is free or as a detached goroutine
// otherwise. It returns immediately; the caller does not wait for the
// task, or even for this worker's pass, to finish. This is the entry
// point a worker that just finished unrelated work uses to help a task
// that is still in flight — the scenario spec §1 calls "threads may
// grow mid-computation".
func (p *Pool) Assist(task *scan.Task) {
	if p.closed.Load() {
		go task.Enter(false)
		return
	}

	select {
	case p.workC <- func() { task.Enter(false) }:
	default:
		go task.Enter(false)
	}
}
