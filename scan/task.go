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

package scan

import (
	"sync"
	"sync/atomic"
)

// EmptySignal is the callback a work-assisting loop calls once it
// observes that every block in the task has been claimed. It does not
// mean every claimed block has finished executing — only that no more
// claims remain to be handed out — so a dispatcher can stop routing
// freshly-idle workers to this task while the last few claimants finish
// their in-flight blocks.
type EmptySignal interface {
	TaskEmpty()
}

// LoopArguments is the per-worker context a work-assisting loop receives
// on entry: which claim value it starts from, the total block count, the
// shared claim counter, and the empty-signal callback.
type LoopArguments struct {
	FirstIndex  uint32
	WorkSize    uint32
	WorkIndex   *atomic.Uint32
	EmptySignal EmptySignal
}

// Task is the opaque, type-erased unit of data-parallel work a dispatcher
// hands to its workers. Unlike the original's void-pointer payload plus
// function pointers, Go expresses the same "parametric task type with a
// compile-time data type" (spec's own recommendation for statically typed
// languages) via a generic constructor that closes over the payload once,
// at construction time, and stores only the resulting type-erased
// closures.
type Task struct {
	workIndex  atomic.Uint32
	blockCount uint32

	// AssistOnArrival hints to a Dispatcher whether idle workers
	// should proactively join this task as soon as it is created, or
	// only when explicitly run. The core loop behaves identically
	// either way; it is metadata for the dispatcher.
	AssistOnArrival bool

	active        atomic.Int32
	emptySignaled atomic.Bool
	finishOnce    sync.Once
	done          chan struct{}

	enter  func(args LoopArguments)
	finish func()
}

// NewDataParallelTask constructs a Task over data, with the given total
// block count and assist-on-arrival hint. run is invoked by every worker
// that Enter lets in, including one whose first claim turns out to lie
// past the last block; finish is invoked exactly once, by the
// worker whose exit from the loop drains the last claim, and is
// responsible for releasing anything data owns.
//
// Panics if blockCount >= MaxBlockCount, mirroring the original's debug
// assertion on work_size.
func NewDataParallelTask[D any](
	run func(data *D, args LoopArguments),
	finish func(data *D),
	data D,
	blockCount uint32,
	assistOnArrival bool,
) *Task {
	if blockCount >= MaxBlockCount {
		panic("scan: block count exceeds MaxBlockCount")
	}

	payload := data
	t := &Task{
		blockCount:      blockCount,
		AssistOnArrival: assistOnArrival,
		done:            make(chan struct{}),
	}
	// Block 0 is always handed to whichever worker calls Enter(true),
	// with no atomic claim at all (the zero-overhead solo-thread path).
	// Seeding the shared counter at 1 reserves that slot: every other
	// worker's fetch-add in Enter starts from 1, so a claimed index of
	// 0 can never occur twice.
	t.workIndex.Store(1)
	// The initial worker counts as active from the start, so finish
	// cannot run before it has entered and executed block 0, even when
	// every other block is claimed and finished first.
	t.active.Store(1)
	t.enter = func(args LoopArguments) { run(&payload, args) }
	t.finish = func() {
		finish(&payload)
		close(t.done)
	}
	return t
}

// BlockCount returns the task's total block count (W in spec terms).
func (t *Task) BlockCount() uint32 { return t.blockCount }

// Done returns a channel that is closed once finish has run.
func (t *Task) Done() <-chan struct{} { return t.done }

// Enter runs one worker's pass through the task: it builds this worker's
// LoopArguments and invokes the task's run callback. initial must be
// true for exactly one caller per task generation — the very first
// worker to enter pays no atomic read-modify-write to learn its starting
// claim, which is what keeps the solo-worker path overhead-free. Every
// other caller, including workers arriving after the task has been
// running for a while, must pass false; Enter claims their starting
// index with a single fetch-add.
//
// Enter blocks the calling goroutine until this worker's claimed blocks
// (if any) have all been executed; it does not wait for the whole task
// to finish unless this worker happens to be the one that drains it.
func (t *Task) Enter(initial bool) {
	var first uint32
	if initial {
		// Already counted in active by NewDataParallelTask. Block 0 is
		// still this worker's to run even if every other block has
		// been claimed, so it never takes the early return below.
		first = 0
	} else {
		// Every block has already been claimed; there is nothing left
		// for a newly arriving worker to do, so it returns without
		// touching active. A worker that passes this check just as the
		// last claimant leaves can still enter after finish has run; it
		// then finds every index claimed and returns without running a
		// kernel.
		if t.emptySignaled.Load() {
			return
		}
		t.active.Add(1)
		first = t.workIndex.Add(1) - 1
	}
	t.enter(LoopArguments{
		FirstIndex:  first,
		WorkSize:    t.blockCount,
		WorkIndex:   &t.workIndex,
		EmptySignal: taskEmptySignal{t},
	})
	if t.active.Add(-1) == 0 && t.emptySignaled.Load() {
		t.finishOnce.Do(t.finish)
	}
}

type taskEmptySignal struct{ t *Task }

func (s taskEmptySignal) TaskEmpty() { s.t.emptySignaled.Store(true) }
