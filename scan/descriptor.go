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

import "sync/atomic"

// BlockState is the lifecycle stage of one BlockDescriptor. States are
// monotone: a descriptor only ever moves forward along
// Initialized -> AggregateAvailable -> PrefixAvailable, or directly from
// Initialized to PrefixAvailable for a row's leftmost block.
type BlockState uint32

const (
	// StateInitialized is the zero value: no aggregate or prefix has
	// been published yet.
	StateInitialized BlockState = iota
	// StateAggregateAvailable means aggregate holds the block's local
	// sum, but prefix does not yet hold a valid row-relative total.
	StateAggregateAvailable
	// StatePrefixAvailable means prefix holds the inclusive sum of
	// every input cell from the start of the row through this block.
	StatePrefixAvailable
)

// BlockDescriptor is the per-block record the chained-lookback protocol
// reads and writes. The state field is the synchronization point: it is
// always stored with release ordering and loaded with acquire ordering
// before aggregate or prefix is read, so a reader that observes
// state >= AggregateAvailable is guaranteed to see the aggregate write
// that preceded it, and likewise for prefix at PrefixAvailable.
//
// aggregate and prefix themselves are plain relaxed atomics: the state
// store's release semantics are the only fence they need.
type BlockDescriptor struct {
	state     atomic.Uint32
	aggregate atomic.Uint64
	prefix    atomic.Uint64
}

// NewDescriptors allocates n descriptors, all in StateInitialized with
// zero aggregate and prefix.
func NewDescriptors(n int) []BlockDescriptor {
	return make([]BlockDescriptor, n)
}

// ResetDescriptors returns every descriptor in descs to its initial
// state so the slice can be reused for another task. Callers must only
// call Reset once every worker from the previous task has rejoined
// (e.g. after Pool.Run has returned) — the stores below are relaxed, and
// rely on that join to act as the ordering edge into the next task,
// exactly as the original chained-scan's reset does.
func ResetDescriptors(descs []BlockDescriptor) {
	for i := range descs {
		descs[i].state.Store(uint32(StateInitialized))
		descs[i].aggregate.Store(0)
		descs[i].prefix.Store(0)
	}
}

// State loads this descriptor's state with acquire ordering.
func (d *BlockDescriptor) State() BlockState {
	s := BlockState(d.state.Load())
	if s > StatePrefixAvailable {
		panic("scan: block descriptor in impossible state")
	}
	return s
}

// Aggregate loads the local block sum with acquire ordering. Only valid
// once State() reports at least StateAggregateAvailable.
func (d *BlockDescriptor) Aggregate() uint64 { return d.aggregate.Load() }

// Prefix loads the row-relative inclusive sum with acquire ordering.
// Only valid once State() reports StatePrefixAvailable.
func (d *BlockDescriptor) Prefix() uint64 { return d.prefix.Load() }

// publishAggregate stores the local sum (relaxed) and then publishes
// StateAggregateAvailable (release).
func (d *BlockDescriptor) publishAggregate(sum uint64) {
	d.aggregate.Store(sum)
	d.state.Store(uint32(StateAggregateAvailable))
}

// publishPrefix stores the row-relative inclusive sum (relaxed) and then
// publishes StatePrefixAvailable (release). This is the only state
// transition a reader needs acquire ordering to observe correctly.
func (d *BlockDescriptor) publishPrefix(sum uint64) {
	d.prefix.Store(sum)
	d.state.Store(uint32(StatePrefixAvailable))
}
