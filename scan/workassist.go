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

// RowColumnKernels groups the three per-block kernels the adaptive
// row/column work-assisting loop dispatches to, see spec §4.4:
//
//   - MultipleRows: used when a row (or several) fits inside one block
//     (segments == 1); no lookback is needed, every block is an
//     independent sequential scan starting from carry zero.
//   - RowWise: used by the worker that entered with FirstIndex 0. In a
//     task built by NewDataParallelTask it runs only block 0 (row 0,
//     column 0), which needs no lookback; RunRowColumn explains why the
//     row-wise walk goes no further.
//   - ColumnWise: used for every block claimed through the low 16 bits
//     of the work index. runScan maps claim i to row
//     rowsCompleted + i mod (remaining rows) and column
//     i / (remaining rows), so claims run down column 0 of the remaining
//     rows first, then column 1, and so on; consecutive claims of one
//     worker land in different rows. It takes the chained-lookback slow
//     path when the block to its left has not yet published its prefix.
type RowColumnKernels struct {
	MultipleRows func(blockIndex uint32)
	RowWise      func(blockIndex uint32)
	ColumnWise   func(blockIndex, rowsCompleted uint32)
}

// RunRowColumn runs the adaptive row/column work-assisting loop for one
// worker, given its LoopArguments and the row grid's column count
// (segments, "C" in spec terms). It returns once this worker has
// observed that every block has been claimed.
//
// This is the Go counterpart of the original's
// workassisting_loop_row_column! macro: a macro there because Rust
// inlines the three scan bodies into the loop at each of the three call
// sites; here the three bodies are ordinary closures passed in by the
// caller, since Go has no equivalent textual-substitution facility and
// closures cost nothing a macro wouldn't here.
func RunRowColumn(args LoopArguments, segments uint32, kernels RowColumnKernels) {
	workSize := args.WorkSize
	workIndex := args.WorkIndex
	empty := args.EmptySignal
	blockIdx := args.FirstIndex

	// NewDataParallelTask already rejects a block count this large, so
	// by construction workSize is always < MaxBlockCount here.

	if segments == 1 {
		// A row (or several, packed together) fits within a single
		// block. args.FirstIndex is already a valid claim: the
		// initial worker's is the literal 0 reserved for it at task
		// construction, and every other worker reserved its own via
		// Task.Enter's fetch-add, so no further claiming is needed
		// before the first kernel call. Each worker claims the
		// remaining indices consecutively from the low 16 bits.
		blockIdx &= 0xFFFF

		for {
			if blockIdx >= workSize {
				empty.TaskEmpty()
				break
			}

			kernels.MultipleRows(blockIdx)

			if blockIdx == workSize-1 {
				empty.TaskEmpty()
			}
			blockIdx = (workIndex.Add(1) - 1) & 0xFFFF
		}
		return
	}

	// Multiple blocks per row: the worker with FirstIndex 0 runs block 0
	// row-wise; everyone else claims column-wise through the low 16
	// bits. Index 0 is reserved for the initial worker the same way as
	// above, so rowwiseThread is never true for more than one worker on
	// entry. NewDataParallelTask seeds the low half at 1, so the initial
	// worker's compare-and-swap below (which expects 0) fails and its
	// reload already sees a nonzero low half: it switches to column-wise
	// claiming right after block 0, even when it is the only worker. The
	// high (row-wise) half is then never advanced.
	rowwiseThread := args.FirstIndex == 0
	rowwiseIdx := blockIdx >> 16
	colwiseIdx := blockIdx & 0xFFFF
	var rowwiseClaimedRows uint32
	rowwiseWorkSize := workSize
	var colwiseWorkSize uint32

	if rowwiseThread {
		// Execute the first row-wise block (row 0, column 0) with no
		// atomic operation at all: this is the zero-overhead entry
		// the spec requires for the solo-worker case.
		kernels.RowWise(rowwiseIdx)
	} else {
		rowwiseClaimedRows = (rowwiseIdx + segments - 1) / segments
		rowwiseWorkSize = rowwiseClaimedRows * segments
		colwiseWorkSize = workSize - rowwiseWorkSize

		// A worker's very first claim can already be beyond the
		// available work (more workers than blocks); guard it with
		// the same claimed-count check the loop below uses on every
		// later iteration, so an oversubscribed worker retires
		// immediately instead of running a kernel on a bogus index.
		claimed := rowwiseIdx + colwiseIdx + 1
		if claimed > workSize {
			empty.TaskEmpty()
			return
		} else if claimed == workSize {
			empty.TaskEmpty()
		}

		if colwiseIdx < colwiseWorkSize {
			kernels.ColumnWise(colwiseIdx, rowwiseClaimedRows)
		} else {
			// No unclaimed rows left; assist row-wise instead.
			rowwiseThread = true
		}
	}

	for {
		if rowwiseThread {
			if workIndex.CompareAndSwap(blockIdx, blockIdx+(1<<16)) {
				kernels.RowWise(rowwiseIdx)
			}

			blockIdx = workIndex.Load()
			rowwiseIdx = blockIdx >> 16
			colwiseIdx = blockIdx & 0xFFFF

			if colwiseIdx > 0 {
				// The low half is nonzero (always so under the
				// task's seed of 1, whether or not another worker
				// has joined): finish the rows already claimed
				// row-wise, then switch to column-wise.
				rowwiseClaimedRows = (rowwiseIdx + segments - 1) / segments
				rowwiseWorkSize = rowwiseClaimedRows * segments
				colwiseWorkSize = workSize - rowwiseWorkSize
				rowwiseThread = rowwiseIdx < rowwiseWorkSize
			}

			claimed := rowwiseIdx + min(colwiseIdx, colwiseWorkSize) + 1
			if claimed > workSize {
				empty.TaskEmpty()
				break
			} else if claimed == workSize {
				empty.TaskEmpty()
			}
		} else {
			blockIdx = workIndex.Add(1) - 1
			rowwiseIdx = blockIdx >> 16
			colwiseIdx = blockIdx & 0xFFFF
			claimed := min(rowwiseIdx, rowwiseWorkSize) + colwiseIdx + 1

			if claimed > workSize {
				empty.TaskEmpty()
				break
			} else if claimed == workSize {
				empty.TaskEmpty()
			}

			if colwiseIdx >= colwiseWorkSize {
				// This row is exhausted; assist row-wise instead.
				rowwiseThread = true
				continue
			}

			kernels.ColumnWise(colwiseIdx, rowwiseClaimedRows)
		}
	}
}
