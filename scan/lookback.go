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

// runScan is the Task run callback: it builds the three per-block
// kernels over data and hands them, together with this worker's
// LoopArguments, to the adaptive row/column work-assisting loop.
func runScan(d *data, args LoopArguments) {
	innerRows := 0
	if d.innerSize > 0 {
		innerRows = len(d.input) / d.innerSize
	}
	blocksPerRow := int(d.blocksPerRow)

	RunRowColumn(args, d.blocksPerRow, RowColumnKernels{
		MultipleRows: func(blockIndex uint32) {
			rowsPerBlock := d.rowsPerBlock
			if rowsPerBlock > innerRows {
				rowsPerBlock = innerRows
			}
			blockSize := d.innerSize * rowsPerBlock
			start := int(blockIndex) * blockSize
			for range rowsPerBlock {
				end := start + d.innerSize
				if end > len(d.input) {
					end = len(d.input)
				}
				if start >= end {
					break
				}
				ScanSequential(d.input[start:end], 0, d.output[start:end])
				start = end
			}
		},
		RowWise: func(blockIndex uint32) {
			rowIdx := int(blockIndex) / blocksPerRow
			columnIdx := int(blockIndex) - rowIdx*blocksPerRow
			adaptiveChainedLookback(d, rowIdx, columnIdx, int(blockIndex))
		},
		ColumnWise: func(blockIndex, rowsCompleted uint32) {
			newInnerRows := innerRows - int(rowsCompleted)
			rowIdx := int(blockIndex)%newInnerRows + int(rowsCompleted)
			columnIdx := int(blockIndex) / newInnerRows
			descriptorIdx := rowIdx*blocksPerRow + columnIdx
			adaptiveChainedLookback(d, rowIdx, columnIdx, descriptorIdx)
		},
	})
}

// finishScan is the Task finish callback: the payload owns no external
// resources, so there is nothing to release beyond letting it be
// garbage collected once the Task itself is.
func finishScan(d *data) {}

// adaptiveChainedLookback runs the chained-lookback protocol (spec §4.2)
// for the block at (rowIdx, columnIdx), identified by descriptorIdx in
// the flat descriptor grid.
//
// Fast path: the block is a row's leftmost (carry 0), or its immediate
// predecessor has already published StatePrefixAvailable — either way
// the starting carry is known up front, so the block's contents are
// scanned directly in one pass.
//
// Slow path: the predecessor is not yet at StatePrefixAvailable. This
// block first publishes its own aggregate (so anyone looking back at it
// later has something to sum), then walks backward summing predecessor
// aggregates until it finds one already at StatePrefixAvailable, adds
// that predecessor's prefix, and only then knows its own starting carry.
func adaptiveChainedLookback(d *data, rowIdx, columnIdx, descriptorIdx int) {
	start := rowIdx*d.innerSize + columnIdx*BlockSize
	end := rowIdx*d.innerSize + min((columnIdx+1)*BlockSize, d.innerSize)

	var carry uint64
	haveCarry := false

	if columnIdx == 0 {
		carry, haveCarry = 0, true
	} else {
		prev := &d.descriptors[descriptorIdx-1]
		if prev.State() == StatePrefixAvailable {
			carry, haveCarry = prev.Prefix(), true
		}
	}

	if haveCarry {
		local := ScanSequential(d.input[start:end], carry, d.output[start:end])
		d.descriptors[descriptorIdx].publishPrefix(local)
		return
	}

	local := FoldSequential(d.input[start:end])
	d.descriptors[descriptorIdx].publishAggregate(local)

	var aggregate uint64
	previous := descriptorIdx - 1
	for {
		state := d.descriptors[previous].State()
		if state == StatePrefixAvailable {
			aggregate += d.descriptors[previous].Prefix()
			break
		} else if state == StateAggregateAvailable {
			aggregate += d.descriptors[previous].Aggregate()
			previous--
		}
		// else StateInitialized: the predecessor hasn't published
		// anything yet. Every block is eventually claimed and every
		// claimant publishes at least an aggregate within
		// O(BlockSize) work, so this spin is bounded; reload and
		// try again.
	}

	d.descriptors[descriptorIdx].publishPrefix(aggregate + local)
	ScanSequential(d.input[start:end], aggregate, d.output[start:end])
}
