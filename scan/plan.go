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

// data is the payload a scan Task carries: the input/output arrays'
// flat storage, the descriptor grid, and the shape facts the kernels
// need to translate a block index into a cell range.
type data struct {
	input       []Cell
	output      []Cell
	descriptors []BlockDescriptor

	// blocksPerRow is C: ceil(innerSize / BlockSize), except when a
	// whole row (or several) fits in one block, in which case it is 1
	// and rowsPerBlock groups multiple rows into that one block.
	blocksPerRow uint32
	innerSize    int
	rowsPerBlock int
}

// PlanGrid computes the block grid for a row of length innerSize: the
// column count C and the total block count W for rowCount independent
// rows. When innerSize < BlockSize/2, BlockSize/innerSize whole rows are
// packed into a single block (spec §3, §4.4); for
// BlockSize/2 <= innerSize <= BlockSize each row is one block of its own.
func PlanGrid(innerSize, rowCount int) (blocksPerRow uint32, blockCount uint32) {
	if innerSize <= 0 || rowCount <= 0 {
		return 0, 0
	}
	c := (innerSize + BlockSize - 1) / BlockSize
	if c > 1 {
		total := c * rowCount
		if total <= 0 || total/c != rowCount {
			panic("scan: block count overflowed")
		}
		return uint32(c), uint32(total)
	}
	rowsPerBlock := BlockSize / innerSize
	if rowsPerBlock < 1 || 2*innerSize >= BlockSize {
		rowsPerBlock = 1
	}
	total := (rowCount + rowsPerBlock - 1) / rowsPerBlock
	return 1, uint32(total)
}

// NewDescriptorsFor allocates a fresh descriptor grid sized for a scan
// over an array with the given shape.
func NewDescriptorsFor(arr *Array) []BlockDescriptor {
	_, blockCount := PlanGrid(arr.InnerSize(), arr.TotalInnerCount())
	return NewDescriptors(int(blockCount))
}

// NewTask builds a scan Task over input/output, allocating a fresh
// descriptor grid. input and output must have identical shapes; they
// may be the same Array (in-place scan).
func NewTask(input, output *Array) *Task {
	return NewTaskWithDescriptors(input, output, NewDescriptorsFor(input))
}

// NewTaskWithDescriptors builds a scan Task reusing a caller-owned
// descriptor grid, for callers that run many scans back-to-back and
// want to avoid reallocating the descriptor array each time (spec §9,
// "descriptor recycling"). descs must already be in, or have been
// Reset to, the initial state; callers typically call ResetDescriptors
// once all workers from a prior task have rejoined, before calling this
// again.
func NewTaskWithDescriptors(input, output *Array, descs []BlockDescriptor) *Task {
	if len(input.Shape()) != len(output.Shape()) {
		panic("scan: input/output shape rank mismatch")
	}
	inShape, outShape := input.Shape(), output.Shape()
	for i := range inShape {
		if inShape[i] != outShape[i] {
			panic("scan: input/output shapes differ")
		}
	}

	innerSize := input.InnerSize()
	rowCount := input.TotalInnerCount()
	blocksPerRow, blockCount := PlanGrid(innerSize, rowCount)

	if int(blockCount) != len(descs) {
		panic("scan: descriptor grid does not match input shape")
	}

	rowsPerBlock := 1
	if blocksPerRow == 1 && innerSize > 0 {
		rowsPerBlock = BlockSize / innerSize
		if rowsPerBlock < 1 || 2*innerSize >= BlockSize {
			rowsPerBlock = 1
		}
		if rowsPerBlock > rowCount {
			rowsPerBlock = rowCount
		}
	}

	d := data{
		input:        input.Data(),
		output:       output.Data(),
		descriptors:  descs,
		blocksPerRow: blocksPerRow,
		innerSize:    innerSize,
		rowsPerBlock: rowsPerBlock,
	}

	return NewDataParallelTask(runScan, finishScan, d, blockCount, true)
}
