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

// ScanSequential computes the inclusive prefix sum of input into output,
// starting from the given carry, and returns the final accumulator
// (i.e. the sum of every cell plus the carry). It tolerates input and
// output being the same underlying cells (in-place scan): each index is
// read before it is written, so aliasing one-to-one is always safe.
//
// Panics if len(input) != len(output), the one programmer error this
// kernel can detect.
func ScanSequential(input []Cell, carry uint64, output []Cell) uint64 {
	if len(input) != len(output) {
		panic("scan: ScanSequential input/output length mismatch")
	}
	accumulator := carry
	for i := range input {
		accumulator += input[i].Load()
		output[i].Store(accumulator)
	}
	return accumulator
}

// FoldSequential sums every cell of input and returns the total, without
// writing anything. Used by the chained-lookback slow path to compute a
// block's aggregate before its starting carry is known.
func FoldSequential(input []Cell) uint64 {
	var accumulator uint64
	for i := range input {
		accumulator += input[i].Load()
	}
	return accumulator
}
