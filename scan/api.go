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

// Dispatch is the minimal contract Scan and ScanInPlace need from a
// worker dispatcher: run threadCount workers into task and return once
// it has finished. package pool's *Pool satisfies this.
type Dispatch interface {
	Run(threadCount int, task *Task)
}

// Scan computes the inclusive prefix sum of input into output using
// threadCount workers drawn from dispatcher. input and output must have
// identical shapes but must not alias; use ScanInPlace for in-place
// scans.
func Scan(dispatcher Dispatch, threadCount int, input, output *Array) {
	dispatcher.Run(threadCount, NewTask(input, output))
}

// ScanInPlace computes the inclusive prefix sum of arr, overwriting it,
// using threadCount workers drawn from dispatcher.
func ScanInPlace(dispatcher Dispatch, threadCount int, arr *Array) {
	dispatcher.Run(threadCount, NewTask(arr, arr))
}

// ReferenceSequential computes the inclusive prefix sum of input into
// output with a single pass and no concurrency at all: a plain
// row-by-row scan that uses neither blocks nor descriptors, used as the
// correctness oracle property tests check every parallel run against
// (spec §8).
func ReferenceSequential(input, output *Array) {
	inShape, outShape := input.Shape(), output.Shape()
	if len(inShape) != len(outShape) {
		panic("scan: input/output shape rank mismatch")
	}
	for i := range inShape {
		if inShape[i] != outShape[i] {
			panic("scan: input/output shapes differ")
		}
	}

	innerSize := input.InnerSize()
	if innerSize == 0 {
		return
	}
	in, out := input.Data(), output.Data()
	for start := 0; start+innerSize <= len(in); start += innerSize {
		ScanSequential(in[start:start+innerSize], 0, out[start:start+innerSize])
	}
}
