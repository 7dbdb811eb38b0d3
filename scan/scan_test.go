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

package scan_test

import (
	"testing"

	"github.com/ajroetker/go-parascan/scan"
	"github.com/ajroetker/go-parascan/scan/contrib/pool"
	"github.com/ajroetker/go-parascan/scan/internal/xorshift"
)

// runScan builds fresh input/output arrays, scans them with threadCount
// workers, and returns the output as a plain slice.
func runScan(t *testing.T, shape []int, input []uint64, threadCount int) []uint64 {
	t.Helper()
	in := scan.NewArrayFromUint64(shape, input)
	out := scan.NewArray(shape)

	p := pool.New(threadCount)
	defer p.Close()

	scan.Scan(p, threadCount, in, out)
	return out.Snapshot()
}

func TestScanScenario1(t *testing.T) {
	got := runScan(t, []int{8}, []uint64{1, 1, 1, 1, 1, 1, 1, 1}, 1)
	want := []uint64{1, 2, 3, 4, 5, 6, 7, 8}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestScanScenario2_FourThreadsSameResult(t *testing.T) {
	got := runScan(t, []int{8}, []uint64{1, 1, 1, 1, 1, 1, 1, 1}, 4)
	want := []uint64{1, 2, 3, 4, 5, 6, 7, 8}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestScanScenario3_PerRowScan(t *testing.T) {
	got := runScan(t, []int{2, 4}, []uint64{1, 2, 3, 4, 5, 6, 7, 8}, 4)
	want := []uint64{1, 3, 6, 10, 5, 11, 18, 26}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestScanScenario4_AllZerosAcrossBlockBoundary(t *testing.T) {
	n := scan.BlockSize + 1
	input := make([]uint64, n)

	for _, threadCount := range []int{1, 2, 4, 8} {
		got := runScan(t, []int{n}, input, threadCount)
		for i, v := range got {
			if v != 0 {
				t.Fatalf("threads=%d: output[%d] = %d, want 0", threadCount, i, v)
			}
		}
	}
}

func TestScanScenario5_TwoBlockBoundary(t *testing.T) {
	n := 2 * scan.BlockSize
	input := make([]uint64, n)
	for i := 0; i < scan.BlockSize; i++ {
		input[i] = 1
	}
	for i := scan.BlockSize; i < n; i++ {
		input[i] = 2
	}

	for _, threadCount := range []int{2, 4, 8} {
		got := runScan(t, []int{n}, input, threadCount)
		if got[scan.BlockSize-1] != scan.BlockSize {
			t.Fatalf("threads=%d: output[%d] = %d, want %d", threadCount, scan.BlockSize-1, got[scan.BlockSize-1], scan.BlockSize)
		}
		if got[scan.BlockSize] != scan.BlockSize+2 {
			t.Fatalf("threads=%d: output[%d] = %d, want %d", threadCount, scan.BlockSize, got[scan.BlockSize], scan.BlockSize+2)
		}
		if got[n-1] != 3*scan.BlockSize {
			t.Fatalf("threads=%d: output[%d] = %d, want %d", threadCount, n-1, got[n-1], 3*scan.BlockSize)
		}
	}
}

func TestScanScenario6_LargeGridMatchesSequentialReference(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large-grid scan in short mode")
	}

	const rows, cols = 1000, 1000
	shape := []int{rows, cols}
	n := rows * cols

	rng := xorshift.New(0xC0FFEE)
	input := make([]uint64, n)
	rng.FillUint64(input)
	for i := range input {
		input[i] %= 1000
	}

	ref := scan.NewArrayFromUint64(shape, input)
	refOut := scan.NewArray(shape)
	scan.ReferenceSequential(ref, refOut)
	want := refOut.Snapshot()

	got := runScan(t, shape, input, 8)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("output[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestScanDeterministicAcrossThreadCounts(t *testing.T) {
	const rows, cols = 17, 300
	shape := []int{rows, cols}
	n := rows * cols

	rng := xorshift.New(42)
	input := make([]uint64, n)
	rng.FillUint64(input)

	var reference []uint64
	for _, threadCount := range []int{1, 2, 3, 4, 8, 16} {
		got := runScan(t, shape, input, threadCount)
		if reference == nil {
			reference = got
			continue
		}
		for i := range reference {
			if got[i] != reference[i] {
				t.Fatalf("threads=%d: output[%d] = %d, want %d (from threads=1)", threadCount, i, got[i], reference[i])
			}
		}
	}
}

func TestScanInPlaceMatchesFreshCopy(t *testing.T) {
	const rows, cols = 5, scan.BlockSize + 37
	shape := []int{rows, cols}
	n := rows * cols

	rng := xorshift.New(7)
	input := make([]uint64, n)
	rng.FillUint64(input)
	for i := range input {
		input[i] %= 100
	}

	fresh := scan.NewArrayFromUint64(shape, input)
	out := scan.NewArray(shape)
	p := pool.New(4)
	defer p.Close()
	scan.Scan(p, 4, fresh, out)
	want := out.Snapshot()

	inPlace := scan.NewArrayFromUint64(shape, input)
	scan.ScanInPlace(p, 4, inPlace)
	got := inPlace.Snapshot()

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("in-place output[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestScanSingleRowGroupedIntoOneBlock(t *testing.T) {
	// innerSize well under BlockSize/2, so several rows pack into one
	// block and the loop's segments==1 path is exercised.
	const rows, cols = 50, 16
	shape := []int{rows, cols}

	input := make([]uint64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			input[r*cols+c] = 1
		}
	}

	got := runScan(t, shape, input, 4)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			want := uint64(c + 1)
			if v := got[r*cols+c]; v != want {
				t.Fatalf("row %d col %d = %d, want %d", r, c, v, want)
			}
		}
	}
}

func TestScanPropertyRandomShapes(t *testing.T) {
	shapes := [][]int{
		{1},
		{5},
		{scan.BlockSize},
		{scan.BlockSize + 1},
		{3, 7},
		{4, scan.BlockSize + 10},
		{2, 3, 50},
	}
	threadCounts := []int{1, 2, 3, 4, 8, 16}

	for _, shape := range shapes {
		n := 1
		for _, d := range shape {
			n *= d
		}
		rng := xorshift.New(uint64(n) + 1)
		input := make([]uint64, n)
		rng.FillUint64(input)
		for i := range input {
			input[i] %= 10_000
		}

		ref := scan.NewArrayFromUint64(shape, input)
		refOut := scan.NewArray(shape)
		scan.ReferenceSequential(ref, refOut)
		want := refOut.Snapshot()

		for _, threadCount := range threadCounts {
			got := runScan(t, shape, input, threadCount)
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("shape=%v threads=%d: output[%d] = %d, want %d", shape, threadCount, i, got[i], want[i])
				}
			}
		}
	}
}

func TestScanStressDescriptorRecycling(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping recycling stress test in short mode")
	}

	shape := []int{4, scan.BlockSize + 5}
	n := 4 * (scan.BlockSize + 5)

	in := scan.NewArray(shape)
	out := scan.NewArray(shape)
	descs := scan.NewDescriptorsFor(in)

	rng := xorshift.New(99)
	p := pool.New(4)
	defer p.Close()

	for iter := 0; iter < 1000; iter++ {
		values := make([]uint64, n)
		rng.FillUint64(values)
		for i := range values {
			values[i] %= 100
			in.Data()[i].Store(values[i])
		}

		scan.ResetDescriptors(descs)
		task := scan.NewTaskWithDescriptors(in, out, descs)
		p.Run(4, task)

		refOut := scan.NewArray(shape)
		scan.ReferenceSequential(in, refOut)
		want := refOut.Snapshot()
		got := out.Snapshot()
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("iter %d: output[%d] = %d, want %d", iter, i, got[i], want[i])
			}
		}
	}
}
