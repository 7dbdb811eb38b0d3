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

// Package scan computes the inclusive prefix sum (running total) over a
// one- or multi-dimensional array of uint64 cells using a lock-free,
// work-assisting chained-lookback protocol. Any number of goroutines can
// enter a scan task at any time — including after the task has started.
// The first worker runs block 0 without any atomic claim; every further
// block, even with a single worker, is claimed with one atomic fetch-add
// and scanned with the decoupled-lookback protocol, which takes its fast
// path whenever the block to its left has already published its prefix.
//
// There is no barrier, no central coordinator, and no task queue: workers
// claim blocks from a single packed atomic counter and publish partial
// results through per-block descriptors using only atomic loads and
// stores.
//
// Basic usage:
//
//	arr := scan.NewArray([]int{8})
//	for i, v := range []uint64{1, 1, 1, 1, 1, 1, 1, 1} {
//		arr.Data()[i].Store(v)
//	}
//	out := scan.NewArray(arr.Shape())
//	task := scan.NewTask(arr, out)
//	pool.New(4).Run(4, task)
//	// out now holds [1, 2, 3, 4, 5, 6, 7, 8]
package scan
