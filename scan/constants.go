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

// BlockSize is the number of cells in one block, the unit of parallel
// claim. Fixed, not runtime-tunable: larger inputs are handled by more
// blocks, never by a bigger block size chosen at runtime.
const BlockSize = 4096

// MaxBlockCount is the largest block count a single task can describe.
// The work index packs a row-wise and a column-wise claim counter into
// one 32-bit word, 16 bits each, so neither half may reach 1<<16; we cap
// the usable range at 1<<15 to leave headroom for the row-wise counter's
// "+1" advance without wraparound.
const MaxBlockCount = 1 << 15
