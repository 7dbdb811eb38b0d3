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

// Package xorshift implements a deterministic xorshift generator, used
// only by this module's own tests and benchmarks to build reproducible
// random inputs from a fixed seed (spec.md §8 requires a "fixed xorshift
// seed" scenario). Grounded on original_source/src/cases/scan.rs's
// private random(seed) helper; kept internal for the same reason that
// helper is a private function there, not part of the public API.
package xorshift

// State is a 64-bit xorshift generator.
type State struct {
	seed uint64
}

// New returns a generator seeded with seed. A zero seed is replaced
// with a fixed non-zero value, since xorshift is fixed at an all-zero
// state.
func New(seed uint64) *State {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	return &State{seed: seed}
}

// Next returns the next pseudo-random value and advances the state.
func (s *State) Next() uint32 {
	seed := s.seed
	seed ^= seed << 13
	seed ^= seed >> 17
	seed ^= seed << 5
	s.seed = seed
	return uint32(seed)
}

// Uint64 returns a pseudo-random 64-bit value, combining two draws.
func (s *State) Uint64() uint64 {
	hi := uint64(s.Next())
	lo := uint64(s.Next())
	return hi<<32 | lo
}

// FillUint64 fills dst with pseudo-random values.
func (s *State) FillUint64(dst []uint64) {
	for i := range dst {
		dst[i] = s.Uint64()
	}
}
