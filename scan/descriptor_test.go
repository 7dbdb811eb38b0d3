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

import "testing"

func TestNewDescriptorsInitialState(t *testing.T) {
	descs := NewDescriptors(4)
	for i := range descs {
		if got := descs[i].State(); got != StateInitialized {
			t.Fatalf("descs[%d].State() = %v, want StateInitialized", i, got)
		}
		if descs[i].Aggregate() != 0 || descs[i].Prefix() != 0 {
			t.Fatalf("descs[%d] not zero-valued", i)
		}
	}
}

func TestDescriptorPublishTransitions(t *testing.T) {
	descs := NewDescriptors(1)

	descs[0].publishAggregate(7)
	if got := descs[0].State(); got != StateAggregateAvailable {
		t.Fatalf("State() = %v, want StateAggregateAvailable", got)
	}
	if got := descs[0].Aggregate(); got != 7 {
		t.Fatalf("Aggregate() = %d, want 7", got)
	}

	descs[0].publishPrefix(20)
	if got := descs[0].State(); got != StatePrefixAvailable {
		t.Fatalf("State() = %v, want StatePrefixAvailable", got)
	}
	if got := descs[0].Prefix(); got != 20 {
		t.Fatalf("Prefix() = %d, want 20", got)
	}
}

func TestResetDescriptors(t *testing.T) {
	descs := NewDescriptors(3)
	for i := range descs {
		descs[i].publishPrefix(uint64(i) + 1)
	}

	ResetDescriptors(descs)

	for i := range descs {
		if got := descs[i].State(); got != StateInitialized {
			t.Fatalf("descs[%d].State() = %v, want StateInitialized", i, got)
		}
		if descs[i].Aggregate() != 0 || descs[i].Prefix() != 0 {
			t.Fatalf("descs[%d] not reset to zero", i)
		}
	}
}

func TestDescriptorImpossibleStatePanics(t *testing.T) {
	descs := NewDescriptors(1)
	descs[0].state.Store(99)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on impossible descriptor state")
		}
	}()
	descs[0].State()
}
