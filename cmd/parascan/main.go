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

// Command parascan is a thin demo CLI around the scan engine: a
// worker-thread pool lifecycle, a benchmarking loop, and argument
// parsing are all external-collaborator concerns the core spec
// explicitly leaves out (spec.md §1), so this binary exists only to
// exercise the core package from outside a test.
package main

import "github.com/ajroetker/go-parascan/cmd/parascan/cmd"

func main() {
	cmd.Execute()
}
