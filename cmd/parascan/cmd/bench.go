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

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-parascan/scan"
	"github.com/ajroetker/go-parascan/scan/contrib/pool"
	"github.com/ajroetker/go-parascan/scan/internal/xorshift"
)

var (
	benchShape      string
	benchMaxThreads int
	benchIterations int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare scan throughput across thread counts",
	Long: `bench times the scan engine at thread counts 1, 2, 4, ... up to
--max-threads, reusing the same input and descriptor grid across
iterations (spec.md §9, descriptor recycling). It only prints timings to
stdout; chart and file output are out of scope for this engine.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		shape, err := parseShape(benchShape)
		if err != nil {
			return err
		}

		n := 1
		for _, d := range shape {
			n *= d
		}
		values := make([]uint64, n)
		xorshift.New(1).FillUint64(values)

		in := scan.NewArrayFromUint64(shape, values)
		out := scan.NewArray(shape)
		descs := scan.NewDescriptorsFor(in)

		p := pool.New(benchMaxThreads)
		defer p.Close()

		for threads := 1; threads <= benchMaxThreads; threads *= 2 {
			var total time.Duration
			for i := 0; i < benchIterations; i++ {
				scan.ResetDescriptors(descs)
				task := scan.NewTaskWithDescriptors(in, out, descs)

				start := time.Now()
				p.Run(threads, task)
				total += time.Since(start)
			}
			avg := total / time.Duration(benchIterations)
			fmt.Printf("threads=%-3d avg=%s\n", threads, avg)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().StringVar(&benchShape, "shape", "10000000", "comma-separated array shape, innermost dimension last")
	benchCmd.Flags().IntVar(&benchMaxThreads, "max-threads", 8, "largest thread count to measure")
	benchCmd.Flags().IntVar(&benchIterations, "iterations", 5, "iterations averaged per thread count")
}
