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
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-parascan/scan"
	"github.com/ajroetker/go-parascan/scan/contrib/pool"
	"github.com/ajroetker/go-parascan/scan/internal/xorshift"
)

var (
	runShape   string
	runThreads int
	runSeed    int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan a random array of the given shape and print a checksum",
	RunE: func(cmd *cobra.Command, args []string) error {
		shape, err := parseShape(runShape)
		if err != nil {
			return err
		}

		n := 1
		for _, d := range shape {
			n *= d
		}
		values := make([]uint64, n)
		xorshift.New(uint64(runSeed)).FillUint64(values)

		in := scan.NewArrayFromUint64(shape, values)
		out := scan.NewArray(shape)

		p := pool.New(runThreads)
		defer p.Close()

		logger.Debug("scanning", "shape", shape, "threads", runThreads)
		scan.Scan(p, runThreads, in, out)

		result := out.Snapshot()
		var checksum uint64
		for _, v := range result {
			checksum += v
		}
		fmt.Printf("cells=%d threads=%d checksum=%d last=%d\n", n, runThreads, checksum, result[len(result)-1])
		return nil
	},
}

func parseShape(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	shape := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("invalid shape dimension %q", p)
		}
		shape[i] = v
	}
	return shape, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runShape, "shape", "1000000", "comma-separated array shape, innermost dimension last")
	runCmd.Flags().IntVar(&runThreads, "threads", 4, "number of worker threads")
	runCmd.Flags().Int64Var(&runSeed, "seed", 1, "xorshift seed for the generated input")
}
