// Copyright 2025 go-highway Authors
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

// gennums writes files of pseudo-random integers, one per line, as input for
// mysort.
//
// Values come from a full-cycle generator over [min, max]: within one cycle
// no value repeats, and the same seed always yields the same files.
//
// Usage:
//
//	gennums -count 1000000 -files 4 -prefix /tmp/nums
//
// writes /tmp/nums-0.txt through /tmp/nums-3.txt. Without -prefix all values
// go to standard output.
//
// Flags:
//
//	-count N    Values per file (default 1000)
//	-files F    Number of files (default 1)
//	-min A      Smallest value (default -1000000000)
//	-max B      Largest value (default 1000000000)
//	-seed S     Generator seed (default 1)
//	-hq         Trade speed for better randomness
//	-prefix P   Output path prefix
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math"
	"math/big"
	"os"
	"strconv"

	"modernc.org/mathutil"
)

var (
	count  = flag.Int("count", 1000, "values per file")
	files  = flag.Int("files", 1, "number of files")
	minVal = flag.Int64("min", -1_000_000_000, "smallest value")
	maxVal = flag.Int64("max", 1_000_000_000, "largest value")
	seed   = flag.Int64("seed", 1, "generator seed")
	hq     = flag.Bool("hq", false, "higher quality, slower generator")
	prefix = flag.String("prefix", "", "output path prefix; empty writes to stdout")
)

func main() {
	flag.Parse()

	if *count < 0 || *files < 1 {
		fmt.Fprintf(os.Stderr, "Error: -count must be >= 0 and -files >= 1\n")
		os.Exit(1)
	}

	gen, err := newGenerator(*minVal, *maxVal, *hq, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *prefix == "" {
		if err := writeValues(os.Stdout, gen, *count**files); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	for i := range *files {
		path := fmt.Sprintf("%s-%d.txt", *prefix, i)
		if err := writeFile(path, gen, *count); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d values to %s\n", *count, path)
	}
}

// generator yields the next value of a full cycle.
type generator func() int64

// newGenerator returns a full-cycle generator over [lo, hi]. Ranges that fit
// in 32 bits use mathutil.FC32; wider ones fall back to mathutil.FCBig.
func newGenerator(lo, hi int64, hq bool, seed int64) (generator, error) {
	if lo > hi {
		return nil, fmt.Errorf("invalid range: min %d > max %d", lo, hi)
	}
	if span := uint64(hi) - uint64(lo); span <= 1<<32-1 && lo >= math.MinInt && hi <= math.MaxInt {
		fc, err := mathutil.NewFC32(int(lo), int(hi), hq)
		if err != nil {
			return nil, err
		}
		fc.Seed(seed)
		return func() int64 { return int64(fc.Next()) }, nil
	}

	fc, err := mathutil.NewFCBig(big.NewInt(lo), big.NewInt(hi), hq)
	if err != nil {
		return nil, err
	}
	fc.Seed(seed)
	return func() int64 { return fc.Next().Int64() }, nil
}

func writeFile(path string, gen generator, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeValues(f, gen, n); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func writeValues(w io.Writer, gen generator, n int) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 24)
	for range n {
		buf = strconv.AppendInt(buf[:0], gen(), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
