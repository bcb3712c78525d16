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

package psort

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
)

var (
	// ErrOutput is wrapped by errors writing the result.
	ErrOutput = errors.New("output failed")

	// ErrNotSorted is returned by Verify for out-of-order output.
	ErrNotSorted = errors.New("output not sorted")

	// ErrLost is returned by Verify when output and input hold different values.
	ErrLost = errors.New("output does not match input")
)

// Emit writes values to w in decimal, one per line.
func Emit(w io.Writer, values []int64) error {
	bw := bufio.NewWriterSize(w, 64<<10)
	buf := make([]byte, 0, 24)
	for _, v := range values {
		buf = strconv.AppendInt(buf[:0], v, 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("%w: %w", ErrOutput, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}
	return nil
}

// Verify checks that output is non-decreasing and holds exactly the values of
// input. input is not modified.
func Verify(input, output []int64) error {
	for i := 1; i < len(output); i++ {
		if output[i] < output[i-1] {
			return fmt.Errorf("%w: position %d: %d after %d", ErrNotSorted, i, output[i], output[i-1])
		}
	}
	if len(input) != len(output) {
		return fmt.Errorf("%w: %d values in, %d out", ErrLost, len(input), len(output))
	}
	want := slices.Clone(input)
	slices.Sort(want)
	if i := mismatch(want, output); i >= 0 {
		return fmt.Errorf("%w: position %d: got %d, want %d", ErrLost, i, output[i], want[i])
	}
	return nil
}

func mismatch(a, b []int64) int {
	for i := range a {
		if a[i] != b[i] {
			return i
		}
	}
	return -1
}
