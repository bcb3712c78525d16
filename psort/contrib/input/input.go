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

// Package input reads integer-per-line text files into a flat sequence.
//
// Parsing follows C's strtol in base 10: leading white space is skipped, an
// optional sign and decimal digits are consumed, anything after them is
// ignored, and a line without digits yields 0. Lines are read through a
// fixed-size line buffer the way fgets reads them, so a physical line longer
// than the buffer is seen as several lines.
package input

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/golang/glog"
	"github.com/samber/lo"

	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/workerpool"
)

// MaxLineLength is the default line buffer size in bytes, terminator included.
const MaxLineLength = 4096

var (
	// ErrIO is wrapped by every error opening or reading an input file.
	ErrIO = errors.New("input I/O error")

	// ErrInputTooLong is returned in strict mode for a line that does not fit
	// the line buffer.
	ErrInputTooLong = errors.New("input line too long")
)

// Loader reads input files.
type Loader struct {
	// MaxLineLength is the line buffer size; zero means MaxLineLength.
	MaxLineLength int

	// Strict makes an over-long line an error instead of splitting it.
	Strict bool

	// Pool, when set, reads files concurrently. Results are still
	// concatenated in path order.
	Pool *workerpool.Pool
}

// Load reads paths with a default Loader.
func Load(paths []string) ([]int64, error) {
	return (&Loader{}).Load(paths)
}

// Load returns the values of every line of every path, in path order and
// then line order. A path that cannot be opened or read fails the whole load.
func (l *Loader) Load(paths []string) ([]int64, error) {
	perFile := make([][]int64, len(paths))
	load := func(i int) error {
		values, err := l.LoadFile(paths[i])
		perFile[i] = values
		return err
	}

	var err error
	if l.Pool != nil {
		err = l.Pool.Each(len(paths), load)
	} else {
		for i := range paths {
			if err = load(i); err != nil {
				break
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return lo.Flatten(perFile), nil
}

// LoadFile reads the values of a single file.
func (l *Loader) LoadFile(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	values, err := l.ReadValues(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	glog.V(2).Infof("input: %d values from %s", len(values), path)
	return values, nil
}

// ReadValues parses every line of r.
func (l *Loader) ReadValues(r io.Reader) ([]int64, error) {
	limit := l.MaxLineLength
	if limit <= 0 {
		limit = MaxLineLength
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, max(limit, 4096)), max(limit, bufio.MaxScanTokenSize))
	scanner.Split(splitLines(limit-1, l.Strict))

	values := []int64{}
	for scanner.Scan() {
		values = append(values, ParseValue(scanner.Bytes()))
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, ErrInputTooLong) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return values, nil
}

// splitLines returns a bufio.SplitFunc yielding lines of at most maxBytes
// bytes, newline included. A longer line is cut at maxBytes, like successive
// fgets calls on a buffer of maxBytes+1, or rejected when strict.
func splitLines(maxBytes int, strict bool) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if len(data) == 0 {
			return 0, nil, nil
		}
		window := data[:min(len(data), maxBytes)]
		if i := bytes.IndexByte(window, '\n'); i >= 0 {
			return i + 1, data[:i+1], nil
		}
		if len(data) >= maxBytes {
			if strict {
				return 0, nil, fmt.Errorf("%w: more than %d bytes", ErrInputTooLong, maxBytes)
			}
			return maxBytes, data[:maxBytes], nil
		}
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
}

// ParseValue parses a decimal integer prefix of line with strtol rules.
// Values beyond the int64 range saturate at math.MinInt64 or math.MaxInt64.
func ParseValue(line []byte) int64 {
	i := 0
	for i < len(line) && isSpace(line[i]) {
		i++
	}

	neg := false
	if i < len(line) && (line[i] == '+' || line[i] == '-') {
		neg = line[i] == '-'
		i++
	}

	// Accumulate as a negative number, whose range includes math.MinInt64.
	var acc int64
	overflow := false
	for ; i < len(line) && line[i] >= '0' && line[i] <= '9'; i++ {
		d := int64(line[i] - '0')
		if overflow {
			continue
		}
		if acc < (math.MinInt64+d)/10 {
			overflow = true
			continue
		}
		acc = acc*10 - d
	}

	switch {
	case overflow && neg:
		return math.MinInt64
	case overflow:
		return math.MaxInt64
	case neg:
		return acc
	case acc == math.MinInt64:
		return math.MaxInt64
	default:
		return -acc
	}
}

// isSpace matches C's isspace in the "C" locale.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
