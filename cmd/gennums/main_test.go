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

package main

import (
	"bytes"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draw(gen generator, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = gen()
	}
	return out
}

func TestFullCycle(t *testing.T) {
	for _, hq := range []bool{false, true} {
		gen, err := newGenerator(-5, 5, hq, 42)
		require.NoError(t, err)
		got := draw(gen, 11)
		slices.Sort(got)
		assert.Equal(t, []int64{-5, -4, -3, -2, -1, 0, 1, 2, 3, 4, 5}, got, "hq=%v", hq)
	}
}

func TestSeedDeterminism(t *testing.T) {
	ranges := [][2]int64{{0, 1000}, {math.MinInt64, math.MaxInt64}}
	for _, r := range ranges {
		a, err := newGenerator(r[0], r[1], false, 7)
		require.NoError(t, err)
		b, err := newGenerator(r[0], r[1], false, 7)
		require.NoError(t, err)
		xs, ys := draw(a, 100), draw(b, 100)
		assert.Equal(t, xs, ys)
		for _, v := range xs {
			assert.True(t, v >= r[0] && v <= r[1], "%d outside [%d, %d]", v, r[0], r[1])
		}
	}
}

func TestInvalidRange(t *testing.T) {
	_, err := newGenerator(10, 1, false, 1)
	assert.Error(t, err)
}

func TestWriteValues(t *testing.T) {
	gen, err := newGenerator(3, 3, false, 1)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, writeValues(&buf, gen, 4))
	assert.Equal(t, strings.Repeat("3\n", 4), buf.String())
}
