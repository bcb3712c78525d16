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

package sort

// median3 returns the median of a, b and c.
func median3(a, b, c int64) int64 {
	if a > b {
		a, b = b, a
	}
	// a <= b
	switch {
	case c >= b:
		return b
	case c <= a:
		return a
	}
	return c
}

// choosePivot picks a pivot value for data, which must not be empty: the
// median of first, middle and last for short slices, Tukey's ninther
// (median of three medians of three) otherwise.
func choosePivot(data []int64) int64 {
	n := len(data)
	last, mid := n-1, n/2
	if n < 40 {
		return median3(data[0], data[mid], data[last])
	}
	s := n / 8
	return median3(
		median3(data[0], data[s], data[2*s]),
		median3(data[mid-s], data[mid], data[mid+s]),
		median3(data[last-2*s], data[last-s], data[last]),
	)
}

// partition reorders data around pivot into three runs and returns their
// bounds: data[:lo] < pivot, data[lo:hi] == pivot, data[hi:] > pivot.
func partition(data []int64, pivot int64) (lo, hi int) {
	hi = len(data)
	for i := 0; i < hi; {
		switch v := data[i]; {
		case v < pivot:
			data[lo], data[i] = v, data[lo]
			lo++
			i++
		case v > pivot:
			hi--
			data[i], data[hi] = data[hi], v
		default:
			i++
		}
	}
	return lo, hi
}
