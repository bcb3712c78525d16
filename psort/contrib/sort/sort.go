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

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"
	stdsort "sort"
	"strings"

	"modernc.org/sortutil"
)

// Thresholds for the introsort.
const (
	// sortInsertionThreshold: use insertion sort for shards this size or smaller.
	sortInsertionThreshold = 64
)

// ErrUnknownAlgorithm is returned by Lookup for names it does not know.
var ErrUnknownAlgorithm = errors.New("unknown sort algorithm")

// Func sorts data in place in non-decreasing order.
type Func func(data []int64)

// Algorithm names a Func.
type Algorithm string

const (
	Exchange  Algorithm = "exchange"
	Insertion Algorithm = "insertion"
	Heap      Algorithm = "heap"
	Intro     Algorithm = "intro"
	Radix     Algorithm = "radix"
	Std       Algorithm = "std"
	SortUtil  Algorithm = "sortutil"

	// Default is used when no algorithm is configured.
	Default = Radix
)

var registry = map[Algorithm]Func{
	Exchange:  ExchangeSort,
	Insertion: InsertionSort,
	Heap:      HeapSort,
	Intro:     IntroSort,
	Radix:     RadixSort,
	Std:       stdSort,
	SortUtil:  sortUtilSort,
}

// Algorithms returns the known algorithm names in lexical order.
func Algorithms() []Algorithm {
	names := make([]Algorithm, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the Func registered under name. Matching is case-insensitive
// and the empty name selects Default.
func Lookup(name string) (Func, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return registry[Default], nil
	}
	fn, ok := registry[Algorithm(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownAlgorithm, name, Algorithms())
	}
	return fn, nil
}

// Sort sorts data in-place with the default algorithm.
func Sort(data []int64) {
	registry[Default](data)
}

// IsSorted reports whether data is in non-decreasing order.
func IsSorted(data []int64) bool {
	for i := 1; i < len(data); i++ {
		if data[i] < data[i-1] {
			return false
		}
	}
	return true
}

// ExchangeSort is the reference bubble sort. Each pass bubbles the largest
// remaining value to the end of the unsorted prefix.
func ExchangeSort(data []int64) {
	n := len(data)
	for j := 0; j < n-1; j++ {
		for i := 0; i < n-j-1; i++ {
			if data[i] > data[i+1] {
				data[i], data[i+1] = data[i+1], data[i]
			}
		}
	}
}

// InsertionSort sorts data by growing a sorted prefix one value at a time.
// It is the fastest choice for a few dozen values.
func InsertionSort(data []int64) {
	for i := 1; i < len(data); i++ {
		v := data[i]
		j := i
		for ; j > 0 && data[j-1] > v; j-- {
			data[j] = data[j-1]
		}
		data[j] = v
	}
}

// HeapSort sorts data in O(n log n) time whatever its order.
func HeapSort(data []int64) {
	for root := len(data)/2 - 1; root >= 0; root-- {
		siftDown(data, root)
	}
	for end := len(data) - 1; end > 0; end-- {
		data[0], data[end] = data[end], data[0]
		siftDown(data[:end], 0)
	}
}

// siftDown restores the max-heap property of data below root.
func siftDown(data []int64, root int) {
	for {
		child := 2*root + 1
		if child >= len(data) {
			return
		}
		if child+1 < len(data) && data[child+1] > data[child] {
			child++
		}
		if data[root] >= data[child] {
			return
		}
		data[root], data[child] = data[child], data[root]
		root = child
	}
}

// IntroSort sorts data with a quicksort that falls back to heapsort once the
// partitioning depth exceeds about 2*log2(n).
func IntroSort(data []int64) {
	introSort(data, 2*bits.Len(uint(len(data))))
}

func introSort(data []int64, budget int) {
	for len(data) > sortInsertionThreshold {
		if budget == 0 {
			HeapSort(data)
			return
		}
		budget--

		lo, hi := partition(data, choosePivot(data))
		// Recurse into the smaller side, loop on the larger.
		if lo < len(data)-hi {
			introSort(data[:lo], budget)
			data = data[hi:]
		} else {
			introSort(data[hi:], budget)
			data = data[:lo]
		}
	}
	InsertionSort(data)
}

func stdSort(data []int64) {
	slices.Sort(data)
}

func sortUtilSort(data []int64) {
	stdsort.Sort(sortutil.Int64Slice(data))
}
