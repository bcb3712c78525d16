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

// Package sort provides the in-place int64 sort routines used to order a
// single shard.
//
// Every routine has the same shape, a Func that reorders its argument to be
// non-decreasing. Routines are selected by name so that worker processes,
// which receive their configuration through the environment, can rebuild the
// same Func as the coordinator.
//
// # Algorithms
//
//   - Exchange: the O(n²) bubble sort of the reference program
//   - Insertion: insertion sort, good for tiny shards
//   - Heap: heapsort, O(n log n) worst case
//   - Intro: introsort (ninther pivot, 3-way partition, heapsort fallback)
//   - Radix: LSD byte radix sort with a signed final pass (the default)
//   - Std: slices.Sort
//   - SortUtil: sort.Sort over modernc.org/sortutil.Int64Slice
//
// # Example Usage
//
//	fn, err := sort.Lookup("radix")
//	if err != nil {
//	    return err
//	}
//	fn(shard)
//
// None of the routines is stable; equal values are indistinguishable so
// stability is never observable.
package sort
