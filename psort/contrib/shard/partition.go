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

// Package shard splits a flat sequence of values into round-robin shards and
// merges sorted shards back together.
//
// Partition deals values like cards: the k-th value goes to shard k mod n, so
// shard sizes differ by at most one and the first len(flat) mod n shards are
// the longer ones. Interleave is its inverse.
package shard

import (
	"fmt"

	"github.com/samber/lo"
)

// Partition deals flat across n shards. Element i is appended to shard i mod n.
// Every shard is non-nil, including the empty ones. n must be at least 1.
func Partition(flat []int64, n int) [][]int64 {
	if n < 1 {
		panic(fmt.Sprintf("shard: Partition with n=%d", n))
	}
	sizes := Sizes(len(flat), n)
	shards := lo.Times(n, func(i int) []int64 {
		return make([]int64, 0, sizes[i])
	})
	for i, v := range flat {
		shards[i%n] = append(shards[i%n], v)
	}
	return shards
}

// Sizes returns the length Partition gives each of n shards of a sequence of
// length l: ceil(l/n) for the first l mod n shards, floor(l/n) for the rest.
// n must be at least 1.
func Sizes(l, n int) []int {
	if n < 1 {
		panic(fmt.Sprintf("shard: Sizes with n=%d", n))
	}
	return lo.Times(n, func(i int) int {
		if i < l%n {
			return l/n + 1
		}
		return l / n
	})
}

// Interleave reassembles the flat sequence from shards built by Partition.
func Interleave(shards [][]int64) []int64 {
	return lo.Interleave(shards...)
}
