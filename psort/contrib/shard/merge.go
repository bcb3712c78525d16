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

package shard

import "container/heap"

// Merge merges two non-decreasing sequences into a new non-decreasing
// sequence holding both. On equal heads the value from x is taken first.
func Merge(x, y []int64) []int64 {
	out := make([]int64, 0, len(x)+len(y))
	i, j := 0, 0
	for i < len(x) && j < len(y) {
		if y[j] < x[i] {
			out = append(out, y[j])
			j++
		} else {
			out = append(out, x[i])
			i++
		}
	}
	out = append(out, x[i:]...)
	out = append(out, y[j:]...)
	return out
}

// Fold merges shards left to right, acc = Merge(acc, shard), the schedule the
// coordinator uses when collecting one shard at a time. O(n·L) work.
func Fold(shards [][]int64) []int64 {
	acc := []int64{}
	for _, s := range shards {
		acc = Merge(acc, s)
	}
	return acc
}

// MergeAll merges any number of non-decreasing shards with a min-heap of shard
// heads. O(L log n) work.
func MergeAll(shards [][]int64) []int64 {
	total := 0
	h := make(headHeap, 0, len(shards))
	for i, s := range shards {
		total += len(s)
		if len(s) > 0 {
			h = append(h, head{value: s[0], shard: i})
		}
	}
	heap.Init(&h)

	out := make([]int64, 0, total)
	pos := make([]int, len(shards))
	for h.Len() > 0 {
		top := h[0]
		out = append(out, top.value)
		pos[top.shard]++
		if p := pos[top.shard]; p < len(shards[top.shard]) {
			h[0].value = shards[top.shard][p]
			heap.Fix(&h, 0)
		} else {
			heap.Pop(&h)
		}
	}
	return out
}

// head is the next unconsumed value of one shard.
type head struct {
	value int64
	shard int
}

type headHeap []head

func (h headHeap) Len() int { return len(h) }
func (h headHeap) Less(i, j int) bool {
	if h[i].value != h[j].value {
		return h[i].value < h[j].value
	}
	return h[i].shard < h[j].shard
}
func (h headHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *headHeap) Push(x any) {
	*h = append(*h, x.(head))
}

func (h *headHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
