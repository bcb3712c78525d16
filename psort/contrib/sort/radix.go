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

// radixSmallThreshold: shards this size or smaller use insertion sort, the
// histogram setup costs more than it saves.
const radixSmallThreshold = 64

// RadixSort sorts data with an 8-pass LSD radix sort over the bytes of each
// value. Passes whose digit is identical for every value are skipped.
func RadixSort(data []int64) {
	n := len(data)
	if n <= radixSmallThreshold {
		InsertionSort(data)
		return
	}

	src := data
	dst := make([]int64, n)
	for shift := 0; shift < 56; shift += 8 {
		if radixPass(src, dst, shift, false) {
			src, dst = dst, src
		}
	}
	if radixPass(src, dst, 56, true) {
		src, dst = dst, src
	}

	// An odd number of effective passes leaves the result in the scratch buffer.
	if &src[0] != &data[0] {
		copy(data, src)
	}
}

// radixPass scatters src into dst by the byte at shift and reports whether it
// moved anything. When signed is set the byte holds the sign bit, so buckets
// 128-255 (negative) come before 0-127 (positive).
func radixPass(src, dst []int64, shift int, signed bool) bool {
	var count [256]int
	for _, v := range src {
		count[(v>>shift)&0xFF]++
	}

	// All values share this digit; the pass would be the identity.
	for _, c := range count {
		if c == len(src) {
			return false
		}
		if c != 0 {
			break
		}
	}

	offset := 0
	if signed {
		for b := 128; b < 256; b++ {
			c := count[b]
			count[b] = offset
			offset += c
		}
		for b := 0; b < 128; b++ {
			c := count[b]
			count[b] = offset
			offset += c
		}
	} else {
		for b := 0; b < 256; b++ {
			c := count[b]
			count[b] = offset
			offset += c
		}
	}

	for _, v := range src {
		digit := (v >> shift) & 0xFF
		dst[count[digit]] = v
		count[digit]++
	}
	return true
}
