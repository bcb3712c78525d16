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

// Package psort sorts the integers of a set of text files by splitting them
// into shards, sorting every shard on its own worker and merging the sorted
// shards.
//
// Input files hold one decimal integer per line. The concatenation of all
// files in argument order is dealt round-robin into Config.Workers shards.
// Each shard travels to its worker over a pipe as raw 8-byte values, comes
// back sorted over a second pipe, and is merged into the result, which is
// written one value per line.
//
// Workers are either separate processes (the running binary, re-executed;
// see worker.IsChild) or goroutines. Both produce identical output.
//
// Usage:
//
//	cfg := psort.DefaultConfig()
//	cfg.Variant = worker.Thread
//	if err := psort.Run(cfg, []string{"a.txt", "b.txt"}, os.Stdout); err != nil {
//	    return err
//	}
//
// Programs that keep the default process workers must call
// worker.ServeChild from main when worker.IsChild reports true.
package psort

import (
	"io"
	"slices"
	"time"

	"github.com/golang/glog"

	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/input"
	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/shard"
	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/sort"
	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/workerpool"
)

// Run sorts the integers in paths and writes them to w, one per line.
// Nothing is written unless every file was read and every worker succeeded.
func Run(cfg Config, paths []string, w io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Workers <= 1 {
		return SortSerial(cfg, paths, w)
	}

	start := time.Now()
	values, err := load(cfg, paths)
	if err != nil {
		return err
	}
	glog.V(1).Infof("loaded %d values from %d files in %v", len(values), len(paths), time.Since(start))

	start = time.Now()
	sorted, err := SortValues(cfg, values)
	if err != nil {
		return err
	}
	glog.V(1).Infof("sorted %d values on %d workers in %v", len(sorted), cfg.Workers, time.Since(start))

	start = time.Now()
	if err := Emit(w, sorted); err != nil {
		return err
	}
	glog.V(1).Infof("emitted %d values in %v", len(sorted), time.Since(start))
	return nil
}

// SortValues returns values in non-decreasing order, sorted the way Run would
// sort them. values is not modified. With cfg.Verify the result is checked
// against values.
func SortValues(cfg Config, values []int64) ([]int64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var sorted []int64
	if cfg.Workers <= 1 {
		fn, err := sort.Lookup(string(cfg.Sorter))
		if err != nil {
			return nil, err
		}
		sorted = slices.Clone(values)
		fn(sorted)
	} else {
		var err error
		shards := shard.Partition(values, cfg.Workers)
		sorted, err = NewCoordinator(cfg.spawner(), cfg.Merge, cfg.PipeSize).Sort(shards)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Verify {
		if err := Verify(values, sorted); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}

// SortSerial is Run without workers: load, sort in place, emit.
func SortSerial(cfg Config, paths []string, w io.Writer) error {
	fn, err := sort.Lookup(string(cfg.Sorter))
	if err != nil {
		return err
	}
	values, err := load(cfg, paths)
	if err != nil {
		return err
	}

	var original []int64
	if cfg.Verify {
		original = slices.Clone(values)
	}
	start := time.Now()
	fn(values)
	glog.V(1).Infof("sorted %d values serially in %v", len(values), time.Since(start))

	if cfg.Verify {
		if err := Verify(original, values); err != nil {
			return err
		}
	}
	return Emit(w, values)
}

func load(cfg Config, paths []string) ([]int64, error) {
	l := &input.Loader{Strict: cfg.Strict}
	if cfg.ParallelLoad && len(paths) > 1 {
		pool := workerpool.New(min(len(paths), 8))
		defer pool.Close()
		l.Pool = pool
	}
	return l.Load(paths)
}
