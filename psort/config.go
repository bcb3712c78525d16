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
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/sort"
	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/worker"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvSorter   = "MYSORT_SORTER"
	EnvMerge    = "MYSORT_MERGE"
	EnvPipeSize = "MYSORT_PIPE_SIZE"
)

// DefaultWorkers is the worker count used when none is given.
const DefaultWorkers = 4

// ErrUnknownMerge is returned for merge schedules other than MergeFold and
// MergeHeap.
var ErrUnknownMerge = errors.New("unknown merge schedule")

// Merge is the order in which sorted shards are combined.
type Merge string

const (
	// MergeFold merges each shard into the accumulator as it is collected.
	MergeFold Merge = "fold"
	// MergeHeap collects every shard, then runs one k-way heap merge.
	MergeHeap Merge = "heap"
)

// ParseMerge accepts "fold" or "heap"; the empty string selects MergeFold.
func ParseMerge(s string) (Merge, error) {
	switch m := Merge(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MergeFold, nil
	case MergeFold, MergeHeap:
		return m, nil
	}
	return "", fmt.Errorf("%w %q (known: %s, %s)", ErrUnknownMerge, s, MergeFold, MergeHeap)
}

// Config controls a sort run.
type Config struct {
	// Workers is the number of shards. Values <= 1 select the serial path.
	Workers int

	// Variant picks process or goroutine workers. Ignored when Spawner is set.
	Variant worker.Variant

	// Spawner overrides Variant, e.g. to run workers from another binary.
	Spawner worker.Spawner

	// Sorter names the algorithm each shard is sorted with.
	Sorter sort.Algorithm

	// Merge is the shard merge schedule.
	Merge Merge

	// PipeSize is the requested kernel pipe buffer in bytes; 0 keeps the
	// system default. Only honored on Linux.
	PipeSize int

	// Verify checks the merged output against the input before emitting it.
	Verify bool

	// ParallelLoad reads input files concurrently.
	ParallelLoad bool

	// Strict rejects input lines longer than input.MaxLineLength instead of
	// splitting them.
	Strict bool
}

// DefaultConfig returns the configuration of a plain `mysort files...` run.
func DefaultConfig() Config {
	return Config{
		Workers: DefaultWorkers,
		Variant: worker.Process,
		Sorter:  sort.Default,
		Merge:   MergeFold,
	}
}

// ConfigFromEnv returns DefaultConfig with MYSORT_* environment overrides
// applied.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv(EnvSorter); v != "" {
		cfg.Sorter = sort.Algorithm(strings.ToLower(strings.TrimSpace(v)))
	}
	if v := os.Getenv(EnvMerge); v != "" {
		m, err := ParseMerge(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvMerge, err)
		}
		cfg.Merge = m
	}
	if v := os.Getenv(EnvPipeSize); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("%s: invalid pipe size %q", EnvPipeSize, v)
		}
		cfg.PipeSize = n
	}
	return cfg, cfg.Validate()
}

// Validate reports configuration values no run could use.
func (c Config) Validate() error {
	if _, err := sort.Lookup(string(c.Sorter)); err != nil {
		return err
	}
	if _, err := ParseMerge(string(c.Merge)); err != nil {
		return err
	}
	if c.PipeSize < 0 {
		return fmt.Errorf("negative pipe size %d", c.PipeSize)
	}
	return nil
}

func (c Config) spawner() worker.Spawner {
	if c.Spawner != nil {
		return c.Spawner
	}
	return worker.NewSpawner(c.Variant, c.Sorter)
}
