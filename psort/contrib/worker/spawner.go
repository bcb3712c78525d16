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

package worker

import (
	"fmt"
	"os"
	"strings"

	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/pipe"
	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/sort"
)

// Handle joins a spawned worker.
type Handle interface {
	// Wait blocks until the worker has terminated and reports how it ended.
	Wait() error
}

// Spawner starts workers. Spawn takes ownership of in (the inbound read end)
// and out (the outbound write end) whether or not it succeeds; the caller
// keeps the opposite ends.
type Spawner interface {
	Spawn(id int, in, out *os.File) (Handle, error)
	Name() string
}

// Variant selects a Spawner implementation.
type Variant int

const (
	// Process runs each worker in its own address space.
	Process Variant = iota
	// Thread runs each worker on a goroutine of the coordinator's process.
	Thread
)

func (v Variant) String() string {
	switch v {
	case Process:
		return "process"
	case Thread:
		return "thread"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant accepts "process" or "thread".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "process", "":
		return Process, nil
	case "thread":
		return Thread, nil
	}
	return 0, fmt.Errorf("unknown worker variant %q", s)
}

// NewSpawner returns the Spawner for v sorting with algorithm.
func NewSpawner(v Variant, algorithm sort.Algorithm) Spawner {
	if v == Thread {
		return &Threads{Algorithm: algorithm}
	}
	return &Processes{Algorithm: algorithm}
}

// Threads runs workers on goroutines. Worker and coordinator share one
// descriptor table, so the coordinator must not close the ends it hands over;
// the worker closes them when it is done with them.
type Threads struct {
	Algorithm sort.Algorithm
}

// Name implements Spawner.
func (t *Threads) Name() string { return Thread.String() }

// Spawn implements Spawner.
func (t *Threads) Spawn(id int, in, out *os.File) (Handle, error) {
	fn, err := sort.Lookup(string(t.Algorithm))
	if err != nil {
		in.Close()
		out.Close()
		return nil, fmt.Errorf("%w: worker %d: %w", ErrSpawn, id, err)
	}

	w := New(id, fn)
	h := &thread{done: make(chan struct{})}
	go func() {
		defer close(h.done)
		h.err = w.Run(pipe.NewReader(in), pipe.NewWriter(out))
	}()
	return h, nil
}

type thread struct {
	done chan struct{}
	err  error
}

func (h *thread) Wait() error {
	<-h.done
	return h.err
}
