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

// Package worker sorts one shard received over a pipe and sends it back over
// another.
//
// A Worker runs the same steps whatever it runs on:
//
//  1. drain the inbound pipe until end of stream
//  2. close the inbound read end
//  3. sort the values
//  4. write them to the outbound pipe in order
//  5. close the outbound write end
//
// A Spawner starts a Worker on its own execution context. Threads runs it on
// a goroutine of the calling process; Processes re-executes the current binary
// and hands it the pipe ends as inherited file descriptors. The coordinator
// only ever sees the Spawner and the pipe ends.
package worker

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/pipe"
	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/sort"
)

var (
	// ErrSpawn is wrapped by errors starting a worker.
	ErrSpawn = errors.New("worker spawn failed")

	// ErrAbnormalExit is wrapped by Wait errors of workers that did not
	// finish cleanly.
	ErrAbnormalExit = errors.New("worker exited abnormally")

	// ErrDone is returned when Run is called on a worker that already ran.
	ErrDone = errors.New("worker already ran")
)

// State is the life-cycle stage of a Worker. Transitions only go forward:
// Idle, Draining, Sorting, Emitting, Done.
type State int32

const (
	// Idle workers have not started.
	Idle State = iota
	// Draining workers are reading their inbound stream.
	Draining
	// Sorting workers hold the whole shard in memory.
	Sorting
	// Emitting workers are writing the sorted shard.
	Emitting
	// Done workers have closed both pipe ends.
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Draining:
		return "draining"
	case Sorting:
		return "sorting"
	case Emitting:
		return "emitting"
	case Done:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Worker sorts a single shard.
type Worker struct {
	// ID is the index of the shard the worker sorts.
	ID    int
	sort  sort.Func
	state atomic.Int32
}

// New returns an idle worker that sorts with fn, or with sort.Sort if fn is nil.
func New(id int, fn sort.Func) *Worker {
	if fn == nil {
		fn = sort.Sort
	}
	return &Worker{ID: id, sort: fn}
}

// State returns the current stage.
func (w *Worker) State() State {
	return State(w.state.Load())
}

func (w *Worker) enter(s State) {
	w.state.Store(int32(s))
	glog.V(2).Infof("worker %d: %v", w.ID, s)
}

// Run drains in, sorts, writes the result to out and closes both. Run owns in
// and out from the moment it is called: they are closed on every return path,
// so the reader of out always sees end of stream. A Worker runs once.
func (w *Worker) Run(in *pipe.Reader, out *pipe.Writer) (err error) {
	if !w.state.CompareAndSwap(int32(Idle), int32(Draining)) {
		in.Close()
		out.Close()
		return fmt.Errorf("worker %d: %w", w.ID, ErrDone)
	}
	defer func() {
		in.Close()
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("worker %d: close outbound: %w", w.ID, cerr)
		}
		w.enter(Done)
	}()

	values, err := in.ReadAll()
	if err != nil {
		return fmt.Errorf("worker %d: drain: %w", w.ID, err)
	}
	if err := in.Close(); err != nil {
		return fmt.Errorf("worker %d: close inbound: %w", w.ID, err)
	}

	w.enter(Sorting)
	w.sort(values)

	w.enter(Emitting)
	if err := out.WriteAll(values); err != nil {
		return fmt.Errorf("worker %d: emit: %w", w.ID, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("worker %d: close outbound: %w", w.ID, err)
	}
	glog.V(1).Infof("worker %d: sorted %d values", w.ID, len(values))
	return nil
}
