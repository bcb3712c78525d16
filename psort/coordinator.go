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
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/pipe"
	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/shard"
	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/worker"
)

// Coordinator sorts shards on workers and merges the results.
//
// For every shard it opens an inbound pipe (coordinator to worker) and an
// outbound pipe (worker to coordinator), spawns a worker on the far ends,
// streams the shard in, and reads the sorted shard back. The coordinator
// keeps only the inbound write ends and the outbound read ends.
type Coordinator struct {
	spawner  worker.Spawner
	merge    Merge
	pipeSize int
}

// NewCoordinator returns a Coordinator that starts workers with sp.
// pipeSize is passed to pipe.New.
func NewCoordinator(sp worker.Spawner, merge Merge, pipeSize int) *Coordinator {
	if merge == "" {
		merge = MergeFold
	}
	return &Coordinator{spawner: sp, merge: merge, pipeSize: pipeSize}
}

// Sort returns the values of all shards in non-decreasing order. Every worker
// has terminated and every pipe end is closed when Sort returns, successful
// or not. Any worker failure fails the whole sort.
func (c *Coordinator) Sort(shards [][]int64) ([]int64, error) {
	n := len(shards)
	start := time.Now()

	writeEnds := make([]*os.File, 0, n)
	readEnds := make([]*os.File, 0, n)
	handles := make([]worker.Handle, 0, n)
	for i := range shards {
		w, r, h, err := c.start(i)
		if err != nil {
			closeFiles(writeEnds)
			closeFiles(readEnds)
			c.reap(handles)
			return nil, err
		}
		writeEnds = append(writeEnds, w)
		readEnds = append(readEnds, r)
		handles = append(handles, h)
	}
	glog.V(1).Infof("coordinator: %d %s workers started in %v", n, c.spawner.Name(), time.Since(start))

	// One writer per shard. Workers drain their whole inbound stream before
	// they emit anything, so every writer finishes without any outbound
	// stream being read.
	var g errgroup.Group
	for i, values := range shards {
		w := pipe.NewWriter(writeEnds[i])
		g.Go(func() error {
			err := w.WriteAll(values)
			if cerr := w.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("shard %d: send: %w", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		closeFiles(readEnds)
		return nil, errors.Join(err, waitAll(handles))
	}

	acc := []int64{}
	var collected [][]int64
	if c.merge == MergeHeap {
		collected = make([][]int64, 0, n)
	}
	var collectErr error
	for i, f := range readEnds {
		r := pipe.NewReader(f)
		values, err := r.ReadAll()
		r.Close()
		readEnds[i] = nil
		if err != nil {
			collectErr = fmt.Errorf("shard %d: collect: %w", i, err)
			break
		}
		if c.merge == MergeHeap {
			collected = append(collected, values)
		} else {
			acc = shard.Merge(acc, values)
		}
	}
	closeFiles(readEnds)

	if err := errors.Join(collectErr, waitAll(handles)); err != nil {
		return nil, err
	}
	if c.merge == MergeHeap {
		acc = shard.MergeAll(collected)
	}
	glog.V(1).Infof("coordinator: %d shards sorted and merged (%s) in %v", n, c.merge, time.Since(start))
	return acc, nil
}

// start opens the pipes of shard id and spawns its worker. It returns the
// inbound write end and the outbound read end.
func (c *Coordinator) start(id int) (inW, outR *os.File, h worker.Handle, err error) {
	inR, inW, err := pipe.New(c.pipeSize)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("shard %d: %w", id, err)
	}
	outR, outW, err := pipe.New(c.pipeSize)
	if err != nil {
		inR.Close()
		inW.Close()
		return nil, nil, nil, fmt.Errorf("shard %d: %w", id, err)
	}
	// The spawner owns inR and outW from here on.
	h, err = c.spawner.Spawn(id, inR, outW)
	if err != nil {
		inW.Close()
		outR.Close()
		return nil, nil, nil, err
	}
	return inW, outR, h, nil
}

// reap waits for workers of an aborted sort. Their errors follow from the
// abort and are only logged.
func (c *Coordinator) reap(handles []worker.Handle) {
	if err := waitAll(handles); err != nil {
		glog.V(1).Infof("coordinator: workers of aborted sort: %v", err)
	}
}

func waitAll(handles []worker.Handle) error {
	var errs []error
	for _, h := range handles {
		if err := h.Wait(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func closeFiles(files []*os.File) {
	for _, f := range files {
		if f != nil {
			f.Close()
		}
	}
}
