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
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	"github.com/golang/glog"

	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/pipe"
	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/sort"
)

// Environment of a worker process.
const (
	// EnvWorker is set to "1" in the environment of a worker process.
	EnvWorker = "MYSORT_WORKER"
	// EnvWorkerID carries the worker's shard index.
	EnvWorkerID = "MYSORT_WORKER_ID"
	// EnvWorkerSorter carries the sort algorithm name.
	EnvWorkerSorter = "MYSORT_WORKER_SORTER"
)

// Descriptors of the pipe ends inherited by a worker process. exec.Cmd maps
// ExtraFiles[i] to descriptor 3+i.
const (
	childInFD  = 3
	childOutFD = 4
)

// Processes runs every worker in a new process started from Path (the
// running executable by default). The program at Path must call ServeChild
// when IsChild reports true, before doing anything else.
type Processes struct {
	Algorithm sort.Algorithm

	// Path of the worker binary; empty means os.Executable().
	Path string
	// Args passed to the worker binary.
	Args []string
	// Env is appended to the inherited environment.
	Env []string
	// Stderr of the worker; nil means os.Stderr.
	Stderr io.Writer
}

// Name implements Spawner.
func (p *Processes) Name() string { return Process.String() }

// Spawn implements Spawner. The parent's copies of in and out are closed once
// the child has started (or failed to), so that end of stream on either pipe
// depends only on the child.
func (p *Processes) Spawn(id int, in, out *os.File) (Handle, error) {
	defer in.Close()
	defer out.Close()

	path := p.Path
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("%w: worker %d: %w", ErrSpawn, id, err)
		}
		path = exe
	}

	cmd := exec.Command(path, p.Args...)
	cmd.Env = append(os.Environ(), p.Env...)
	cmd.Env = append(cmd.Env,
		EnvWorker+"=1",
		EnvWorkerID+"="+strconv.Itoa(id),
		EnvWorkerSorter+"="+string(p.Algorithm),
	)
	cmd.ExtraFiles = []*os.File{in, out}
	cmd.Stderr = p.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: worker %d: %w", ErrSpawn, id, err)
	}
	glog.V(1).Infof("worker %d: started process %d", id, cmd.Process.Pid)
	return &process{id: id, cmd: cmd}, nil
}

type process struct {
	id  int
	cmd *exec.Cmd
}

func (h *process) Wait() error {
	err := h.cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: worker %d: %v", ErrAbnormalExit, h.id, exitErr)
	}
	if err != nil {
		return fmt.Errorf("worker %d: %w", h.id, err)
	}
	return nil
}

// IsChild reports whether this process was started by Processes.Spawn.
func IsChild() bool {
	return os.Getenv(EnvWorker) == "1"
}

// ServeChild runs the worker of a process started by Processes.Spawn on the
// inherited pipe ends. The caller should exit non-zero if it returns an error.
func ServeChild() error {
	id, err := strconv.Atoi(os.Getenv(EnvWorkerID))
	if err != nil {
		return fmt.Errorf("worker: bad %s: %w", EnvWorkerID, err)
	}
	fn, err := sort.Lookup(os.Getenv(EnvWorkerSorter))
	if err != nil {
		return fmt.Errorf("worker %d: %w", id, err)
	}

	in := os.NewFile(childInFD, "inbound")
	out := os.NewFile(childOutFD, "outbound")
	return New(id, fn).Run(pipe.NewReader(in), pipe.NewWriter(out))
}
