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

//go:build linux

package pipe

import (
	"os"

	"github.com/golang/glog"
	"golang.org/x/sys/unix"
)

// newPipe matches os.Pipe: non-blocking ends registered with the runtime
// poller. os/exec switches an inherited end back to blocking mode.
func newPipe() (r, w *os.File, err error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return nil, nil, os.NewSyscallError("pipe2", err)
	}
	return os.NewFile(uintptr(fds[0]), "|0"), os.NewFile(uintptr(fds[1]), "|1"), nil
}

// setSize grows the kernel buffer behind f with F_SETPIPE_SZ. The kernel
// rounds the request up to a power-of-two number of pages and rejects sizes
// above /proc/sys/fs/pipe-max-size for unprivileged callers.
func setSize(f *os.File, size int) {
	sc, err := f.SyscallConn()
	if err != nil {
		glog.Warningf("pipe: resize to %d bytes: %v", size, err)
		return
	}
	var got int
	var opErr error
	err = sc.Control(func(fd uintptr) {
		got, opErr = unix.FcntlInt(fd, unix.F_SETPIPE_SZ, size)
	})
	if err == nil {
		err = opErr
	}
	if err != nil {
		glog.Warningf("pipe: resize to %d bytes: %v", size, err)
		return
	}
	glog.V(2).Infof("pipe: buffer resized to %d bytes", got)
}

// Size reports the kernel buffer size of the pipe behind f.
func Size(f *os.File) (int, error) {
	sc, err := f.SyscallConn()
	if err != nil {
		return 0, err
	}
	var size int
	var opErr error
	if err := sc.Control(func(fd uintptr) {
		size, opErr = unix.FcntlInt(fd, unix.F_GETPIPE_SZ, 0)
	}); err != nil {
		return 0, err
	}
	return size, opErr
}
