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

//go:build !linux

package pipe

import (
	"errors"
	"os"
)

func newPipe() (r, w *os.File, err error) {
	return os.Pipe()
}

// setSize is a no-op: only Linux can resize a pipe buffer.
func setSize(*os.File, int) {}

// Size reports the kernel buffer size of the pipe behind f.
func Size(*os.File) (int, error) {
	return 0, errors.ErrUnsupported
}
