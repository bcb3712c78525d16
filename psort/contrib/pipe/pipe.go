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

// Package pipe carries int64 values over a kernel pipe.
//
// A pipe is a unidirectional, ordered byte stream. Values travel as 8 raw
// bytes in the host's native byte order with no framing; the end of the
// stream is signalled by closing the write end. Reader returns io.EOF once
// every written value has been consumed and the write end is closed.
//
// The same transport serves worker processes (the ends are inherited across
// exec) and worker goroutines, so both worker variants share one contract.
package pipe

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ValueSize is the on-wire width of one value.
const ValueSize = 8

// ErrSetup is wrapped by errors creating a pipe.
var ErrSetup = errors.New("channel setup failed")

// New creates a pipe and returns its read and write ends. Both ends are
// close-on-exec; pass them to a child explicitly. When size is positive the
// kernel buffer is enlarged to at least size bytes where the platform allows
// it; failure to resize is not an error.
func New(size int) (r, w *os.File, err error) {
	r, w, err = newPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrSetup, err)
	}
	if size > 0 {
		setSize(w, size)
	}
	return r, w, nil
}

// Writer writes values to the write end of a pipe.
type Writer struct {
	wc     io.WriteCloser
	bw     *bufio.Writer
	buf    [ValueSize]byte
	closed bool
}

// NewWriter returns a Writer that owns wc and closes it on Close.
func NewWriter(wc io.WriteCloser) *Writer {
	return &Writer{wc: wc, bw: bufio.NewWriter(wc)}
}

// Write appends one value to the stream. It may block while the pipe buffer
// is full and the reader has not caught up.
func (w *Writer) Write(v int64) error {
	binary.NativeEndian.PutUint64(w.buf[:], uint64(v))
	_, err := w.bw.Write(w.buf[:])
	return err
}

// WriteAll writes values in order.
func (w *Writer) WriteAll(values []int64) error {
	for _, v := range values {
		if err := w.Write(v); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered values and closes the write end, signalling end of
// stream to the reader. Only the first call has any effect.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	flushErr := w.bw.Flush()
	closeErr := w.wc.Close()
	return errors.Join(flushErr, closeErr)
}

// Reader reads values from the read end of a pipe.
type Reader struct {
	rc     io.ReadCloser
	br     *bufio.Reader
	buf    [ValueSize]byte
	closed bool
}

// NewReader returns a Reader that owns rc and closes it on Close.
func NewReader(rc io.ReadCloser) *Reader {
	return &Reader{rc: rc, br: bufio.NewReader(rc)}
}

// Read returns the next value. It returns io.EOF once the stream is drained
// and the write end is closed, and io.ErrUnexpectedEOF if the stream ends in
// the middle of a value.
func (r *Reader) Read() (int64, error) {
	if _, err := io.ReadFull(r.br, r.buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.NativeEndian.Uint64(r.buf[:])), nil
}

// ReadAll reads values until end of stream.
func (r *Reader) ReadAll() ([]int64, error) {
	values := []int64{}
	for {
		v, err := r.Read()
		if err == io.EOF {
			return values, nil
		}
		if err != nil {
			return values, err
		}
		values = append(values, v)
	}
}

// Close closes the read end. Only the first call has any effect.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.rc.Close()
}
