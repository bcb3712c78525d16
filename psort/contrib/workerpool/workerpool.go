// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool runs indexed jobs, such as reading each input file of a
// run, on a fixed set of long-lived goroutines.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	err := pool.Each(len(paths), func(i int) error {
//	    return load(paths[i])
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool owns a set of goroutines that pick up jobs until Close.
type Pool struct {
	size    int
	jobs    chan func()
	stop    sync.Once
	stopped atomic.Bool
}

// New starts a pool of size goroutines, or GOMAXPROCS if size <= 0.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	p := &Pool{size: size, jobs: make(chan func(), size)}
	for range size {
		go func() {
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

// Size returns the number of goroutines in the pool.
func (p *Pool) Size() int {
	return p.size
}

// Close stops the goroutines once queued jobs are done. It is safe to call
// more than once; Each keeps working after Close, on the caller's goroutine.
// Close must not run concurrently with Each.
func (p *Pool) Close() {
	p.stop.Do(func() {
		p.stopped.Store(true)
		close(p.jobs)
	})
}

// Each runs fn for every index in [0, n) and returns the error of the lowest
// failing index, or nil. Every index runs even when an earlier one fails.
// Indices are claimed one at a time, so a slow index (a large file) does not
// hold back the ones after it.
func (p *Pool) Each(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	errs := make([]error, n)

	runners := min(p.size, n)
	if runners == 1 || p.stopped.Load() {
		for i := range n {
			errs[i] = fn(i)
		}
		return first(errs)
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	wg.Add(runners)
	claim := func() {
		defer wg.Done()
		for {
			i := int(next.Add(1)) - 1
			if i >= n {
				return
			}
			errs[i] = fn(i)
		}
	}
	for range runners {
		p.jobs <- claim
	}
	wg.Wait()
	return first(errs)
}

func first(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
