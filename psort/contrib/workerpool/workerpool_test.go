// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.Size() != 4 {
		t.Errorf("Size() = %d, want 4", pool.Size())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.Size() != runtime.GOMAXPROCS(0) {
		t.Errorf("Size() = %d, want %d", pool.Size(), runtime.GOMAXPROCS(0))
	}
}

func TestEach(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)
	err := pool.Each(n, func(i int) error {
		results[i] = i * 2
		return nil
	})
	if err != nil {
		t.Fatalf("Each() = %v, want nil", err)
	}
	for i := range n {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestEachSmallN(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	var count atomic.Int32
	pool.Each(3, func(int) error {
		count.Add(1)
		return nil
	})
	if count.Load() != 3 {
		t.Errorf("count = %d, want 3", count.Load())
	}
}

func TestEachZeroN(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	var called bool
	pool.Each(0, func(int) error {
		called = true
		return nil
	})
	if called {
		t.Error("Each with n=0 should not call fn")
	}
}

func TestEachSlowIndexDoesNotBlockOthers(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	release := make(chan struct{})
	var done atomic.Int32
	go func() {
		for done.Load() < 9 {
			time.Sleep(time.Millisecond)
		}
		close(release)
	}()

	pool.Each(10, func(i int) error {
		if i == 0 {
			<-release
		}
		done.Add(1)
		return nil
	})
	if done.Load() != 10 {
		t.Errorf("done = %d, want 10", done.Load())
	}
}

func TestEachFirstError(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	errLow := errors.New("low")
	errHigh := errors.New("high")
	var ran atomic.Int32
	err := pool.Each(10, func(i int) error {
		ran.Add(1)
		switch i {
		case 3:
			return errLow
		case 7:
			return errHigh
		}
		return nil
	})

	if !errors.Is(err, errLow) {
		t.Errorf("Each() = %v, want %v", err, errLow)
	}
	if ran.Load() != 10 {
		t.Errorf("ran = %d, want 10", ran.Load())
	}
}

func TestCloseMultipleTimes(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close() // Should not panic
}

func TestClosedPoolFallback(t *testing.T) {
	pool := New(4)
	pool.Close()

	n := 100
	results := make([]int, n)

	// Runs on the caller's goroutine.
	pool.Each(n, func(i int) error {
		results[i] = i * 2
		return nil
	})

	for i := range n {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func BenchmarkEach(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	n := 1000
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Each(n, func(i int) error {
			_ = i * i
			return nil
		})
	}
}
