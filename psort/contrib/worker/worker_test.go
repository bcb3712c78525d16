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
	"math"
	"math/rand/v2"
	"os"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/pipe"
	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/sort"
)

// envCrash makes a re-executed test binary exit with status 3 before serving.
const envCrash = "WORKER_TEST_CRASH"

func TestMain(m *testing.M) {
	if IsChild() {
		if os.Getenv(envCrash) == "1" {
			os.Exit(3)
		}
		if err := ServeChild(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// roundTrip runs one worker from sp over fresh pipes, feeding it values.
func roundTrip(t *testing.T, sp Spawner, values []int64) ([]int64, error) {
	t.Helper()
	inR, inW, err := pipe.New(0)
	require.NoError(t, err)
	outR, outW, err := pipe.New(0)
	require.NoError(t, err)

	h, err := sp.Spawn(0, inR, outW)
	if err != nil {
		inW.Close()
		outR.Close()
		return nil, err
	}

	werr := make(chan error, 1)
	go func() {
		w := pipe.NewWriter(inW)
		err := w.WriteAll(values)
		werr <- errors.Join(err, w.Close())
	}()

	r := pipe.NewReader(outR)
	got, rerr := r.ReadAll()
	r.Close()
	return got, errors.Join(<-werr, rerr, h.Wait())
}

func TestStateString(t *testing.T) {
	names := map[State]string{
		Idle:     "idle",
		Draining: "draining",
		Sorting:  "sorting",
		Emitting: "emitting",
		Done:     "done",
		State(9): "State(9)",
	}
	for s, want := range names {
		assert.Equal(t, want, s.String())
	}
}

func TestRunSorts(t *testing.T) {
	inR, inW, err := pipe.New(0)
	require.NoError(t, err)
	outR, outW, err := pipe.New(0)
	require.NoError(t, err)

	w := New(7, sort.InsertionSort)
	assert.Equal(t, Idle, w.State())

	done := make(chan error, 1)
	go func() { done <- w.Run(pipe.NewReader(inR), pipe.NewWriter(outW)) }()

	in := pipe.NewWriter(inW)
	require.NoError(t, in.WriteAll([]int64{5, -1, 3, 3, math.MinInt64}))
	require.NoError(t, in.Close())

	r := pipe.NewReader(outR)
	got, err := r.ReadAll()
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.NoError(t, <-done)

	assert.Equal(t, []int64{math.MinInt64, -1, 3, 3, 5}, got)
	assert.Equal(t, Done, w.State())
}

func TestRunTwice(t *testing.T) {
	w := New(1, nil)
	for i := range 2 {
		inR, inW, err := pipe.New(0)
		require.NoError(t, err)
		outR, outW, err := pipe.New(0)
		require.NoError(t, err)
		require.NoError(t, inW.Close())

		err = w.Run(pipe.NewReader(inR), pipe.NewWriter(outW))
		got, rerr := pipe.NewReader(outR).ReadAll()
		require.NoError(t, rerr, "outbound must reach end of stream")
		assert.Empty(t, got)
		outR.Close()

		if i == 0 {
			require.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, ErrDone)
		}
	}
}

func TestRunClosesOutboundOnDrainError(t *testing.T) {
	inR, inW, err := pipe.New(0)
	require.NoError(t, err)
	outR, outW, err := pipe.New(0)
	require.NoError(t, err)

	// Three bytes is a truncated value.
	_, err = inW.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, inW.Close())

	err = New(2, nil).Run(pipe.NewReader(inR), pipe.NewWriter(outW))
	require.Error(t, err)

	got, rerr := pipe.NewReader(outR).ReadAll()
	require.NoError(t, rerr)
	assert.Empty(t, got)
	outR.Close()
}

func TestParseVariant(t *testing.T) {
	for in, want := range map[string]Variant{"": Process, "process": Process, " Thread ": Thread} {
		v, err := ParseVariant(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, v, in)
	}
	_, err := ParseVariant("fiber")
	assert.Error(t, err)

	assert.Equal(t, "thread", NewSpawner(Thread, sort.Default).Name())
	assert.Equal(t, "process", NewSpawner(Process, sort.Default).Name())
}

func testSpawners() []Spawner {
	return []Spawner{
		&Threads{Algorithm: sort.Intro},
		&Processes{Algorithm: sort.Intro},
	}
}

func TestSpawnersRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	values := make([]int64, 50_000)
	for i := range values {
		values[i] = rng.Int64() - math.MaxInt64/2
	}
	want := slices.Clone(values)
	slices.Sort(want)

	for _, sp := range testSpawners() {
		t.Run(sp.Name(), func(t *testing.T) {
			got, err := roundTrip(t, sp, values)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestSpawnersEmptyShard(t *testing.T) {
	for _, sp := range testSpawners() {
		t.Run(sp.Name(), func(t *testing.T) {
			got, err := roundTrip(t, sp, nil)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestThreadsUnknownAlgorithm(t *testing.T) {
	inR, inW, err := pipe.New(0)
	require.NoError(t, err)
	outR, outW, err := pipe.New(0)
	require.NoError(t, err)
	defer inW.Close()
	defer outR.Close()

	_, err = (&Threads{Algorithm: "shell"}).Spawn(0, inR, outW)
	assert.ErrorIs(t, err, ErrSpawn)
	assert.ErrorIs(t, err, sort.ErrUnknownAlgorithm)
}

func TestProcessSpawnFailure(t *testing.T) {
	inR, inW, err := pipe.New(0)
	require.NoError(t, err)
	outR, outW, err := pipe.New(0)
	require.NoError(t, err)
	defer inW.Close()
	defer outR.Close()

	sp := &Processes{Path: "/nonexistent/mysort-worker"}
	_, err = sp.Spawn(0, inR, outW)
	assert.ErrorIs(t, err, ErrSpawn)
}

func TestProcessAbnormalExit(t *testing.T) {
	sp := &Processes{Env: []string{envCrash + "=1"}}
	got, err := roundTrip(t, sp, []int64{3, 2, 1})
	assert.ErrorIs(t, err, ErrAbnormalExit)
	assert.Empty(t, got)
}

func TestProcessBadAlgorithm(t *testing.T) {
	sp := &Processes{Algorithm: "shell", Stderr: io.Discard}
	_, err := roundTrip(t, sp, []int64{1})
	assert.ErrorIs(t, err, ErrAbnormalExit)
}
