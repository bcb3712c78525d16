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

package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonjh/Concurrent-Sorting-Implementation/psort"
	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/sort"
	"github.com/leonjh/Concurrent-Sorting-Implementation/psort/contrib/worker"
)

func TestMain(m *testing.M) {
	if worker.IsChild() {
		if err := worker.ServeChild(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecute(t *testing.T) {
	a := writeInput(t, "4\n3\n")
	b := writeInput(t, "2\n-1\n")

	for _, args := range [][]string{
		{"-t", "-n", "2", a, b},
		{"-n", "2", a, b},
		{"-n", "0", a, b},
		{"-t", "-n", "3", "--merge", "heap", "--sorter", "intro", "--verify", a, b},
		{a, b},
	} {
		var stdout, stderr bytes.Buffer
		code := execute(args, &stdout, &stderr)
		assert.Equal(t, 0, code, "args %v: %s", args, stderr.String())
		assert.Equal(t, "-1\n2\n3\n4\n", stdout.String(), "args %v", args)
	}
}

func TestExecuteUnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute([]string{"-x", "file"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Equal(t, usageHint+"\n", stdout.String())
}

func TestExecuteHelpPrintsUsageHint(t *testing.T) {
	for _, arg := range []string{"-h", "--help"} {
		var stdout, stderr bytes.Buffer
		code := execute([]string{arg}, &stdout, &stderr)
		assert.Equal(t, 0, code, arg)
		assert.Equal(t, usageHint+"\n", stdout.String(), arg)
	}
}

func TestExecuteShortVIsUnknown(t *testing.T) {
	path := writeInput(t, "2\n1\n")
	t.Cleanup(func() { flag.Set("v", "0") })

	var stdout, stderr bytes.Buffer
	code := execute([]string{"-v", "2", path}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Equal(t, usageHint+"\n", stdout.String())

	stdout.Reset()
	code = execute([]string{"-t", "--v", "2", path}, &stdout, &stderr)
	assert.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "1\n2\n", stdout.String())
}

func TestExecuteMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute([]string{"-t", filepath.Join(t.TempDir(), "nope.txt")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "mysort: ")
	assert.Contains(t, stderr.String(), "nope.txt")
}

func TestExecuteBadSorter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute([]string{"--sorter", "shell", writeInput(t, "1\n")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "unknown sort algorithm")
}

func TestParseWorkers(t *testing.T) {
	tests := map[string]int{
		"":    psort.DefaultWorkers,
		"0":   0,
		"1":   1,
		"16":  16,
		"-3":  psort.DefaultWorkers,
		"abc": psort.DefaultWorkers,
		"2x":  psort.DefaultWorkers,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseWorkers(in), "parseWorkers(%q)", in)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv(psort.EnvSorter, "heap")
	t.Setenv(psort.EnvMerge, "heap")
	t.Setenv(psort.EnvPipeSize, "65536")

	opts := &options{}
	cmd := newRootCmd(opts, &bytes.Buffer{})
	require.NoError(t, cmd.ParseFlags([]string{"--sorter", "radix", "-t"}))

	cfg, err := opts.config(cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, sort.Radix, cfg.Sorter)
	assert.Equal(t, psort.MergeHeap, cfg.Merge)
	assert.Equal(t, 65536, cfg.PipeSize)
	assert.Equal(t, worker.Thread, cfg.Variant)
	assert.Equal(t, psort.DefaultWorkers, cfg.Workers)
}
